package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhisek/parabola/internal/api"
	"github.com/abhisek/parabola/internal/config"
	"github.com/abhisek/parabola/internal/render"
	"github.com/abhisek/parabola/internal/session"
	"github.com/abhisek/parabola/internal/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the exercise over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides PARABOLA_HTTP_ADDR)")
	serveCmd.Flags().String("driver", "", "Database driver: sqlite or postgres (overrides PARABOLA_DB_DRIVER)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		cfg.HTTPAddr = v
	}
	if v, _ := cmd.Flags().GetString("driver"); v != "" {
		cfg.DBDriver = v
	}
	logger := newLogger(cmd, os.Stderr)

	dsn := cfg.DBDSN
	if store.Driver(cfg.DBDriver) != store.DriverPostgres {
		if p, _ := cmd.Flags().GetString("db"); p != "" || dsn == "" {
			path, err := resolveDBPath(cmd)
			if err != nil {
				return fmt.Errorf("resolve database path: %w", err)
			}
			dsn = path
		}
	}
	st, err := store.OpenDriver(ctx, store.Driver(cfg.DBDriver), dsn)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ropts := render.DefaultOptions()
	ropts.Size = cfg.CanvasSize
	renderer, err := render.New(ropts)
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}

	var auth *api.AuthService
	if cfg.TeacherPassHash != "" {
		auth, err = api.NewAuthService(cfg.AuthSecret, cfg.TeacherPassHash)
		if err != nil {
			return err
		}
	} else {
		logger.Warn("PARABOLA_TEACHER_PASSWORD_HASH not set, submission routes disabled")
	}

	repo := session.NewRepo(st)
	manager := session.NewManager(session.Config{
		Grader:     newGrader(ctx, st.EventRepo(), cfg.GradeWithImage, logger),
		Renderer:   renderer,
		Repo:       repo,
		CanvasSize: float64(cfg.CanvasSize),
		Logger:     logger,
	})

	srv := api.NewServer(api.Options{
		Sessions:    manager,
		Repo:        repo,
		Auth:        auth,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})
	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr, "driver", st.Driver())
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
