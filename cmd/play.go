package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/abhisek/parabola/internal/app"
	"github.com/abhisek/parabola/internal/render"
	"github.com/abhisek/parabola/internal/session"
	"github.com/abhisek/parabola/internal/store"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Work through the exercise in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		fresh, _ := cmd.Flags().GetBool("new")
		return runPlay(cmd, fresh)
	},
}

func init() {
	playCmd.Flags().Bool("new", false, "Discard the saved exercise and start a new problem")
	playCmd.Flags().String("student", "", "Student id recorded with the submission")
	playCmd.Flags().String("name", "", "Student name recorded with the submission")
}

// runPlay resumes the exercise saved under current-session, or starts a new
// one when there is none or fresh is set.
func runPlay(cmd *cobra.Command, fresh bool) error {
	ctx := cmd.Context()
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	// Logs would tear the alt screen.
	logger := newLogger(cmd, io.Discard)

	renderer, err := render.New(render.DefaultOptions())
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}
	studentID, _ := cmd.Flags().GetString("student")
	name, _ := cmd.Flags().GetString("name")

	cfg := session.Config{
		StudentID:   studentID,
		StudentName: name,
		Grader:      newGrader(ctx, st.EventRepo(), true, logger),
		Renderer:    renderer,
		Repo:        session.NewRepo(st),
		Key:         session.CurrentSessionKey,
		Logger:      logger,
	}

	var sess *session.ExerciseSession
	if fresh {
		if _, err := clearCurrentSession(ctx, cfg.Repo); err != nil {
			return err
		}
	} else {
		sess, err = session.Resume(ctx, cfg)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("resume exercise: %w", err)
		}
	}
	if sess == nil {
		sess, err = session.New(ctx, cfg)
		if err != nil {
			return fmt.Errorf("start exercise: %w", err)
		}
	}

	return app.Run(app.Options{Session: sess})
}
