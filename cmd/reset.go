package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/parabola/internal/session"
	"github.com/abhisek/parabola/internal/store"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the saved terminal exercise",
	Long:  "Discard the exercise saved by `parabola play`. Submissions are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		id, err := clearCurrentSession(cmd.Context(), session.NewRepo(st))
		if err != nil {
			return err
		}
		if id == "" {
			fmt.Println("Nothing to reset.")
			return nil
		}
		fmt.Printf("Discarded exercise %s.\n", id)
		return nil
	},
}

// clearCurrentSession deletes the current-session record and its step
// records. It returns the id of the removed session, empty when none was
// saved.
func clearCurrentSession(ctx context.Context, repo *session.Repo) (string, error) {
	rec, err := repo.LoadSession(ctx, session.CurrentSessionKey)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load saved exercise: %w", err)
	}
	if err := repo.DeleteSession(ctx, session.CurrentSessionKey, rec.ID); err != nil {
		return "", fmt.Errorf("delete saved exercise: %w", err)
	}
	return rec.ID, nil
}
