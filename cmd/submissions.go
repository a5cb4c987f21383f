package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/parabola/internal/session"
	"github.com/abhisek/parabola/internal/store"
	"github.com/spf13/cobra"
)

var submissionsCmd = &cobra.Command{
	Use:     "submissions",
	Aliases: []string{"subs"},
	Short:   "Inspect finished exercises",
}

var submissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List submissions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		student, _ := cmd.Flags().GetString("student")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		subs, err := session.NewRepo(st).Submissions(cmd.Context())
		if err != nil {
			return fmt.Errorf("load submissions: %w", err)
		}
		if len(subs) == 0 {
			fmt.Println("No submissions found.")
			return nil
		}

		fmt.Printf("%-36s  %-19s  %-16s  %-22s  %-5s  %s\n",
			"ID", "Submitted", "Student", "Problem", "Score", "Wrong")
		fmt.Println(strings.Repeat("─", 110))

		shown := 0
		for i := len(subs) - 1; i >= 0 && shown < limit; i-- {
			sub := subs[i]
			if student != "" && sub.StudentID != student {
				continue
			}
			score := "-"
			if res := sub.GPTFeedback; res != nil {
				score = fmt.Sprintf("%d/%d", res.Score, res.MaxScore)
			}
			fmt.Printf("%-36s  %-19s  %-16s  %-22s  %-5s  %d\n",
				sub.ID,
				sub.SubmittedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(sub.StudentName, 16),
				truncate(sub.ProblemLabel, 22),
				score,
				sub.StepRecords.TotalWrong(),
			)
			shown++
		}
		return nil
	},
}

var submissionsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one submission with its grading and advice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		sub, err := session.NewRepo(st).Submission(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("submission %s not found", args[0])
		}
		if err != nil {
			return fmt.Errorf("get submission: %w", err)
		}
		printSubmission(sub)
		return nil
	},
}

var stepTitles = []string{"Shape", "Vertex", "y-intercept", "Graph", "Explanation"}

func printSubmission(sub *session.Submission) {
	sep := strings.Repeat("─", 60)

	fmt.Printf("ID:        %s\n", sub.ID)
	fmt.Printf("Session:   %s\n", sub.SessionID)
	fmt.Printf("Student:   %s (%s)\n", sub.StudentName, sub.StudentID)
	fmt.Printf("Time:      %s\n", sub.SubmittedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Problem:   %s\n", sub.ProblemLabel)

	fmt.Println()
	fmt.Println(sep)
	fmt.Println("STEPS")
	fmt.Println(sep)
	for i, title := range stepTitles {
		rec := sub.StepRecords[i+1]
		fmt.Printf("%d. %-12s  attempts %d  wrong %d", i+1, title, rec.Attempts, rec.WrongCount)
		if rec.LastInput != "" && i < 4 {
			fmt.Printf("  last %q", rec.LastInput)
		}
		fmt.Println()
		for _, id := range rec.Misconceptions {
			fmt.Printf("   ! %s\n", id)
		}
	}

	fmt.Println(sep)
	fmt.Println("EXPLANATION")
	fmt.Println(sep)
	if sub.Description != "" {
		fmt.Println(sub.Description)
	} else {
		fmt.Println("(empty)")
	}

	fmt.Println(sep)
	fmt.Println("GRADING")
	fmt.Println(sep)
	if res := sub.GPTFeedback; res != nil {
		fmt.Printf("Score: %d/%d", res.Score, res.MaxScore)
		if res.Fallback {
			fmt.Print("  (fallback)")
		}
		fmt.Println()
		for _, k := range res.Keys() {
			c := res.Checklist[k]
			mark := "✗"
			if c.Passed {
				mark = "✓"
			}
			fmt.Printf("  %s %-18s %d  %s\n", mark, k, c.Score, c.Comment)
		}
		if res.Feedback != "" {
			fmt.Println()
			fmt.Println(res.Feedback)
		}
	} else {
		fmt.Println("(not graded)")
	}

	fmt.Println(sep)
	fmt.Println("STUDY ADVICE")
	fmt.Println(sep)
	fmt.Println(sub.StudyAdvice.String())
}

func init() {
	submissionsListCmd.Flags().IntP("limit", "n", 20, "Number of submissions to show")
	submissionsListCmd.Flags().StringP("student", "s", "", "Filter by student id")

	submissionsCmd.AddCommand(submissionsListCmd)
	submissionsCmd.AddCommand(submissionsViewCmd)
}
