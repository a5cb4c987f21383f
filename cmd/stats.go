package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/parabola/internal/session"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-step mistake statistics over all submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
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
			fmt.Println("No submissions recorded yet.")
			return nil
		}

		s := summarize(subs)

		fmt.Printf("Submissions: %d    Students: %d    Average score: %.0f%%\n\n",
			s.count, s.students, s.scorePct())
		fmt.Println(strings.Repeat("─", 56))
		fmt.Printf("%-12s  %10s  %10s  %12s\n", "Step", "Attempts", "Wrong", "First try")
		fmt.Println(strings.Repeat("─", 56))
		for i := range 4 {
			fmt.Printf("%-12s  %10d  %10d  %11.0f%%\n",
				stepTitles[i], s.attempts[i], s.wrong[i], 100*float64(s.firstTry[i])/float64(s.count))
		}
		fmt.Println(strings.Repeat("─", 56))
		if s.fallbacks > 0 {
			fmt.Printf("\n%d submission(s) got a fallback grading result.\n", s.fallbacks)
		}
		return nil
	},
}

type stepStats struct {
	count     int
	students  int
	score     int
	maxScore  int
	fallbacks int
	attempts  [4]int
	wrong     [4]int
	firstTry  [4]int
}

func (s stepStats) scorePct() float64 {
	if s.maxScore == 0 {
		return 0
	}
	return 100 * float64(s.score) / float64(s.maxScore)
}

// summarize aggregates the locally checked steps 1–4 of subs.
func summarize(subs []session.Submission) stepStats {
	s := stepStats{count: len(subs)}
	seen := make(map[string]bool)
	for _, sub := range subs {
		if !seen[sub.StudentID] {
			seen[sub.StudentID] = true
			s.students++
		}
		if res := sub.GPTFeedback; res != nil {
			s.score += res.Score
			s.maxScore += res.MaxScore
			if res.Fallback {
				s.fallbacks++
			}
		}
		for i := range 4 {
			rec := sub.StepRecords[i+1]
			s.attempts[i] += rec.Attempts
			s.wrong[i] += rec.WrongCount
			if rec.FirstTry() {
				s.firstTry[i]++
			}
		}
	}
	return s
}
