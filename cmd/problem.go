package cmd

import (
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/parabola/internal/problemgen"
	"github.com/spf13/cobra"
)

var problemCmd = &cobra.Command{
	Use:   "problem",
	Short: "Print generated problems (no database)",
	Long: `Generate target problems the way a new exercise does.

A stateless developer tool: nothing is stored. Useful for checking the
problem distribution and the answer key of a given seed.`,
	RunE: runProblem,
}

func init() {
	problemCmd.Flags().Uint64("seed", 0, "Random seed (0 seeds from the clock)")
	problemCmd.Flags().IntP("count", "n", 1, "Number of problems to generate")
	problemCmd.Flags().Bool("answers", false, "Also print the answer key")
}

func runProblem(cmd *cobra.Command, args []string) error {
	seed, _ := cmd.Flags().GetUint64("seed")
	count, _ := cmd.Flags().GetInt("count")
	answers, _ := cmd.Flags().GetBool("answers")
	if count < 1 {
		return fmt.Errorf("count must be positive, got %d", count)
	}

	var src rand.Source
	if seed != 0 {
		src = rand.NewPCG(seed, seed)
	}
	gen := problemgen.NewGenerator(src)

	for i := range count {
		p := gen.Generate()
		fmt.Printf("%3d. %s\n", i+1, problemgen.PlainProblemText(p))
		if !answers {
			continue
		}
		fmt.Printf("     vertex form:  %s\n", problemgen.Label(p))
		fmt.Printf("     shape:        %s\n", p.Shape())
		fmt.Printf("     vertex:       %s\n", p.VertexString())
		fmt.Printf("     y-intercept:  %d\n", p.YIntercept)
	}
	return nil
}
