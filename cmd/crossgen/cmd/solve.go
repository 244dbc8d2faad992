package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/crossplay/crossgen/pkg/collision"
	"github.com/crossplay/crossgen/pkg/dictionary"
	"github.com/crossplay/crossgen/pkg/grid"
	"github.com/crossplay/crossgen/pkg/output"
	"github.com/crossplay/crossgen/pkg/solve"
	"github.com/spf13/cobra"
)

const (
	exitSolved     = 0
	exitUnsolvable = 1
	exitMalformed  = 2
)

var (
	solveGrid       string
	solveDictionary string
	solveBroda      bool
	solveFormat     string
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a crossword grid against a dictionary",
	Long: `Solve reads a grid template and a dictionary, fills every variable with a
collision-consistent word, and writes the solved board to stdout.

Exit codes:
  0  solved
  1  unsolvable (no assignment satisfies the collision constraints)
  2  malformed input (grid or dictionary)

Examples:
  crossgen solve --grid puzzle.grid --dictionary words.txt
  crossgen solve --grid puzzle.grid --dictionary broda.txt --broda -v 2
  crossgen solve --grid puzzle.grid --dictionary words.txt --format json`,
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)

	solveCmd.Flags().StringVarP(&solveGrid, "grid", "g", "", "grid template file (required)")
	solveCmd.Flags().StringVarP(&solveDictionary, "dictionary", "w", "", "dictionary file (required)")
	solveCmd.Flags().BoolVar(&solveBroda, "broda", false, "read the dictionary in Peter Broda's WORD;SCORE format")
	solveCmd.Flags().StringVarP(&solveFormat, "format", "f", "text", "output format: text or json")

	solveCmd.MarkFlagRequired("grid")
	solveCmd.MarkFlagRequired("dictionary")
}

func runSolve(cmd *cobra.Command, args []string) error {
	if solveFormat != "text" && solveFormat != "json" {
		fmt.Fprintf(os.Stderr, "unsupported format '%s': must be text or json\n", solveFormat)
		os.Exit(exitMalformed)
	}

	setupStart := time.Now()

	gridText, err := os.ReadFile(solveGrid)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read grid file: %v\n", err)
		os.Exit(exitMalformed)
	}

	g, err := grid.Parse(string(gridText))
	if err != nil {
		fmt.Fprintf(os.Stderr, "malformed grid: %v\n", err)
		os.Exit(exitMalformed)
	}

	var dict *dictionary.Dictionary
	if solveBroda {
		dict, err = dictionary.LoadBroda(solveDictionary)
	} else {
		dict, err = dictionary.Load(solveDictionary)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "malformed dictionary: %v\n", err)
		os.Exit(exitMalformed)
	}

	if verbosity > 0 {
		fmt.Fprintf(os.Stderr, "grid: %dx%d, %d variables\n", g.Rows, g.Cols, len(g.Variables))
		fmt.Fprintf(os.Stderr, "dictionary: %d words\n", dict.Size())
	}

	domains, err := dictionary.Domains(dict, g.Variables)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unsolvable: %v\n", err)
		os.Exit(exitUnsolvable)
	}

	m := collision.Build(g.Variables)
	setupElapsed := time.Since(setupStart)

	assignment, stats, err := solve.Solve(g.Variables, m, domains)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unsolvable: %v\n", err)
		if verbosity >= 2 {
			fmt.Fprintf(os.Stderr, "setup: %s, search: %s, attempts: %d, backtracks: %d\n",
				setupElapsed, stats.Elapsed, stats.Attempts, stats.Backtracks)
		}
		os.Exit(exitUnsolvable)
	}

	if solveFormat == "json" {
		encoded, err := output.ToJSON(g, assignment, stats)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode result: %v\n", err)
			os.Exit(exitMalformed)
		}
		fmt.Println(string(encoded))
	} else {
		board := solve.Format(g.Rows, g.Cols, g.Variables, assignment)
		fmt.Println(board)
	}

	if verbosity >= 2 {
		fmt.Fprintf(os.Stderr, "setup: %s, search: %s, attempts: %d, backtracks: %d\n",
			setupElapsed, stats.Elapsed, stats.Attempts, stats.Backtracks)
	}

	return nil
}
