package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/crossplay/crossgen/pkg/grid"
	"github.com/spf13/cobra"
)

var (
	validateInput string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate crossword grid templates",
	Long: `Validate one or more grid template files as quality lints, separate from
what the solver itself requires.

Checks include:
  - Grid connectivity (every open cell reachable from every other)
  - Minimum variable length (warns on variables shorter than 3)
  - Parseable, rectangular grid text

Examples:
  # Validate a single grid file
  crossgen validate --input puzzle.grid

  # Validate every *.grid file in a directory
  crossgen validate --input ./grids`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "input file or directory to validate (required)")
	validateCmd.MarkFlagRequired("input")
}

func runValidate(cmd *cobra.Command, args []string) error {
	if verbosity > 0 {
		fmt.Printf("Validating: %s\n", validateInput)
	}

	info, err := os.Stat(validateInput)
	if err != nil {
		return fmt.Errorf("failed to access input path: %w", err)
	}

	var filesToValidate []string
	if info.IsDir() {
		files, err := filepath.Glob(filepath.Join(validateInput, "*.grid"))
		if err != nil {
			return fmt.Errorf("failed to list directory: %w", err)
		}
		if len(files) == 0 {
			return fmt.Errorf("no *.grid files found in directory: %s", validateInput)
		}
		filesToValidate = files
	} else {
		filesToValidate = []string{validateInput}
	}

	totalFiles := len(filesToValidate)
	invalidFiles := 0
	validFiles := 0

	for _, filePath := range filesToValidate {
		if verbosity > 0 {
			fmt.Printf("\nValidating: %s\n", filePath)
		}

		valid, err := validateGridFile(filePath)
		if err != nil {
			fmt.Printf("FAIL %s: ERROR - %v\n", filepath.Base(filePath), err)
			invalidFiles++
		} else if !valid {
			invalidFiles++
		} else {
			if verbosity > 0 {
				fmt.Printf("OK %s: VALID\n", filepath.Base(filePath))
			}
			validFiles++
		}
	}

	fmt.Printf("\n")
	fmt.Printf("Validation Summary:\n")
	fmt.Printf("  Total files:   %d\n", totalFiles)
	fmt.Printf("  Valid:         %d\n", validFiles)
	fmt.Printf("  Invalid:       %d\n", invalidFiles)

	if invalidFiles > 0 {
		os.Exit(1)
	}

	return nil
}

// validateGridFile validates a single grid template file.
// Returns true if valid, false if invalid, and an error if the file can't be processed.
func validateGridFile(filePath string) (bool, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return false, fmt.Errorf("failed to read file: %w", err)
	}

	g, err := grid.Parse(string(data))
	if err != nil {
		return false, err
	}

	var warnings []string

	if !grid.IsConnected(g) {
		warnings = append(warnings, "grid has disconnected open regions")
	}
	if grid.HasShortVariables(g, grid.MinWordLength) {
		warnings = append(warnings, fmt.Sprintf("grid contains variables shorter than %d", grid.MinWordLength))
	}
	if len(g.Variables) == 0 {
		warnings = append(warnings, "grid has no variables to fill")
	}

	if len(warnings) > 0 {
		fmt.Printf("WARN %s: %d warning(s)\n", filepath.Base(filePath), len(warnings))
		for _, w := range warnings {
			fmt.Printf("   - %s\n", w)
		}
		return false, nil
	}

	return true, nil
}
