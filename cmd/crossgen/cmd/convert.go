package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/crossplay/crossgen/pkg/dictionary"
	"github.com/spf13/cobra"
)

var (
	convertInput  string
	convertOutput string
	convertFormat string
	convertScore  int
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert dictionaries between plain and Broda formats",
	Long: `Convert a word list between the solver's plain one-word-per-line format
and Peter Broda's WORD;SCORE format.

Supported formats:
  - plain: one word per line
  - broda: WORD;SCORE, uppercased

Examples:
  # Convert a Broda wordlist down to the plain format
  crossgen convert --input broda.txt --output words.txt --format plain

  # Convert a plain wordlist up to Broda format, scoring every word 50
  crossgen convert --input words.txt --output broda.txt --format broda --score 50`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertInput, "input", "i", "", "input dictionary file (required)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file path (required)")
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "", "target format: plain or broda (required)")
	convertCmd.Flags().IntVar(&convertScore, "score", 50, "score assigned to every word when converting plain to broda")

	convertCmd.MarkFlagRequired("input")
	convertCmd.MarkFlagRequired("output")
	convertCmd.MarkFlagRequired("format")
}

func runConvert(cmd *cobra.Command, args []string) error {
	targetFormat := strings.ToLower(convertFormat)
	if targetFormat != "plain" && targetFormat != "broda" {
		return fmt.Errorf("unsupported format '%s': must be plain or broda", convertFormat)
	}

	if verbosity > 0 {
		fmt.Printf("Converting: %s -> %s (%s)\n", convertInput, convertOutput, targetFormat)
	}

	// Try broda first since it has a stricter, distinguishable line shape
	// (WORD;SCORE); fall back to plain on any parse failure.
	var words []dictionary.Word
	if dict, err := dictionary.LoadBroda(convertInput); err == nil {
		words = flattenDictionary(dict)
		if verbosity > 0 {
			fmt.Println("Detected Broda input format")
		}
	} else {
		dict, err := dictionary.Load(convertInput)
		if err != nil {
			return fmt.Errorf("failed to parse input dictionary: %w", err)
		}
		words = flattenDictionary(dict)
		if verbosity > 0 {
			fmt.Println("Detected plain input format")
		}
	}

	var sb strings.Builder
	for _, w := range words {
		switch targetFormat {
		case "plain":
			sb.WriteString(w.Text)
			sb.WriteByte('\n')
		case "broda":
			score := w.Score
			if score == 0 {
				score = convertScore
			}
			sb.WriteString(strings.ToUpper(w.Text))
			sb.WriteByte(';')
			sb.WriteString(strconv.Itoa(score))
			sb.WriteByte('\n')
		}
	}

	if err := os.WriteFile(convertOutput, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Printf("Converted %d words to %s format\n", len(words), targetFormat)
	if verbosity > 0 {
		fmt.Printf("Output written to: %s\n", convertOutput)
	}

	return nil
}

func flattenDictionary(d *dictionary.Dictionary) []dictionary.Word {
	var words []dictionary.Word
	for _, group := range d.ByLength {
		words = append(words, group...)
	}
	return words
}
