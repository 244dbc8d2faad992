// Package dictionary loads a word list and indexes it by length for the
// solver's per-variable domains.
package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Word is one dictionary entry. Score is only populated by LoadBroda; the
// solver never uses it to order a domain — domain order is always file
// order, per spec.
type Word struct {
	Text  string
	Score int
}

// Dictionary groups words by length. Within a length group, words keep the
// order they appeared in the source file — that order is the search order
// the backtracking solver uses at every recursion node.
type Dictionary struct {
	ByLength map[int][]Word
}

// Load reads a plain word list, one word per line, trailing newline
// stripped. Words are used verbatim: no case folding, no trimming beyond
// the line terminator. Blank lines are skipped. Returns ErrMalformedDictionary
// if the file is empty or unreadable.
func Load(path string) (*Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDictionary, err)
	}
	defer file.Close()
	return loadPlain(file)
}

// LoadFromText parses an in-memory word list in the same plain, one-word-
// per-line format Load reads from disk. It exists for callers that receive a
// dictionary inline over HTTP rather than as a file on the server's disk.
func LoadFromText(text string) (*Dictionary, error) {
	return loadPlain(strings.NewReader(text))
}

func loadPlain(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{ByLength: make(map[int][]Word)}
	scanner := bufio.NewScanner(r)
	count := 0
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		count++
		d.ByLength[len(line)] = append(d.ByLength[len(line)], Word{Text: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDictionary, err)
	}
	if count == 0 {
		return nil, ErrMalformedDictionary
	}
	return d, nil
}

// LoadBroda reads a word list in Peter Broda's WORD;SCORE format (the
// teacher's native wordlist format). Words are uppercased and grouped by
// length, preserving file order within each length group; the score is
// retained on each Word for diagnostics but, same as Load, never affects
// solve order.
func LoadBroda(path string) (*Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDictionary, err)
	}
	defer file.Close()

	d := &Dictionary{ByLength: make(map[int][]Word)}
	scanner := bufio.NewScanner(file)
	lineNum := 0
	count := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, ";")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: malformed line %d: expected WORD;SCORE", ErrMalformedDictionary, lineNum)
		}

		text := strings.ToUpper(strings.TrimSpace(parts[0]))
		if text == "" {
			return nil, fmt.Errorf("%w: malformed line %d: empty word", ErrMalformedDictionary, lineNum)
		}

		score, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: malformed line %d: invalid score: %v", ErrMalformedDictionary, lineNum, err)
		}

		count++
		d.ByLength[len(text)] = append(d.ByLength[len(text)], Word{Text: text, Score: score})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDictionary, err)
	}
	if count == 0 {
		return nil, ErrMalformedDictionary
	}
	return d, nil
}

// OfLength returns the words of the given length in file order. Returns nil
// if the dictionary has none.
func (d *Dictionary) OfLength(length int) []Word {
	return d.ByLength[length]
}

// Size returns the total number of words in the dictionary.
func (d *Dictionary) Size() int {
	count := 0
	for _, words := range d.ByLength {
		count += len(words)
	}
	return count
}
