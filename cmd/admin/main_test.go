package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crossplay/crossgen/internal/models"
	"github.com/crossplay/crossgen/pkg/dictionary"
)

func TestHashText(t *testing.T) {
	a := hashText("CAT\nDOG")
	b := hashText("CAT\nDOG")
	c := hashText("CAT\nFOX")

	if a != b {
		t.Error("hashText should be deterministic for identical input")
	}
	if a == c {
		t.Error("hashText should differ for different input")
	}
	if len(a) != 64 {
		t.Errorf("expected a 64-character hex sha256 digest, got length %d", len(a))
	}
}

func TestEnvOr(t *testing.T) {
	const key = "CROSSGEN_ADMIN_TEST_ENV"
	os.Unsetenv(key)

	if got := envOr(key, "fallback"); got != "fallback" {
		t.Errorf("envOr with unset var = %q, want %q", got, "fallback")
	}

	os.Setenv(key, "set-value")
	defer os.Unsetenv(key)

	if got := envOr(key, "fallback"); got != "set-value" {
		t.Errorf("envOr with set var = %q, want %q", got, "set-value")
	}
}

func TestSolveOne_Solved(t *testing.T) {
	dict := &dictionary.Dictionary{ByLength: map[int][]dictionary.Word{
		3: {{Text: "CAT"}},
	}}

	outcome, board, stats, err := solveOne("...", dict)
	if err != nil {
		t.Fatalf("solveOne error: %v", err)
	}
	if outcome != models.OutcomeSolved {
		t.Errorf("outcome = %q, want %q", outcome, models.OutcomeSolved)
	}
	if board != "CAT" {
		t.Errorf("board = %q, want %q", board, "CAT")
	}
	if stats.Attempts == 0 {
		t.Error("expected at least one attempt to be recorded")
	}
}

func TestSolveOne_Malformed(t *testing.T) {
	dict := &dictionary.Dictionary{ByLength: map[int][]dictionary.Word{
		3: {{Text: "CAT"}},
	}}

	outcome, _, _, err := solveOne("AB\nABC", dict)
	if err == nil {
		t.Fatal("expected an error for a ragged grid")
	}
	if outcome != models.OutcomeMalformed {
		t.Errorf("outcome = %q, want %q", outcome, models.OutcomeMalformed)
	}
}

func TestSolveOne_NoCandidates(t *testing.T) {
	dict := &dictionary.Dictionary{ByLength: map[int][]dictionary.Word{
		4: {{Text: "WORD"}},
	}}

	outcome, _, _, err := solveOne("...", dict)
	if err == nil {
		t.Fatal("expected an error when no word of the required length exists")
	}
	if outcome != models.OutcomeUnsolvable {
		t.Errorf("outcome = %q, want %q", outcome, models.OutcomeUnsolvable)
	}
}

func TestGridExtensionFilter_FindsGridFiles(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "admin-batch-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := os.WriteFile(filepath.Join(tmpDir, "one.grid"), []byte("..."), 0644); err != nil {
		t.Fatalf("failed to write grid fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "ignore.txt"), []byte("not a grid"), 0644); err != nil {
		t.Fatalf("failed to write non-grid fixture: %v", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}

	var gridFiles int
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".grid" {
			gridFiles++
		}
	}
	if gridFiles != 1 {
		t.Errorf("expected to find 1 *.grid file, found %d", gridFiles)
	}
}
