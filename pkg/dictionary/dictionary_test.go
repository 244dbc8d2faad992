package dictionary

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoad_GroupsByLengthPreservingOrder(t *testing.T) {
	path := writeTemp(t, "words.txt", "cat\ndog\ncats\nbat\n")

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	three := d.OfLength(3)
	if len(three) != 3 {
		t.Fatalf("OfLength(3) = %d words, want 3", len(three))
	}
	want := []string{"cat", "dog", "bat"}
	for i, w := range three {
		if w.Text != want[i] {
			t.Errorf("OfLength(3)[%d] = %q, want %q (file order)", i, w.Text, want[i])
		}
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeTemp(t, "empty.txt", "")
	if _, err := Load(path); err == nil {
		t.Errorf("Load(empty) error = nil, want ErrMalformedDictionary")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Errorf("Load(missing) error = nil, want error")
	}
}

func TestLoadBroda_UppercasesAndKeepsFileOrder(t *testing.T) {
	path := writeTemp(t, "broda.txt", "cat;80\ndog;90\nbat;70\n")

	d, err := LoadBroda(path)
	if err != nil {
		t.Fatalf("LoadBroda() error = %v", err)
	}

	three := d.OfLength(3)
	if len(three) != 3 {
		t.Fatalf("OfLength(3) = %d, want 3", len(three))
	}
	if three[0].Text != "CAT" || three[0].Score != 80 {
		t.Errorf("OfLength(3)[0] = %+v, want {CAT 80} (file order preserved)", three[0])
	}
}

func TestLoadBroda_MalformedLine(t *testing.T) {
	path := writeTemp(t, "broda.txt", "cat\n")
	if _, err := LoadBroda(path); err == nil {
		t.Errorf("LoadBroda(malformed) error = nil, want error")
	}
}

func TestSize(t *testing.T) {
	path := writeTemp(t, "words.txt", "cat\ndog\nbats\n")
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if d.Size() != 3 {
		t.Errorf("Size() = %d, want 3", d.Size())
	}
}
