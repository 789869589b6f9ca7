package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	t.Run("renders all five fields", func(t *testing.T) {
		tmpl, err := Parse("Translate into {{.Language}} ({{.Genre}}, {{.Title}} by {{.Author}}): {{.Text}}")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := tmpl.Render(Data{
			Language: "French",
			Text:     "Hello.",
			Genre:    "Mystery",
			Title:    "The Case",
			Author:   "A. Writer",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "Translate into French (Mystery, The Case by A. Writer): Hello."
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("rejects undefined fields", func(t *testing.T) {
		_, err := Parse("Translate {{.Text}} for {{.Publisher}}")
		if err == nil {
			t.Fatal("expected error for undefined field")
		}
		if !strings.Contains(err.Error(), "Publisher") {
			t.Errorf("error should name the bad field, got: %v", err)
		}
	})

	t.Run("rejects malformed template syntax", func(t *testing.T) {
		if _, err := Parse("Translate {{.Text"); err == nil {
			t.Fatal("expected error for malformed template")
		}
	})

	t.Run("template without substitutions is valid", func(t *testing.T) {
		tmpl, err := Parse("just literal text")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := tmpl.Render(Data{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "just literal text" {
			t.Errorf("got %q", got)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("loads template from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompt.tmpl")
		if err := os.WriteFile(path, []byte("To {{.Language}}: {{.Text}}"), 0o644); err != nil {
			t.Fatal(err)
		}
		tmpl, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := tmpl.Render(Data{Language: "German", Text: "Hi."})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "To German: Hi." {
			t.Errorf("got %q", got)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.tmpl")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}
