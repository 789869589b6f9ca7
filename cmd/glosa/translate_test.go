package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveTemplatePath(t *testing.T) {
	t.Run("existing path wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompt.tmpl")
		if err := os.WriteFile(path, []byte("{{.Text}}"), 0o644); err != nil {
			t.Fatal(err)
		}
		if got := resolveTemplatePath(path); got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
	})

	t.Run("bare name falls back to home templates", func(t *testing.T) {
		tmpHome := t.TempDir()
		prev := homeDir
		homeDir = tmpHome
		defer func() { homeDir = prev }()

		templatesDir := filepath.Join(tmpHome, "templates")
		if err := os.MkdirAll(templatesDir, 0o755); err != nil {
			t.Fatal(err)
		}
		stored := filepath.Join(templatesDir, "novel.tmpl")
		if err := os.WriteFile(stored, []byte("{{.Text}}"), 0o644); err != nil {
			t.Fatal(err)
		}

		if got := resolveTemplatePath("novel.tmpl"); got != stored {
			t.Errorf("expected %s, got %s", stored, got)
		}
	})

	t.Run("missing everywhere returns the input unchanged", func(t *testing.T) {
		prev := homeDir
		homeDir = t.TempDir()
		defer func() { homeDir = prev }()

		if got := resolveTemplatePath("nowhere.tmpl"); got != "nowhere.tmpl" {
			t.Errorf("expected input passthrough, got %s", got)
		}
	})
}
