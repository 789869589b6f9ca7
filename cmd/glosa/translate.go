package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/glosa/glosa/internal/backend"
	"github.com/glosa/glosa/internal/config"
	"github.com/glosa/glosa/internal/home"
	"github.com/glosa/glosa/internal/pipeline"
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate an EPUB into the target language",
	Long: `Translate an EPUB paragraph by paragraph and write the result to a new file.

The backend is any OpenAI-compatible chat endpoint; the default base URL
points at a local Ollama server. Progress is printed per paragraph.

Examples:
  glosa translate -i book.epub -o book.id.epub -l Indonesian -t prompt.tmpl
  glosa translate -i book.epub -o book.id.epub -l Indonesian -t prompt.tmpl --bilingual
  glosa translate --config run.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
		cfg.Template = resolveTemplatePath(cfg.Template)

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		client := backend.NewOpenAIClient(backend.OpenAIConfig{
			APIKey:  cfg.ResolveAPIKey(),
			BaseURL: cfg.Backend.BaseURL,
			Timeout: cfg.Backend.Timeout,
		})

		started := time.Now()
		tr, err := pipeline.New(pipeline.Options{
			Config: cfg,
			Client: client,
			Logger: logger,
			Progress: func(current, total int) {
				fmt.Fprintf(os.Stderr, "\rTranslating paragraph %d/%d", current, total)
				if current == total {
					fmt.Fprintln(os.Stderr)
				}
			},
		})
		if err != nil {
			return err
		}

		if err := tr.Run(cmd.Context()); err != nil {
			return err
		}

		summary := tr.Calls()
		fmt.Printf("Translated %q (%d paragraphs, %d backend calls) to %s in %s\n",
			tr.Title(), tr.Total(), summary.Total, cfg.Output, time.Since(started).Round(time.Second))
		if summary.Failed > 0 {
			fmt.Printf("Warning: %d chunk(s) dropped from the translation after retries ran out\n", summary.Failed)
		}
		return nil
	},
}

func init() {
	f := translateCmd.Flags()
	f.StringP("input", "i", "", "source EPUB path")
	f.StringP("output", "o", "", "destination EPUB path")
	f.StringP("language", "l", "", "target language, e.g. Indonesian")
	f.StringP("template", "t", "", "prompt template path")
	f.StringP("model", "m", "", "backend model name")
	f.Int("token-limit", 0, "model context budget in tokens")
	f.String("genre", "", "genre hint passed to the prompt")
	f.Bool("bilingual", false, "keep the original text alongside the translation")
	f.String("title", "", "override the document title")
	f.String("author", "", "override the document author")
}

// resolveTemplatePath falls back to the home templates directory when the
// configured path does not exist on its own. Bare names like "novel.tmpl" can
// then refer to templates kept under ~/.glosa/templates.
func resolveTemplatePath(path string) string {
	if _, err := os.Stat(path); err == nil {
		return path
	}
	h, err := home.New(homeDir)
	if err != nil {
		return path
	}
	candidate := h.TemplatePath(path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return path
}

// applyFlagOverrides layers explicitly-set flags over the loaded config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("input") {
		cfg.Input, _ = f.GetString("input")
	}
	if f.Changed("output") {
		cfg.Output, _ = f.GetString("output")
	}
	if f.Changed("language") {
		cfg.Language, _ = f.GetString("language")
	}
	if f.Changed("template") {
		cfg.Template, _ = f.GetString("template")
	}
	if f.Changed("model") {
		cfg.Model, _ = f.GetString("model")
	}
	if f.Changed("token-limit") {
		cfg.TokenLimit, _ = f.GetInt("token-limit")
	}
	if f.Changed("genre") {
		cfg.Genre, _ = f.GetString("genre")
	}
	if f.Changed("bilingual") {
		cfg.Bilingual, _ = f.GetBool("bilingual")
	}
	if f.Changed("title") {
		cfg.Title, _ = f.GetString("title")
	}
	if f.Changed("author") {
		cfg.Author, _ = f.GetString("author")
	}
}
