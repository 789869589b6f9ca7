// Package pipeline walks an EPUB document paragraph by paragraph, translating
// each one through a backend and writing the results back in place.
//
// Execution is strictly serial: one paragraph, one chunk, one backend request
// at a time. A chunk whose retries are exhausted is dropped with a log line;
// only configuration, template, and document I/O errors abort a run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/glosa/glosa/internal/backend"
	"github.com/glosa/glosa/internal/chunk"
	"github.com/glosa/glosa/internal/config"
	"github.com/glosa/glosa/internal/epub"
	"github.com/glosa/glosa/internal/prompt"
	"github.com/glosa/glosa/internal/textnorm"
	"github.com/glosa/glosa/internal/tokens"
)

// Fallback metadata used when neither the config nor the document carries a value.
const (
	UnknownTitle  = "Unknown Title"
	UnknownAuthor = "Unknown Author"
)

// ProgressFunc receives paragraph-level progress: current counts every
// paragraph visited so far (empty ones included), total is the pre-pass count
// for the whole document.
type ProgressFunc func(current, total int)

// Options wires a Translator together.
type Options struct {
	Config   *config.Config
	Client   backend.Client
	Logger   *slog.Logger
	Progress ProgressFunc
}

// Translator runs one complete translation pass over a document.
type Translator struct {
	cfg      *config.Config
	doc      *epub.Document
	tmpl     *prompt.Template
	invoker  *backend.Invoker
	calls    *backend.CallLog
	est      tokens.Estimator
	logger   *slog.Logger
	progress ProgressFunc

	title  string
	author string

	current int
	total   int
}

// New loads the prompt template, opens the document, resolves metadata, and
// counts paragraphs. Any failure here is fatal: nothing has been sent to the
// backend yet, so the run aborts cleanly.
func New(opts Options) (*Translator, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Client == nil {
		return nil, fmt.Errorf("backend client is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	progress := opts.Progress
	if progress == nil {
		progress = func(int, int) {}
	}

	tmpl, err := prompt.Load(cfg.Template)
	if err != nil {
		return nil, err
	}

	doc, err := epub.Open(cfg.Input)
	if err != nil {
		return nil, err
	}

	calls := backend.NewCallLog()
	t := &Translator{
		cfg:      cfg,
		doc:      doc,
		tmpl:     tmpl,
		invoker:  backend.NewInvoker(opts.Client, cfg.Model, cfg.MaxRetries, cfg.RetryDelay, logger).WithCallLog(calls),
		calls:    calls,
		est:      selectEstimator(cfg.Encoding, logger),
		logger:   logger,
		progress: progress,
	}
	t.resolveMetadata()

	total, err := t.countParagraphs()
	if err != nil {
		return nil, err
	}
	t.total = total

	return t, nil
}

// selectEstimator prefers the exact tokenizer and falls back to the rune
// heuristic when the encoding data cannot be loaded (for example offline).
func selectEstimator(encoding string, logger *slog.Logger) tokens.Estimator {
	est, err := tokens.NewTiktoken(encoding)
	if err != nil {
		logger.Warn("tokenizer unavailable, falling back to heuristic estimate",
			"encoding", encoding,
			"error", err)
		return tokens.NewHeuristic()
	}
	return est
}

// resolveMetadata settles the title and author for prompt substitution:
// a non-empty config override wins, then the document metadata, then the
// unknown fallback. Overrides are also written into the output document.
func (t *Translator) resolveMetadata() {
	t.title = t.cfg.Title
	if t.title == "" {
		t.title = t.doc.Title()
	}
	if t.title == "" {
		t.title = UnknownTitle
	}
	if t.cfg.Title != "" {
		t.doc.SetTitle(t.cfg.Title)
	}

	t.author = t.cfg.Author
	if t.author == "" {
		t.author = t.doc.Creator()
	}
	if t.author == "" {
		t.author = UnknownAuthor
	}
	if t.cfg.Author != "" {
		t.doc.SetCreator(t.cfg.Author)
	}
}

func (t *Translator) countParagraphs() (int, error) {
	total := 0
	for _, part := range t.doc.Parts() {
		n, err := part.ParagraphCount()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// Title returns the resolved document title.
func (t *Translator) Title() string { return t.title }

// Author returns the resolved document author.
func (t *Translator) Author() string { return t.author }

// Total returns the pre-pass paragraph count.
func (t *Translator) Total() int { return t.total }

// Calls returns run totals for the backend requests made so far.
func (t *Translator) Calls() backend.CallSummary { return t.calls.Summary() }

// Run translates every paragraph in document order and writes the mutated
// archive to the configured output path. Exhausted chunks are skipped, never
// fatal; a canceled context or a document I/O failure aborts the run.
func (t *Translator) Run(ctx context.Context) error {
	budget := t.cfg.ChunkBudget()

	t.logger.Info("starting translation",
		"input", t.cfg.Input,
		"language", t.cfg.Language,
		"model", t.cfg.Model,
		"paragraphs", t.total,
		"chunk_budget", budget)

	for _, part := range t.doc.Parts() {
		var walkErr error
		err := part.TransformParagraphs(func(text string) (string, bool) {
			if walkErr != nil {
				return "", false
			}
			if ctx.Err() != nil {
				walkErr = ctx.Err()
				return "", false
			}

			markup, replace := t.translateParagraph(ctx, text)

			t.current++
			t.progress(t.current, t.total)
			return markup, replace
		})
		if err != nil {
			return err
		}
		if walkErr != nil {
			return walkErr
		}
	}

	if err := t.doc.Write(t.cfg.Output); err != nil {
		return err
	}

	summary := t.calls.Summary()
	t.logger.Info("translation complete",
		"output", t.cfg.Output,
		"paragraphs", t.current,
		"backend_calls", summary.Total,
		"failed_chunks", summary.Failed)
	return nil
}

// translateParagraph normalizes one paragraph, translates its chunks, and
// returns the replacement markup. Empty paragraphs are left untouched; a
// non-empty paragraph is always replaced with the join of its successful
// chunk translations, which is empty when every chunk failed.
func (t *Translator) translateParagraph(ctx context.Context, text string) (string, bool) {
	normalized := textnorm.Normalize(text)
	if normalized == "" {
		return "", false
	}

	chunks := chunk.Split(normalized, t.cfg.ChunkBudget(), t.est)

	var translated []string
	for _, c := range chunks {
		if ctx.Err() != nil {
			return "", false
		}

		rendered, err := t.tmpl.Render(prompt.Data{
			Language: t.cfg.Language,
			Text:     c.Text,
			Genre:    t.cfg.Genre,
			Title:    t.title,
			Author:   t.author,
		})
		if err != nil {
			// Load-time validation makes this unreachable in practice.
			t.logger.Error("prompt render failed, chunk will be skipped", "error", err)
			continue
		}

		out, err := t.invoker.Translate(ctx, rendered)
		if err != nil {
			continue
		}
		translated = append(translated, out)
	}

	// Exhausted chunks contribute nothing to the joined output.
	result := strings.Join(translated, " ")
	if t.cfg.Bilingual {
		return composeBilingual(normalized, result), true
	}
	return epub.EscapeText(result), true
}

// composeBilingual renders the side-by-side form: the normalized original,
// a blank line, then the italicized translation.
func composeBilingual(original, translation string) string {
	return fmt.Sprintf("ORIGINAL: %s<br/><br/><i>TRANSLATION: %s</i>",
		epub.EscapeText(original), epub.EscapeText(translation))
}
