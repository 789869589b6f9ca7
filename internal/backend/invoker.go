package backend

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
)

const (
	// DefaultMaxAttempts is the total number of tries per chunk, including
	// the first.
	DefaultMaxAttempts = 3

	// DefaultRetryDelay is the fixed wait between attempts.
	DefaultRetryDelay = 2 * time.Second
)

// Invoker submits one rendered prompt per call with bounded retry. Exhausting
// every attempt is reported as an error; the caller decides what dropping the
// chunk means (the pipeline drops it and keeps going).
type Invoker struct {
	client      Client
	model       string
	maxAttempts uint
	delay       time.Duration
	logger      *slog.Logger
	callLog     *CallLog
}

// NewInvoker builds an invoker around a backend client. Zero maxAttempts or
// delay fall back to the defaults.
func NewInvoker(client Client, model string, maxAttempts int, delay time.Duration, logger *slog.Logger) *Invoker {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{
		client:      client,
		model:       model,
		maxAttempts: uint(maxAttempts),
		delay:       delay,
		logger:      logger,
	}
}

// WithCallLog attaches a call log; every Translate is recorded into it.
func (inv *Invoker) WithCallLog(log *CallLog) *Invoker {
	inv.callLog = log
	return inv
}

func (inv *Invoker) record(id string, start time.Time, err error) {
	if inv.callLog == nil {
		return
	}
	c := Call{
		ID:        id,
		Timestamp: start,
		LatencyMs: time.Since(start).Milliseconds(),
		Backend:   inv.client.Name(),
		Model:     inv.model,
		Success:   err == nil,
	}
	if err != nil {
		c.Error = err.Error()
	}
	inv.callLog.Record(c)
}

// Translate sends the prompt and returns the trimmed response text. On any
// backend failure it waits the configured delay and retries, up to the
// attempt ceiling. All calls are blocking and strictly serial.
func (inv *Invoker) Translate(ctx context.Context, prompt string) (string, error) {
	requestID := uuid.New().String()
	start := time.Now()

	var text string
	err := retry.Do(
		func() error {
			var callErr error
			text, callErr = inv.client.Chat(ctx, inv.model, prompt)
			return callErr
		},
		retry.Context(ctx),
		retry.Attempts(inv.maxAttempts),
		retry.Delay(inv.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			inv.logger.Warn("translation attempt failed",
				"request_id", requestID,
				"backend", inv.client.Name(),
				"model", inv.model,
				"attempt", attempt+1,
				"max_attempts", inv.maxAttempts,
				"error", err,
			)
		}),
	)
	inv.record(requestID, start, err)
	if err != nil {
		inv.logger.Error("translation failed, chunk will be skipped",
			"request_id", requestID,
			"backend", inv.client.Name(),
			"model", inv.model,
			"attempts", inv.maxAttempts,
			"error", err,
		)
		return "", err
	}

	inv.logger.Debug("chunk translated",
		"request_id", requestID,
		"backend", inv.client.Name(),
		"model", inv.model,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return strings.TrimSpace(text), nil
}
