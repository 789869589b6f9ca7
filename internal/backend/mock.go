package backend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

const MockClientName = "mock"

// MockClient is a Client for testing.
type MockClient struct {
	// Configurable behavior
	ResponseText string
	ShouldFail   bool
	FailFirst    int // Fail the first N requests, then succeed

	// State
	requestCount atomic.Int64

	mu      sync.Mutex
	prompts []string
}

// NewMockClient creates a mock client with a canned response.
func NewMockClient(response string) *MockClient {
	return &MockClient{ResponseText: response}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Chat records the prompt and returns the configured response or failure.
func (c *MockClient) Chat(_ context.Context, _, prompt string) (string, error) {
	count := c.requestCount.Add(1)

	c.mu.Lock()
	c.prompts = append(c.prompts, prompt)
	c.mu.Unlock()

	if c.ShouldFail {
		return "", fmt.Errorf("mock client configured to fail")
	}
	if int(count) <= c.FailFirst {
		return "", fmt.Errorf("mock client failing request %d of %d", count, c.FailFirst)
	}

	return c.ResponseText, nil
}

// RequestCount returns the number of Chat calls made.
func (c *MockClient) RequestCount() int {
	return int(c.requestCount.Load())
}

// Prompts returns a copy of every prompt received.
func (c *MockClient) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.prompts))
	copy(out, c.prompts)
	return out
}
