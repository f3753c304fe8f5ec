package llm

import (
	"context"
	"sync"
)

// MockCompletion is a canned completion for the MockClient.
type MockCompletion struct {
	Text  string
	Model string
	Err   error
}

// MockClient is a deterministic Client for testing.
// It returns canned completions in FIFO order and records all requests.
type MockClient struct {
	mu          sync.Mutex
	completions []MockCompletion
	Calls       []Request

	// ModelIDs and ListErr control ListModels.
	ModelIDs []string
	ListErr  error
}

// NewMockClient creates a MockClient with the given canned completions.
func NewMockClient(completions ...MockCompletion) *MockClient {
	return &MockClient{completions: completions}
}

// CreateCompletion returns the next canned completion or
// ErrProviderUnavailable if the queue is empty.
func (m *MockClient) CreateCompletion(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.completions) == 0 {
		return nil, &ErrProviderUnavailable{Err: nil}
	}

	next := m.completions[0]
	m.completions = m.completions[1:]

	if next.Err != nil {
		return nil, next.Err
	}

	model := next.Model
	if model == "" {
		model = req.Model
	}

	return &Response{Text: next.Text, Model: model}, nil
}

// ListModels returns the configured model IDs or ListErr.
func (m *MockClient) ListModels(context.Context) ([]string, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.ModelIDs, nil
}

// AddCompletion appends a canned completion to the queue.
func (m *MockClient) AddCompletion(c MockCompletion) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completions = append(m.completions, c)
}

// CallCount returns the number of CreateCompletion calls made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
