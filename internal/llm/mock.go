package llm

import (
	"context"
	"sync"
)

// MockResponse is a canned response for the MockClient.
type MockResponse struct {
	Text string
	Err  error
}

// MockClient is a deterministic LLMClient for tests and offline runs.
// Canned responses are consumed in FIFO order; once the queue is empty the
// Respond func is used, and without one the call fails as unavailable.
type MockClient struct {
	mu        sync.Mutex
	responses []MockResponse
	Respond   func(prompt string) (string, error)
	Calls     []string
}

func NewMockClient(responses ...MockResponse) *MockClient {
	return &MockClient{responses: responses}
}

// NewEchoMockClient answers every prompt with a fixed prefix plus the prompt.
func NewEchoMockClient(prefix string) *MockClient {
	return &MockClient{Respond: func(prompt string) (string, error) {
		return prefix + prompt, nil
	}}
}

func (m *MockClient) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, prompt)

	if len(m.responses) > 0 {
		resp := m.responses[0]
		m.responses = m.responses[1:]
		m.mu.Unlock()
		return resp.Text, resp.Err
	}
	respond := m.Respond
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if respond == nil {
		return "", &ErrProviderUnavailable{}
	}
	return respond(prompt)
}

func (m *MockClient) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockClient) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of GenerateResponse calls made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Prompts returns a copy of every prompt received so far.
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Calls...)
}
