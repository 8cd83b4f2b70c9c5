package judge

import (
	"context"
	"strings"
	"sync"
)

// MockEngine answers every request with fixed outputs, for dry runs.
// Score fields get Score; every other field gets a canned sentence.
type MockEngine struct {
	Score string

	mu       sync.Mutex
	requests []string
}

// NewMockEngine creates a mock judge that scores every dimension with score.
func NewMockEngine(score string) *MockEngine {
	return &MockEngine{Score: score}
}

func (m *MockEngine) Evaluate(ctx context.Context, req *Request) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, invocationError(req, err)
	}

	m.mu.Lock()
	m.requests = append(m.requests, req.Name)
	m.mu.Unlock()

	out := make(map[string]string, len(req.Outputs)+1)
	for _, name := range req.OutputNames() {
		if strings.HasSuffix(name, "_score") {
			out[name] = m.Score
		} else {
			out[name] = "Mock assessment for " + name + "."
		}
	}
	out[ReasoningField] = "mock judge"
	return out, nil
}

// Requests returns the names of the requests received, in arrival order.
func (m *MockEngine) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}
