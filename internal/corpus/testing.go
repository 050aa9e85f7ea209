package corpus

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// MockExecutor is a scripted git executor for tests in this and dependent
// packages. Responses are keyed by the git argument line and consumed once.
type MockExecutor struct {
	responses []gitResponse
	calls     []ExecutorCall
}

type gitResponse struct {
	prefix string
	output []byte
	err    error
}

// ExecutorCall records one git invocation.
type ExecutorCall struct {
	Dir  string
	Args []string
}

// NewMockExecutor creates an executor with no scripted responses.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{}
}

// On scripts the result of the next git command whose arguments start with
// argsPrefix, e.g. "rev-parse HEAD".
func (m *MockExecutor) On(argsPrefix string, output []byte, err error) {
	m.responses = append(m.responses, gitResponse{prefix: argsPrefix, output: output, err: err})
}

// Run records the call and returns the first matching scripted response.
func (m *MockExecutor) Run(_ context.Context, dir string, name string, args ...string) ([]byte, error) {
	if name != "git" {
		return nil, fmt.Errorf("unexpected command %q", name)
	}
	m.calls = append(m.calls, ExecutorCall{Dir: dir, Args: args})

	line := strings.Join(args, " ")
	for i, r := range m.responses {
		if strings.HasPrefix(line, r.prefix) {
			m.responses = append(m.responses[:i], m.responses[i+1:]...)
			return r.output, r.err
		}
	}
	return nil, fmt.Errorf("no scripted response for: git %s", line)
}

// Calls returns every recorded git invocation in order.
func (m *MockExecutor) Calls() []ExecutorCall {
	return m.calls
}

// LastCall returns the most recent invocation and fails the test if git was
// never run.
func (m *MockExecutor) LastCall(t *testing.T) ExecutorCall {
	t.Helper()
	if len(m.calls) == 0 {
		t.Fatal("Expected at least one git call")
	}
	return m.calls[len(m.calls)-1]
}
