package oracle

import (
	"context"
	"sync"

	"github.com/tien2204/sotaysinhvienhust-rag/internal/domain"
)

// Mock is a scripted oracle for tests and offline mode. Responses are
// consumed FIFO; when the script runs out, Decide returns a fixed final
// answer and Complete returns "safe".
type Mock struct {
	mu          sync.Mutex
	decisions   []domain.Message
	completions []string

	// Recorded invocations, for assertions.
	DecideInputs   [][]domain.Message
	CompleteInputs []string
}

// NewMock creates an empty scripted oracle.
func NewMock() *Mock {
	return &Mock{}
}

// EnqueueDecision appends a scripted Decide response.
func (m *Mock) EnqueueDecision(msg domain.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, msg)
}

// EnqueueCompletion appends a scripted Complete response.
func (m *Mock) EnqueueCompletion(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completions = append(m.completions, text)
}

// Decide implements Oracle.
func (m *Mock) Decide(ctx context.Context, msgs []domain.Message, capabilities []domain.CapabilityDescriptor) (domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	recorded := make([]domain.Message, len(msgs))
	copy(recorded, msgs)
	m.DecideInputs = append(m.DecideInputs, recorded)

	if len(m.decisions) == 0 {
		return domain.Message{Role: domain.RoleAssistant, Content: "Tôi không biết."}, nil
	}
	next := m.decisions[0]
	m.decisions = m.decisions[1:]
	next.Role = domain.RoleAssistant
	return next, nil
}

// Complete implements Oracle.
func (m *Mock) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CompleteInputs = append(m.CompleteInputs, prompt)

	if len(m.completions) == 0 {
		return "safe", nil
	}
	next := m.completions[0]
	m.completions = m.completions[1:]
	return next, nil
}
