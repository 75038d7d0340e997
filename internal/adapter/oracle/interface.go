// Package oracle binds the decision oracle (an OpenAI-compatible chat model)
// to the orchestration engine.
package oracle

import (
	"context"

	"github.com/tien2204/sotaysinhvienhust-rag/internal/domain"
)

// Oracle defines the decision-oracle operations the engine depends on.
type Oracle interface {
	// Decide sends the full message sequence plus the capability registry
	// and returns the assistant's next message: final content, one or more
	// capability calls, or both.
	Decide(ctx context.Context, msgs []domain.Message, capabilities []domain.CapabilityDescriptor) (domain.Message, error)

	// Complete runs a single prompt with no capability binding (used by the
	// moderation classifier).
	Complete(ctx context.Context, prompt string) (string, error)
}

// Ensure Client implements Oracle.
var _ Oracle = (*Client)(nil)
var _ Oracle = (*Mock)(nil)
