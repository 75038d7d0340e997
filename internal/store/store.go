// Package store persists the turn/event audit trail.
package store

import (
	"context"

	"github.com/tien2204/sotaysinhvienhust-rag/internal/domain"
)

// Store defines the audit-trail persistence interface.
type Store interface {
	// Turn operations
	CreateTurn(ctx context.Context, turn *domain.Turn) error
	GetTurn(ctx context.Context, turnID string) (*domain.Turn, error)
	UpdateTurnCompleted(ctx context.Context, turnID string, status domain.TurnStatus, errMsg string) error

	// Event operations
	CreateEvent(ctx context.Context, event *domain.Event) error
	GetEvents(ctx context.Context, turnID string, limit int) ([]domain.Event, error)

	// Lifecycle
	Close() error
}
