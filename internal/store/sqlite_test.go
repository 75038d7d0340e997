package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/tien2204/sotaysinhvienhust-rag/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestTurnLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	turn := &domain.Turn{
		TurnID:    "turn_abc12345",
		SessionID: "sess_abc12345",
		Question:  "Học phí một tín chỉ là bao nhiêu?",
		Status:    domain.TurnStatusRunning,
		StartedAt: time.Now(),
	}
	if err := s.CreateTurn(ctx, turn); err != nil {
		t.Fatalf("CreateTurn failed: %v", err)
	}

	got, err := s.GetTurn(ctx, turn.TurnID)
	if err != nil {
		t.Fatalf("GetTurn failed: %v", err)
	}
	if got == nil || got.Question != turn.Question || got.Status != domain.TurnStatusRunning {
		t.Fatalf("unexpected turn: %+v", got)
	}
	if got.EndedAt != nil {
		t.Fatalf("expected nil EndedAt on a running turn, got %v", got.EndedAt)
	}

	if err := s.UpdateTurnCompleted(ctx, turn.TurnID, domain.TurnStatusDone, ""); err != nil {
		t.Fatalf("UpdateTurnCompleted failed: %v", err)
	}
	got, err = s.GetTurn(ctx, turn.TurnID)
	if err != nil {
		t.Fatalf("GetTurn failed: %v", err)
	}
	if got.Status != domain.TurnStatusDone || got.EndedAt == nil || got.Error != "" {
		t.Fatalf("unexpected completed turn: %+v", got)
	}
}

func TestUpdateTurnFailedRecordsError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	turn := &domain.Turn{TurnID: "turn_def", SessionID: "sess_def", Question: "q",
		Status: domain.TurnStatusRunning, StartedAt: time.Now()}
	if err := s.CreateTurn(ctx, turn); err != nil {
		t.Fatalf("CreateTurn failed: %v", err)
	}
	if err := s.UpdateTurnCompleted(ctx, turn.TurnID, domain.TurnStatusFailed, "oracle unreachable"); err != nil {
		t.Fatalf("UpdateTurnCompleted failed: %v", err)
	}

	got, _ := s.GetTurn(ctx, turn.TurnID)
	if got.Status != domain.TurnStatusFailed || got.Error != "oracle unreachable" {
		t.Fatalf("unexpected failed turn: %+v", got)
	}
}

func TestGetTurnNotFound(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetTurn(context.Background(), "turn_missing")
	if err != nil {
		t.Fatalf("GetTurn failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing turn, got %+v", got)
	}
}

func TestEventsOrderedByTimestamp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	turn := &domain.Turn{TurnID: "turn_evt", SessionID: "sess_evt", Question: "q",
		Status: domain.TurnStatusRunning, StartedAt: time.Now()}
	if err := s.CreateTurn(ctx, turn); err != nil {
		t.Fatalf("CreateTurn failed: %v", err)
	}

	base := time.Now().UnixMilli()
	events := []domain.Event{
		{EventID: "evt_3", TurnID: turn.TurnID, Ts: base + 2, Type: domain.EventTypeTurnDone,
			Payload: json.RawMessage(`{"steps":1,"answer":"ok"}`)},
		{EventID: "evt_1", TurnID: turn.TurnID, Ts: base, Type: domain.EventTypeTurnStarted},
		{EventID: "evt_2", TurnID: turn.TurnID, Ts: base + 1, Type: domain.EventTypeOracleDecision},
	}
	for i := range events {
		if err := s.CreateEvent(ctx, &events[i]); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}

	got, err := s.GetEvents(ctx, turn.TurnID, 0)
	if err != nil {
		t.Fatalf("GetEvents failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	for i, want := range []string{"evt_1", "evt_2", "evt_3"} {
		if got[i].EventID != want {
			t.Errorf("event %d: got %s, want %s", i, got[i].EventID, want)
		}
	}
	if got[0].Payload != nil {
		t.Errorf("expected nil payload for turn_started, got %s", got[0].Payload)
	}
	if string(got[2].Payload) != `{"steps":1,"answer":"ok"}` {
		t.Errorf("unexpected payload: %s", got[2].Payload)
	}
}

func TestGetEventsLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	turn := &domain.Turn{TurnID: "turn_lim", SessionID: "sess_lim", Question: "q",
		Status: domain.TurnStatusRunning, StartedAt: time.Now()}
	if err := s.CreateTurn(ctx, turn); err != nil {
		t.Fatalf("CreateTurn failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		evt := &domain.Event{EventID: "evt_" + string(rune('a'+i)), TurnID: turn.TurnID,
			Ts: int64(i), Type: domain.EventTypeOracleDecision}
		if err := s.CreateEvent(ctx, evt); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}

	got, err := s.GetEvents(ctx, turn.TurnID, 2)
	if err != nil {
		t.Fatalf("GetEvents failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
}
