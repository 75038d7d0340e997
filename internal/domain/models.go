// Package domain defines the core domain models for the assistant.
package domain

import (
	"encoding/json"
	"time"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a single capability invocation requested by the decision oracle.
type ToolCall struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

// Message is a single turn-scoped utterance. Messages are immutable once
// appended to a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// ToolCalls is set on assistant messages that request capability
	// invocations instead of (or alongside) final content.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID links a tool message back to the assistant call it answers.
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// Session represents a conversation session.
type Session struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	History   []Message `json:"history"`
}

// CapabilityDescriptor describes one callable capability exposed to the
// decision oracle. The Description is the sole routing signal the oracle
// receives; there is no keyword dispatcher.
type CapabilityDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Schema      json.RawMessage `json:"schema"`
}

// Classification is the moderation verdict for a user question.
type Classification string

const (
	ClassificationSafe      Classification = "safe"
	ClassificationSensitive Classification = "sensitive"
)

// TurnStatus represents the status of one question/answer turn.
type TurnStatus string

const (
	TurnStatusRunning  TurnStatus = "RUNNING"
	TurnStatusDone     TurnStatus = "DONE"
	TurnStatusRejected TurnStatus = "REJECTED"
	TurnStatusFailed   TurnStatus = "FAILED"
)

// Turn records one pass through the orchestration state machine.
type Turn struct {
	TurnID    string     `json:"turn_id"`
	SessionID string     `json:"session_id"`
	Question  string     `json:"question"`
	Status    TurnStatus `json:"status"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// EventType represents the type of an audit event.
type EventType string

const (
	EventTypeTurnStarted        EventType = "turn_started"
	EventTypeModerationDecision EventType = "moderation_decision"
	EventTypeOracleDecision     EventType = "oracle_decision"
	EventTypeToolCallStarted    EventType = "tool_call_started"
	EventTypeToolCallDone       EventType = "tool_call_done"
	EventTypePolicyDecision     EventType = "policy_decision"
	EventTypeLoopExhausted      EventType = "loop_exhausted"
	EventTypeTurnRejected       EventType = "turn_rejected"
	EventTypeTurnDone           EventType = "turn_done"
	EventTypeTurnFailed         EventType = "turn_failed"
)

// Event is a trace event recorded against a turn for audit and replay.
type Event struct {
	EventID string          `json:"event_id"`
	TurnID  string          `json:"turn_id"`
	Ts      int64           `json:"ts"` // Unix milliseconds
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
