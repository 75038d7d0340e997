package domain

import "encoding/json"

// Event payloads. Each event type carries a small structured payload that is
// marshalled into Event.Payload.

type TurnStartedPayload struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

type ModerationDecisionPayload struct {
	Classification Classification `json:"classification"`
	RawVerdict     string         `json:"raw_verdict,omitempty"`
}

type OracleDecisionPayload struct {
	Step      int      `json:"step"`
	ToolCalls []string `json:"tool_calls,omitempty"`
	Final     bool     `json:"final"`
}

type ToolCallStartedPayload struct {
	ToolCallID string          `json:"tool_call_id"`
	ToolName   string          `json:"tool_name"`
	Args       json.RawMessage `json:"args,omitempty"`
}

type ToolCallDonePayload struct {
	ToolCallID string `json:"tool_call_id"`
	ToolName   string `json:"tool_name"`
	LatencyMs  int64  `json:"latency_ms"`
	Diagnostic bool   `json:"diagnostic,omitempty"`
}

type PolicyDecisionPayload struct {
	ToolCallID string `json:"tool_call_id"`
	ToolName   string `json:"tool_name"`
	Decision   string `json:"decision"`
	Reason     string `json:"reason,omitempty"`
}

type TurnDonePayload struct {
	Steps  int    `json:"steps"`
	Answer string `json:"answer"`
}

type TurnFailedPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
