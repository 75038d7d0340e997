// Package agent implements the orchestration state machine: per turn it
// sequences moderation, decision-oracle invocations and capability execution
// until a final answer is produced, then extends the session history.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tien2204/sotaysinhvienhust-rag/internal/adapter/oracle"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/domain"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/metrics"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/moderation"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/session"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/store"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/tools"
)

// ErrEmptyQuestion is returned for blank questions, before any state-machine
// work happens.
var ErrEmptyQuestion = errors.New("question is required")

// Result is the outcome of one completed turn.
type Result struct {
	SessionID string `json:"session_id"`
	TurnID    string `json:"turn_id"`
	Answer    string `json:"answer"`
}

// Options tune the engine.
type Options struct {
	// MaxTurnSteps bounds DECIDE invocations per turn; exceeding it forces a
	// deterministic apology answer instead of looping forever.
	MaxTurnSteps int
	// ToolTimeout bounds each capability execution.
	ToolTimeout time.Duration
	// WebEnabled is handed to the policy engine; without a configured web
	// search provider the policy blocks search_web.
	WebEnabled bool
}

// PolicyGate authorizes capability calls before execution.
type PolicyGate interface {
	Evaluate(ctx context.Context, input interface{}) (decision, reason string, err error)
}

// Engine is the orchestration state machine.
type Engine struct {
	sessions   *session.Store
	audit      store.Store
	oracle     oracle.Oracle
	classifier *moderation.Classifier
	registry   *tools.Registry
	policy     PolicyGate
	opts       Options
	logger     *zap.Logger
	now        func() time.Time
}

// New creates the engine. All collaborators are injected; the engine owns no
// ambient state.
func New(
	sessions *session.Store,
	audit store.Store,
	o oracle.Oracle,
	classifier *moderation.Classifier,
	registry *tools.Registry,
	policyEngine PolicyGate,
	opts Options,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxTurnSteps <= 0 {
		opts.MaxTurnSteps = 8
	}
	if opts.ToolTimeout == 0 {
		opts.ToolTimeout = 15 * time.Second
	}
	return &Engine{
		sessions:   sessions,
		audit:      audit,
		oracle:     o,
		classifier: classifier,
		registry:   registry,
		policy:     policyEngine,
		opts:       opts,
		logger:     logger.With(zap.String("component", "agent")),
		now:        time.Now,
	}
}

// Turn runs one question through CLASSIFY → {REJECT | DECIDE ⇄ ACT} → DONE.
//
// Capability failures are folded into tool results and never abort the turn;
// an oracle transport failure does abort it (no answer is fabricated). On
// success the stored history grows by exactly the user and final assistant
// messages.
func (e *Engine) Turn(ctx context.Context, sessionID, question string) (*Result, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	started := e.now()
	sid, history := e.sessions.Checkout(sessionID)
	committed := false
	defer func() {
		if !committed {
			e.sessions.Release(sid)
		}
	}()

	turnID := "turn_" + uuid.New().String()[:8]
	if err := e.audit.CreateTurn(ctx, &domain.Turn{
		TurnID:    turnID,
		SessionID: sid,
		Question:  question,
		Status:    domain.TurnStatusRunning,
		StartedAt: started,
	}); err != nil {
		e.logger.Error("failed to record turn", zap.Error(err))
	}
	e.recordEvent(ctx, turnID, domain.EventTypeTurnStarted, domain.TurnStartedPayload{
		SessionID: sid,
		Question:  question,
	})

	// CLASSIFY: latest user message only, never the history.
	verdict, raw := e.classifier.Classify(ctx, question)
	e.recordEvent(ctx, turnID, domain.EventTypeModerationDecision, domain.ModerationDecisionPayload{
		Classification: verdict,
		RawVerdict:     raw,
	})

	if verdict == domain.ClassificationSensitive {
		// REJECT: terminal, zero capability calls.
		history = append(history,
			domain.Message{Role: domain.RoleUser, Content: question},
			domain.Message{Role: domain.RoleAssistant, Content: refusalAnswer})
		e.sessions.Commit(sid, history)
		committed = true

		e.recordEvent(ctx, turnID, domain.EventTypeTurnRejected, nil)
		e.completeTurn(ctx, turnID, domain.TurnStatusRejected, "")
		metrics.TurnDuration.Observe(e.now().Sub(started).Seconds())

		e.logger.Info("turn rejected by moderation", zap.String("turn_id", turnID))
		return &Result{SessionID: sid, TurnID: turnID, Answer: refusalAnswer}, nil
	}

	userMsg := domain.Message{Role: domain.RoleUser, Content: question}
	conv := make([]domain.Message, 0, len(history)+2)
	conv = append(conv, domain.Message{Role: domain.RoleSystem, Content: systemPrompt})
	conv = append(conv, history...)
	conv = append(conv, userMsg)

	descriptors := e.registry.Descriptors()

	var answer string
	steps := 0
	exhausted := true
	for step := 1; step <= e.opts.MaxTurnSteps; step++ {
		steps = step
		decision, err := e.oracle.Decide(ctx, conv, descriptors)
		if err != nil {
			e.completeTurn(ctx, turnID, domain.TurnStatusFailed, err.Error())
			e.recordEvent(ctx, turnID, domain.EventTypeTurnFailed, domain.TurnFailedPayload{
				Code:    "oracle_error",
				Message: err.Error(),
			})
			return nil, fmt.Errorf("decision oracle failed: %w", err)
		}
		conv = append(conv, decision)

		names := make([]string, 0, len(decision.ToolCalls))
		for _, call := range decision.ToolCalls {
			names = append(names, call.Name)
		}
		e.recordEvent(ctx, turnID, domain.EventTypeOracleDecision, domain.OracleDecisionPayload{
			Step:      step,
			ToolCalls: names,
			Final:     len(decision.ToolCalls) == 0,
		})

		if len(decision.ToolCalls) == 0 {
			metrics.OracleDecisions.WithLabelValues("final").Inc()
			answer = decision.Content
			exhausted = false
			break
		}
		metrics.OracleDecisions.WithLabelValues("tool_calls").Inc()

		// No DECIDE step remains to consume the results, so skip ACT.
		if step == e.opts.MaxTurnSteps {
			break
		}

		// ACT: every requested call runs, results re-enter DECIDE.
		conv = append(conv, e.executeCalls(ctx, turnID, sid, decision.ToolCalls)...)
	}

	if exhausted {
		metrics.LoopExhaustions.Inc()
		e.recordEvent(ctx, turnID, domain.EventTypeLoopExhausted, nil)
		e.logger.Warn("decision loop exhausted", zap.String("turn_id", turnID),
			zap.Int("max_steps", e.opts.MaxTurnSteps))
		answer = exhaustedAnswer
	}

	history = append(history, userMsg, domain.Message{Role: domain.RoleAssistant, Content: answer})
	e.sessions.Commit(sid, history)
	committed = true

	e.completeTurn(ctx, turnID, domain.TurnStatusDone, "")
	e.recordEvent(ctx, turnID, domain.EventTypeTurnDone, domain.TurnDonePayload{Steps: steps, Answer: answer})
	metrics.TurnDuration.Observe(e.now().Sub(started).Seconds())

	return &Result{SessionID: sid, TurnID: turnID, Answer: answer}, nil
}

// executeCalls runs every sibling call of one decision step. Siblings are
// independent, so they run concurrently; the returned slice preserves request
// order and call-id association, and the function only returns once all
// siblings finished (the join barrier back into DECIDE).
func (e *Engine) executeCalls(ctx context.Context, turnID, sessionID string, calls []domain.ToolCall) []domain.Message {
	results := make([]domain.Message, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		g.Go(func() error {
			results[i] = e.executeCall(gctx, turnID, sessionID, call)
			return nil
		})
	}
	// Diagnostics stay in-band, so the group never carries an error; Wait is
	// purely the join barrier.
	_ = g.Wait()

	return results
}

func (e *Engine) executeCall(ctx context.Context, turnID, sessionID string, call domain.ToolCall) domain.Message {
	started := e.now()
	e.recordEvent(ctx, turnID, domain.EventTypeToolCallStarted, domain.ToolCallStartedPayload{
		ToolCallID: call.ID,
		ToolName:   call.Name,
		Args:       call.Args,
	})

	content, outcome := e.runGated(ctx, turnID, sessionID, call)

	metrics.CapabilityCalls.WithLabelValues(call.Name, outcome).Inc()
	e.recordEvent(ctx, turnID, domain.EventTypeToolCallDone, domain.ToolCallDonePayload{
		ToolCallID: call.ID,
		ToolName:   call.Name,
		LatencyMs:  e.now().Sub(started).Milliseconds(),
		Diagnostic: outcome != "ok",
	})

	return domain.Message{Role: domain.RoleTool, Content: content, ToolCallID: call.ID}
}

// runGated applies the policy gate and executes the capability. Every
// failure mode maps to an in-band diagnostic string; the turn never fails
// here.
func (e *Engine) runGated(ctx context.Context, turnID, sessionID string, call domain.ToolCall) (string, string) {
	policyInput := map[string]interface{}{
		"tool_name":   call.Name,
		"session_id":  sessionID,
		"web_enabled": e.opts.WebEnabled,
		"args":        map[string]interface{}{},
	}
	if len(call.Args) > 0 {
		var argsMap map[string]interface{}
		if err := json.Unmarshal(call.Args, &argsMap); err == nil {
			policyInput["args"] = argsMap
		}
	}

	decision, reason, err := e.policy.Evaluate(ctx, policyInput)
	if err != nil {
		// Fail closed: an unevaluable policy cannot authorize the call.
		e.logger.Error("policy evaluation failed", zap.Error(err))
		return fmt.Sprintf("Công cụ %s hiện không khả dụng.", call.Name), "blocked"
	}
	if decision == "block" {
		e.recordEvent(ctx, turnID, domain.EventTypePolicyDecision, domain.PolicyDecisionPayload{
			ToolCallID: call.ID,
			ToolName:   call.Name,
			Decision:   decision,
			Reason:     reason,
		})
		return fmt.Sprintf("Công cụ %s hiện không khả dụng.", call.Name), "blocked"
	}

	cctx, cancel := context.WithTimeout(ctx, e.opts.ToolTimeout)
	defer cancel()

	content, err := e.registry.Execute(cctx, call.Name, call.Args)
	if err != nil {
		e.logger.Warn("capability execution failed",
			zap.String("tool", call.Name), zap.Error(err))
		return fmt.Sprintf("Lỗi khi thực thi công cụ %s: %v", call.Name, err), "diagnostic"
	}
	return content, "ok"
}

func (e *Engine) completeTurn(ctx context.Context, turnID string, status domain.TurnStatus, errMsg string) {
	if err := e.audit.UpdateTurnCompleted(ctx, turnID, status, errMsg); err != nil {
		e.logger.Error("failed to update turn status", zap.Error(err))
	}
}

// recordEvent appends an audit event; failures are logged, never fatal.
func (e *Engine) recordEvent(ctx context.Context, turnID string, eventType domain.EventType, payload interface{}) {
	var payloadBytes json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			e.logger.Error("failed to marshal event payload", zap.Error(err))
			return
		}
		payloadBytes = b
	}

	event := &domain.Event{
		EventID: "evt_" + uuid.New().String()[:8],
		TurnID:  turnID,
		Ts:      e.now().UnixMilli(),
		Type:    eventType,
		Payload: payloadBytes,
	}
	if err := e.audit.CreateEvent(ctx, event); err != nil {
		e.logger.Error("failed to record event", zap.Error(err))
	}
}
