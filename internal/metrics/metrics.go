// Package metrics defines the prometheus instrumentation for the assistant.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CapabilityCalls counts capability executions by tool name and outcome
	// (ok, diagnostic, blocked, unknown).
	CapabilityCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "assistant",
		Name:      "capability_calls_total",
		Help:      "Capability executions by tool name and outcome.",
	}, []string{"tool", "outcome"})

	// ModerationDecisions counts moderation verdicts.
	ModerationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "assistant",
		Name:      "moderation_decisions_total",
		Help:      "Moderation classifier verdicts.",
	}, []string{"verdict"})

	// TurnDuration observes wall-clock duration of completed turns.
	TurnDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "assistant",
		Name:      "turn_duration_seconds",
		Help:      "Duration of question/answer turns.",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
	})

	// LoopExhaustions counts turns terminated by the iteration ceiling.
	LoopExhaustions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "assistant",
		Name:      "loop_exhaustions_total",
		Help:      "Turns forced to terminate by the decision-loop bound.",
	})

	// OracleDecisions counts decision oracle invocations by kind
	// (tool_calls, final).
	OracleDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "assistant",
		Name:      "oracle_decisions_total",
		Help:      "Decision oracle outcomes per invocation.",
	}, []string{"kind"})
)
