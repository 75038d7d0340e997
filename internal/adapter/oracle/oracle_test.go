package oracle

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/tien2204/sotaysinhvienhust-rag/internal/domain"
)

func TestNewOracleModeSelection(t *testing.T) {
	t.Setenv(EnvAssistantMode, ModeMock)
	if _, ok := NewOracle("", "", "m", 0, nil).(*Mock); !ok {
		t.Fatal("expected Mock in MOCK mode")
	}

	t.Setenv(EnvAssistantMode, "")
	if _, ok := NewOracle("", "", "m", 0, nil).(*Client); !ok {
		t.Fatal("expected Client outside MOCK mode")
	}
}

func TestMockScriptOrder(t *testing.T) {
	m := NewMock()
	m.EnqueueDecision(domain.Message{Content: "một"})
	m.EnqueueDecision(domain.Message{ToolCalls: []domain.ToolCall{{ID: "c1", Name: "t"}}})

	first, err := m.Decide(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if first.Content != "một" || first.Role != domain.RoleAssistant {
		t.Fatalf("unexpected first decision: %+v", first)
	}

	second, _ := m.Decide(context.Background(), nil, nil)
	if len(second.ToolCalls) != 1 || second.ToolCalls[0].ID != "c1" {
		t.Fatalf("unexpected second decision: %+v", second)
	}

	// Exhausted script falls back to a fixed final answer.
	third, _ := m.Decide(context.Background(), nil, nil)
	if third.Content == "" || len(third.ToolCalls) != 0 {
		t.Fatalf("unexpected fallback decision: %+v", third)
	}
}

func TestToMessageParam(t *testing.T) {
	system := toMessageParam(domain.Message{Role: domain.RoleSystem, Content: "s"})
	if system.OfSystem == nil {
		t.Fatal("expected system message param")
	}

	tool := toMessageParam(domain.Message{Role: domain.RoleTool, Content: "r", ToolCallID: "c1"})
	if tool.OfTool == nil || tool.OfTool.ToolCallID != "c1" {
		t.Fatalf("unexpected tool message param: %+v", tool)
	}

	assistant := toMessageParam(domain.Message{
		Role: domain.RoleAssistant,
		ToolCalls: []domain.ToolCall{
			{ID: "c1", Name: "search_web", Args: json.RawMessage(`{"query":"x"}`)},
		},
	})
	if assistant.OfAssistant == nil || len(assistant.OfAssistant.ToolCalls) != 1 {
		t.Fatalf("unexpected assistant message param: %+v", assistant)
	}
	call := assistant.OfAssistant.ToolCalls[0]
	if call.OfFunction == nil || call.OfFunction.Function.Name != "search_web" {
		t.Fatalf("unexpected tool call param: %+v", call)
	}
}

func TestToToolParam(t *testing.T) {
	tool, err := toToolParam(domain.CapabilityDescriptor{
		Name:        "search_handbook",
		Description: "tra cứu",
		Schema:      json.RawMessage(`{"type":"object","properties":{"query":{"type":"string"}}}`),
	})
	if err != nil {
		t.Fatalf("toToolParam failed: %v", err)
	}
	if tool.OfFunction == nil || tool.OfFunction.Function.Name != "search_handbook" {
		t.Fatalf("unexpected tool param: %+v", tool)
	}
	if _, ok := tool.OfFunction.Function.Parameters["properties"]; !ok {
		t.Fatal("schema not carried into parameters")
	}

	if _, err := toToolParam(domain.CapabilityDescriptor{Name: "bad", Schema: json.RawMessage(`not json`)}); err == nil {
		t.Fatal("expected error for invalid schema")
	}
}
