package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"github.com/tien2204/sotaysinhvienhust-rag/internal/domain"
)

// Client is the real oracle implementation over an OpenAI-compatible
// chat-completions endpoint (Gemini's compatibility surface by default).
type Client struct {
	client  openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates an oracle client.
func NewClient(baseURL, apiKey, model string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	options := []option.RequestOption{}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}
	if apiKey != "" {
		options = append(options, option.WithAPIKey(apiKey))
	}

	return &Client{
		client:  openai.NewClient(options...),
		model:   model,
		timeout: timeout,
		logger:  logger.With(zap.String("component", "oracle")),
	}
}

// Decide implements Oracle.
func (c *Client) Decide(ctx context.Context, msgs []domain.Message, capabilities []domain.CapabilityDescriptor) (domain.Message, error) {
	params := openai.ChatCompletionNewParams{Model: c.model}

	for _, m := range msgs {
		params.Messages = append(params.Messages, toMessageParam(m))
	}
	for _, d := range capabilities {
		tool, err := toToolParam(d)
		if err != nil {
			return domain.Message{}, err
		}
		params.Tools = append(params.Tools, tool)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return domain.Message{}, fmt.Errorf("oracle completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return domain.Message{}, fmt.Errorf("oracle returned no choices")
	}

	message := completion.Choices[0].Message
	out := domain.Message{Role: domain.RoleAssistant, Content: message.Content}
	for _, call := range message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, domain.ToolCall{
			ID:   call.ID,
			Name: call.Function.Name,
			Args: json.RawMessage(call.Function.Arguments),
		})
	}

	c.logger.Debug("oracle decision",
		zap.Int("messages", len(msgs)),
		zap.Int("tool_calls", len(out.ToolCalls)))

	return out, nil
}

// Complete implements Oracle.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	})
	if err != nil {
		return "", fmt.Errorf("oracle completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("oracle returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

func toMessageParam(m domain.Message) openai.ChatCompletionMessageParamUnion {
	switch m.Role {
	case domain.RoleSystem:
		return openai.SystemMessage(m.Content)
	case domain.RoleAssistant:
		param := openai.AssistantMessage(m.Content)
		for _, call := range m.ToolCalls {
			param.OfAssistant.ToolCalls = append(param.OfAssistant.ToolCalls,
				openai.ChatCompletionMessageToolCallUnionParam{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: call.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      call.Name,
							Arguments: string(call.Args),
						},
					},
				})
		}
		return param
	case domain.RoleTool:
		return openai.ToolMessage(m.Content, m.ToolCallID)
	default:
		return openai.UserMessage(m.Content)
	}
}

func toToolParam(d domain.CapabilityDescriptor) (openai.ChatCompletionToolUnionParam, error) {
	var parameters openai.FunctionParameters
	if len(d.Schema) > 0 {
		if err := json.Unmarshal(d.Schema, &parameters); err != nil {
			return openai.ChatCompletionToolUnionParam{}, fmt.Errorf("invalid schema for capability %s: %w", d.Name, err)
		}
	}
	return openai.ChatCompletionToolUnionParam{
		OfFunction: &openai.ChatCompletionFunctionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        d.Name,
				Description: openai.String(d.Description),
				Parameters:  parameters,
			},
		},
	}, nil
}
