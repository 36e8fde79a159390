package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// ModelName and PromptVersion are recorded on every evaluation row so that
// verdicts can be traced back to the prompt that produced them.
const (
	ModelName     = "gpt-4o-mini"
	PromptVersion = "v1"
)

const systemPrompt = "You are a classifier for a local service business. " +
	"Return a JSON object with keys: relevant (0/1), short_reason (string, optional), " +
	"draft_response (string, required if relevant=1), detection_items (array, optional). " +
	"Each detection_item should include: comment_id (nullable), detection_type, evidence_excerpt."

// Usage is the token accounting for one classification call.
type Usage struct {
	TokensIn  int
	TokensOut int
}

// Classifier is the classification-service contract consumed by the
// evaluation orchestrator.
type Classifier interface {
	Evaluate(ctx context.Context, payload Payload) (Result, Usage, error)
}

// Client calls the OpenAI chat completions API with a JSON response
// format.
type Client struct {
	client openai.Client
	model  string
}

// NewClient creates a classification client. The API key falls back to the
// OPENAI_API_KEY environment variable.
func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	return &Client{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  ModelName,
	}, nil
}

var _ Classifier = (*Client)(nil)

// Evaluate performs exactly one classification call and validates its
// response. Retry policy lives with the caller, not here.
func (c *Client) Evaluate(ctx context.Context, payload Payload) (Result, Usage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, Usage{}, fmt.Errorf("failed to encode payload: %w", err)
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(string(body)),
		},
		Temperature: openai.Float(0.2),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return Result{}, Usage{}, fmt.Errorf("classification call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Result{}, Usage{}, fmt.Errorf("no choices in classification response")
	}

	usage := Usage{
		TokensIn:  int(resp.Usage.PromptTokens),
		TokensOut: int(resp.Usage.CompletionTokens),
	}

	result, err := ParseResult([]byte(resp.Choices[0].Message.Content))
	if err != nil {
		return Result{}, usage, err
	}

	return result, usage, nil
}
