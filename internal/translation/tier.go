package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"google.golang.org/genai"
)

// DefaultTemperature is the creativity setting used for every tier
const DefaultTemperature float32 = 0.7

// DefaultModels is the built-in tier list, fastest model first and the
// experimental model last
var DefaultModels = []string{
	"gemini-3-flash-preview",
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemini-2.5-pro",
	"gemini-2.0-flash-exp",
}

// openAIPrefix marks tier entries that are served by the OpenAI API
const openAIPrefix = "openai:"

// Request is what a tier receives
type Request struct {
	Instruction string
	Content     string
	Temperature float32
}

// Response is what a tier produced. Present is false when the backend
// answered without any text part at all.
type Response struct {
	Text    string
	Present bool
}

// Tier is one candidate model in the fallback chain
type Tier interface {
	Name() string
	Generate(ctx context.Context, req Request) (Response, error)
}

// TierFunc adapts a plain function to the Tier interface
type TierFunc struct {
	Label string
	Fn    func(ctx context.Context, req Request) (Response, error)
}

// Name returns the tier label
func (f TierFunc) Name() string {
	return f.Label
}

// Generate calls the wrapped function
func (f TierFunc) Generate(ctx context.Context, req Request) (Response, error) {
	return f.Fn(ctx, req)
}

// contentGenerator is the part of *genai.Models used by GeminiTier
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGeminiClient creates a Gemini API client for apiKey
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

// GeminiTier sends requests to one Gemini model
type GeminiTier struct {
	model  string
	models contentGenerator
}

// NewGeminiTier creates a tier for model using an existing genai client
func NewGeminiTier(client *genai.Client, model string) *GeminiTier {
	return &GeminiTier{model: model, models: client.Models}
}

// Name returns the model identifier
func (t *GeminiTier) Name() string {
	return t.model
}

// Generate issues one GenerateContent call
func (t *GeminiTier) Generate(ctx context.Context, req Request) (Response, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.Instruction, genai.RoleUser),
		Temperature:       genai.Ptr(req.Temperature),
	}

	resp, err := t.models.GenerateContent(ctx, t.model, genai.Text(req.Content), config)
	if err != nil {
		return Response{}, fmt.Errorf("Gemini API error: %w", err)
	}

	return Response{Text: resp.Text(), Present: hasTextPart(resp)}, nil
}

// hasTextPart reports whether any candidate carries a text part, even an
// empty one. Thoughts, inline data and tool calls do not count.
func hasTextPart(resp *genai.GenerateContentResponse) bool {
	if resp == nil {
		return false
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			if part.InlineData != nil || part.FileData != nil || part.FunctionCall != nil ||
				part.FunctionResponse != nil || part.ExecutableCode != nil || part.CodeExecutionResult != nil ||
				part.ToolCall != nil || part.ToolResponse != nil {
				continue
			}
			return true
		}
	}
	return false
}

// chatCompleter is the part of *openai.Client used by OpenAITier
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAITier sends requests to one OpenAI chat model
type OpenAITier struct {
	model  string
	client chatCompleter
}

// NewOpenAITier creates a tier for an OpenAI chat model
func NewOpenAITier(client *openai.Client, model string) *OpenAITier {
	return &OpenAITier{model: model, client: client}
}

// Name returns the tier identifier including the vendor prefix
func (t *OpenAITier) Name() string {
	return openAIPrefix + t.model
}

// Generate issues one chat completion call
func (t *OpenAITier) Generate(ctx context.Context, req Request) (Response, error) {
	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.Instruction},
			{Role: openai.ChatMessageRoleUser, Content: req.Content},
		},
		Temperature: req.Temperature,
	})
	if err != nil {
		return Response{}, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Response{}, nil
	}
	text := resp.Choices[0].Message.Content
	return Response{Text: text, Present: text != ""}, nil
}

// BreakerTier guards a tier with a circuit breaker. While the breaker is
// open the tier fails immediately and the chain moves on.
type BreakerTier struct {
	tier    Tier
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerTier wraps tier. Empty responses count as failures.
func NewBreakerTier(tier Tier, settings gobreaker.Settings) *BreakerTier {
	if settings.Name == "" {
		settings.Name = tier.Name()
	}
	return &BreakerTier{tier: tier, breaker: gobreaker.NewCircuitBreaker(settings)}
}

// Name returns the wrapped tier name
func (t *BreakerTier) Name() string {
	return t.tier.Name()
}

// Generate runs the wrapped tier through the breaker
func (t *BreakerTier) Generate(ctx context.Context, req Request) (Response, error) {
	out, err := t.breaker.Execute(func() (interface{}, error) {
		resp, err := t.tier.Generate(ctx, req)
		if err != nil {
			return nil, err
		}
		if !resp.Present || strings.TrimSpace(resp.Text) == "" {
			return resp, ErrEmptyResponse
		}
		return resp, nil
	})
	if errors.Is(err, ErrEmptyResponse) {
		return out.(Response), nil
	}
	if err != nil {
		return Response{}, err
	}
	return out.(Response), nil
}

// State exposes the breaker state for diagnostics
func (t *BreakerTier) State() gobreaker.State {
	return t.breaker.State()
}

// TierOptions controls how BuildTiers assembles the chain
type TierOptions struct {
	GeminiClient   *genai.Client
	OpenAIClient   *openai.Client
	CircuitBreaker bool
	BreakerConfig  gobreaker.Settings
}

// BuildTiers turns model identifiers into tiers. Identifiers prefixed with
// "openai:" need an OpenAI client, everything else a Gemini client.
func BuildTiers(models []string, opts TierOptions) ([]Tier, error) {
	tiers := make([]Tier, 0, len(models))
	for _, m := range models {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}

		var tier Tier
		if name, ok := strings.CutPrefix(m, openAIPrefix); ok {
			if opts.OpenAIClient == nil {
				return nil, fmt.Errorf("tier %s needs an OpenAI API key", m)
			}
			tier = NewOpenAITier(opts.OpenAIClient, name)
		} else {
			if opts.GeminiClient == nil {
				return nil, fmt.Errorf("tier %s needs a Gemini client", m)
			}
			tier = NewGeminiTier(opts.GeminiClient, m)
		}

		if opts.CircuitBreaker {
			tier = NewBreakerTier(tier, opts.BreakerConfig)
		}
		tiers = append(tiers, tier)
	}

	if len(tiers) == 0 {
		return nil, fmt.Errorf("no model tiers configured")
	}
	return tiers, nil
}
