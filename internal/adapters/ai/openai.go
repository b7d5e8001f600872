package ai

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"argus/pkg/errors"
	"argus/pkg/logger"
)

const (
	defaultModel       = openai.ChatModelGPT4oMini
	defaultMaxTokens   = 200
	defaultTemperature = 0.3
)

// Ensure OpenAIGenerator implements ContextGenerator
var _ ContextGenerator = (*OpenAIGenerator)(nil)

// OpenAIGenerator generates alert explanations via the official OpenAI SDK
type OpenAIGenerator struct {
	client  openai.Client // NewClient returns Client (not *Client)
	model   openai.ChatModel
	timeout time.Duration
	log     *logger.Logger
}

// NewOpenAIGenerator creates a new OpenAI-backed context generator
func NewOpenAIGenerator(apiKey, model string, timeout time.Duration) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "openai API key is required")
	}

	if model == "" {
		model = defaultModel
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &OpenAIGenerator{
		client:  client,
		model:   openai.ChatModel(model),
		timeout: timeout,
		log:     logger.Get().With("component", "openai_generator", "model", model),
	}, nil
}

// GenerateContext asks the model for a short explanation of the alert
func (g *OpenAIGenerator) GenerateContext(ctx context.Context, alertCtx AlertContext) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildUserPrompt(alertCtx)),
		},
		MaxTokens:   openai.Int(defaultMaxTokens),
		Temperature: openai.Float(defaultTemperature),
	})
	if err != nil {
		return "", errors.Wrap(err, "openai chat completion failed")
	}

	if len(resp.Choices) == 0 {
		return "", errors.Wrapf(errors.ErrInternal, "no completion choices returned")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", errors.Wrapf(errors.ErrInternal, "empty completion content")
	}

	g.log.Debug("Generated alert context",
		"symbol", alertCtx.Symbol,
		"rule", alertCtx.RuleName,
		"tokens_used", resp.Usage.TotalTokens)

	return summary, nil
}
