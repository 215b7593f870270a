package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/vireolabs/lingo"
)

// OpenAIConfig holds configuration for the OpenAI-compatible loader.
type OpenAIConfig struct {
	APIKey      string  // API key (uses server default if empty)
	BaseURL     string  // custom base URL for self-hosted inference servers
	Temperature float32 // generation temperature (default: 0.1)
	MaxTokens   int     // response token cap (default: 1024)
}

// OpenAILoader loads engines backed by an OpenAI-compatible chat API. Model
// identifiers map directly onto served model names, so a single inference
// server can host many language directions.
type OpenAILoader struct {
	client *openai.Client
	cfg    OpenAIConfig
}

// NewOpenAILoader creates a loader for an OpenAI-compatible endpoint.
func NewOpenAILoader(cfg OpenAIConfig) *OpenAILoader {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}

	return &OpenAILoader{
		client: openai.NewClientWithConfig(config),
		cfg:    cfg,
	}
}

// Load verifies the model is served and returns an engine bound to it.
func (l *OpenAILoader) Load(ctx context.Context, modelID string) (Engine, error) {
	if _, err := l.client.GetModel(ctx, modelID); err != nil {
		return nil, fmt.Errorf("model %q unavailable: %w", modelID, err)
	}

	return &openaiEngine{
		client:       l.client,
		model:        modelID,
		cfg:          l.cfg,
		systemPrompt: buildSystemPrompt(modelID),
	}, nil
}

type openaiEngine struct {
	client       *openai.Client
	model        string
	cfg          OpenAIConfig
	systemPrompt string
}

// Translate sends one chat completion per call. The engine is stateless, so
// concurrent calls are safe.
func (e *openaiEngine) Translate(ctx context.Context, text string) (string, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: e.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: e.cfg.Temperature,
		MaxTokens:   e.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response from model %q", e.model)
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("empty translation from model %q", e.model)
	}
	return out, nil
}

func (e *openaiEngine) ModelID() string {
	return e.model
}

func (e *openaiEngine) Release() error {
	return nil
}

// buildSystemPrompt derives the translation instruction from the model
// identifier. Bilingual model names end in "-<src>-<tgt>" (opus-mt
// convention); anything else gets a generic prompt.
func buildSystemPrompt(modelID string) string {
	source, target, ok := directionFromModelID(modelID)
	if !ok {
		return "You are a translation engine. Translate the user's text. " +
			"Return only the translated text with no explanations."
	}
	return fmt.Sprintf(
		"You are a translation engine. Translate the user's text from %s to %s. "+
			"Return only the translated text with no explanations.",
		lingo.GetLanguageName(source), lingo.GetLanguageName(target))
}

// directionFromModelID extracts the language direction from names like
// "Helsinki-NLP/opus-mt-en-hi".
func directionFromModelID(modelID string) (source, target string, ok bool) {
	parts := strings.Split(modelID, "-")
	if len(parts) < 2 {
		return "", "", false
	}
	source = parts[len(parts)-2]
	target = parts[len(parts)-1]
	if len(source) < 2 || len(source) > 3 || len(target) < 2 || len(target) > 3 {
		return "", "", false
	}
	return source, target, true
}

// Verify implementations.
var (
	_ Loader = (*OpenAILoader)(nil)
	_ Engine = (*openaiEngine)(nil)
)
