// Package llm wraps the chat completion backend behind a small interface
// the agents can be tested against.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/stocksensei/stocksensei/internal/config"
	"github.com/stocksensei/stocksensei/pkg/logger"
)

// Generator produces one completion for a system/user prompt pair.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// GroqModel is a Generator backed by Groq's OpenAI-compatible API.
type GroqModel struct {
	chatModel model.BaseChatModel
	modelName string
}

// NewGroqModel builds the chat model from configuration.
func NewGroqModel(ctx context.Context, cfg config.GroqConfig) (*GroqModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq api key is empty")
	}

	maxTokens := cfg.MaxTokens
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:   cfg.BaseURL,
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		MaxTokens: &maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("create groq chat model: %w", err)
	}

	return &GroqModel{chatModel: chatModel, modelName: cfg.Model}, nil
}

// Generate implements Generator.
func (g *GroqModel) Generate(ctx context.Context, system, user string) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	}

	resp, err := g.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("groq generate (%s): %w", g.modelName, err)
	}

	content := stripReasoning(resp.Content)
	if content == "" {
		return "", fmt.Errorf("groq returned empty completion (%s)", g.modelName)
	}

	logger.Debugf("groq completion: %d chars from %s", len(content), g.modelName)
	return content, nil
}

// stripReasoning removes <think> blocks that reasoning models emit before
// the answer.
func stripReasoning(content string) string {
	for {
		start := strings.Index(content, "<think>")
		if start == -1 {
			break
		}
		end := strings.Index(content, "</think>")
		if end == -1 || end < start {
			content = content[:start]
			break
		}
		content = content[:start] + content[end+len("</think>"):]
	}
	return strings.TrimSpace(content)
}
