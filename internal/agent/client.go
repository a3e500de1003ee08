package agent

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"omnidoc/internal/config"
)

// CompletionClient is the text-completion collaborator consumed by the
// summarizer. The four summarizer operations differ only in the system
// instruction and user content they pass here.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type openAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewCompletionClient builds a client for any OpenAI-compatible completion
// endpoint. The default configuration targets Groq.
func NewCompletionClient(cfg config.LLMConfig) CompletionClient {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &openAIClient{
		client:  openai.NewClientWithConfig(oc),
		model:   cfg.Model,
		timeout: timeout,
	}
}

func (c *openAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
