package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client is a Completer backed by the OpenAI chat completions API.
type Client struct {
	client *openai.Client
}

var _ Completer = (*Client)(nil)

// Options configures the OpenAI client.
type Options struct {
	// APIKey authenticates requests. Local servers usually accept any value.
	APIKey string

	// BaseURL overrides the API endpoint, e.g. "http://localhost:11434/v1"
	// for Ollama.
	BaseURL string
}

// New creates a chat completion client.
func New(opts Options) *Client {
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := openai.NewClient(reqOpts...)
	return &Client{client: &client}
}

// Complete implements Completer.
func (c *Client) Complete(ctx context.Context, history []Message, model, promptSuffix string) (string, error) {
	if model == "" {
		return "", fmt.Errorf("llm: missing model")
	}
	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: buildMessages(history, promptSuffix),
	}
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// buildMessages converts the history to API params, applying the prompt
// suffix to the final user turn only.
func buildMessages(history []Message, promptSuffix string) []openai.ChatCompletionMessageParamUnion {
	lastUser := -1
	if promptSuffix != "" {
		for i := len(history) - 1; i >= 0; i-- {
			if history[i].Role == RoleUser {
				lastUser = i
				break
			}
		}
	}

	var params []openai.ChatCompletionMessageParamUnion
	for i, m := range history {
		content := m.Content
		if i == lastUser {
			content = applySuffix(content, promptSuffix)
		}
		switch m.Role {
		case RoleSystem:
			params = append(params, openai.SystemMessage(content))
		case RoleAssistant:
			params = append(params, openai.AssistantMessage(content))
		default:
			params = append(params, openai.UserMessage(content))
		}
	}
	return params
}

// applySuffix folds the communication's fixed prompt suffix into a user
// message.
func applySuffix(text, suffix string) string {
	if suffix == "" {
		return text
	}
	return text + "\n\n" + suffix
}
