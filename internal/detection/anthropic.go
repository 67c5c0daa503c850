package detection

import (
	"context"
	"errors"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicBackend struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

// NewAnthropicBackend returns a Backend using the Anthropic Messages API.
func NewAnthropicBackend(token, baseURL, model string, maxTokens int) Backend {
	opts := []anthropicopt.RequestOption{anthropicopt.WithAPIKey(token)}
	if baseURL != "" {
		opts = append(opts, anthropicopt.WithBaseURL(baseURL))
	}

	client := anthropic.NewClient(opts...)

	return &anthropicBackend{
		client:    &client,
		model:     model,
		maxTokens: maxTokens,
	}
}

func (b *anthropicBackend) Classify(ctx context.Context, img Image) (*Analysis, error) {
	req := anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: int64(b.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(img.MediaType, img.Base64()),
				anthropic.NewTextBlock(classifyPrompt),
			),
		},
	}

	rsp, err := b.client.Messages.New(ctx, req)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for _, content := range rsp.Content {
		if text, ok := content.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}

	if sb.Len() == 0 {
		return nil, errors.New("no response from Anthropic")
	}

	return parseReply(sb.String())
}
