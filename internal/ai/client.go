package ai

import (
	"context"
	"fmt"
)

// embeddingBatchSize caps one provider call; DashScope and similar APIs
// often limit batch size.
const embeddingBatchSize = 10

// Client binds provider configuration to the OpenAI-compatible HTTP client
// and exposes the narrow surface the application services depend on:
// Generate, Embed, EmbedBatch.
type Client struct {
	llm     *OpenAICompatibleClient
	embCfg  EmbeddingConfig
	chatCfg ChatConfig
}

func NewClient(llm *OpenAICompatibleClient, embCfg EmbeddingConfig, chatCfg ChatConfig) *Client {
	return &Client{
		llm:     llm,
		embCfg:  embCfg,
		chatCfg: chatCfg,
	}
}

// Generate performs a single-shot completion for the prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.llm.Complete(ctx, c.chatCfg, []ChatMessage{
		{Role: "user", Content: prompt},
	})
}

// Embed returns the embedding vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	return c.llm.Embed(ctx, c.embCfg, text)
}

// EmbedBatch embeds all texts in input order. Provider batch-size limits are
// handled here, so callers see one ordered call; any sub-batch failure fails
// the whole operation.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var all [][]float32
	for i := 0; i < len(texts); i += embeddingBatchSize {
		end := i + embeddingBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := c.llm.EmbedBatch(ctx, c.embCfg, texts[i:end])
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
	}
	if len(all) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d for %d texts", len(all), len(texts))
	}
	return all, nil
}
