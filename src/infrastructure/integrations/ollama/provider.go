package ollama

import (
	"context"

	"github.com/tmc/langchaingo/textsplitter"
)

// Provider binds a client to one model and exposes the operations the
// question-answering services need.
type Provider struct {
	client    *Client
	modelName string
}

func NewProvider(client *Client, modelName string) *Provider {
	return &Provider{
		client:    client,
		modelName: modelName,
	}
}

// TextSplit splits text by token budget using the model's tokenizer as
// the length function. Used to trim retrieved context before prompting.
func (p *Provider) TextSplit(ctx context.Context, text string, chunkSize, chunkOverlap int) ([]string, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
		textsplitter.WithLenFunc(
			func(s string) int {
				n, err := p.client.CountTokens(ctx, p.modelName, s)
				if err != nil {
					return -1
				}
				return n
			},
		),
	)

	return splitter.SplitText(text)
}

// Reasoning generates a completion with the bound model.
func (p *Provider) Reasoning(ctx context.Context, system string, prompt string) (string, error) {
	return p.client.Generate(ctx, p.modelName, system, prompt, map[string]interface{}{
		"temperature": 0.7,
		"top_p":       0.9,
	})
}

// Embed generates an embedding vector with the bound model.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	return p.client.GetEmbedding(ctx, p.modelName, text)
}
