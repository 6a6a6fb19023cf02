package ai

import "context"

// EmbeddingProvider binds the shared client to one embedding model so
// callers do not carry API config around.
type EmbeddingProvider struct {
	client *OpenAICompatibleClient
	cfg    EmbeddingConfig
}

func NewEmbeddingProvider(client *OpenAICompatibleClient, cfg EmbeddingConfig) *EmbeddingProvider {
	return &EmbeddingProvider{client: client, cfg: cfg}
}

func (p *EmbeddingProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	return p.client.Embed(ctx, p.cfg, text)
}

// CompletionProvider binds the shared client to one chat model.
type CompletionProvider struct {
	client *OpenAICompatibleClient
	cfg    ChatConfig
}

func NewCompletionProvider(client *OpenAICompatibleClient, cfg ChatConfig) *CompletionProvider {
	return &CompletionProvider{client: client, cfg: cfg}
}

func (p *CompletionProvider) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	return p.client.Complete(ctx, p.cfg, messages)
}
