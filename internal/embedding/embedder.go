// Package embedding maps text to vectors and caches query embeddings.
package embedding

import "context"

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Close() error
}

// Embed returns one component per UTF-8 byte of text, each byte scaled into [0, 1].
// The vector length therefore varies with the input and is never normalized.
func Embed(text string) []float32 {
	emb := make([]float32, len(text))
	for i := 0; i < len(text); i++ {
		emb[i] = float32(text[i]) / 255.0
	}
	return emb
}

// ByteEmbedder is the deterministic byte embedder behind the Embedder interface.
type ByteEmbedder struct{}

// NewByteEmbedder returns a ByteEmbedder.
func NewByteEmbedder() *ByteEmbedder {
	return &ByteEmbedder{}
}

// Embed implements Embedder. It never fails.
func (e *ByteEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return Embed(text), nil
}

// EmbedBatch embeds every text in order.
func (e *ByteEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = Embed(text)
	}
	return embeddings, nil
}

// Close is a no-op for ByteEmbedder.
func (e *ByteEmbedder) Close() error {
	return nil
}
