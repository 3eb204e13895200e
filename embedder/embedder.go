package embedder

import "context"

const DefaultModel = "text-embedding-3-small"

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
