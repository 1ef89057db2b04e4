package llm

import (
	"context"
)

// EmbedderClient turns texts into vectors, one per input text and in order.
type EmbedderClient interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	ModelName() string
}
