package port

import (
	"context"

	"github.com/Kross8/rag-api/internal/domain"
)

// VectorStore persists chunks and supports nearest-neighbor search.
// The store owns chunk storage and lifecycle; the query pipeline only reads.
type VectorStore interface {
	// Upsert writes a chunk (text, source, vector) under its ID.
	Upsert(ctx context.Context, chunk domain.Chunk) error

	// Search returns up to topK matches ordered by descending similarity,
	// metadata included. An empty result is not an error.
	Search(ctx context.Context, vector []float32, topK int) ([]domain.Match, error)
}
