package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kross8/rag-api/internal/domain"
)

// PgVectorStore implements port.VectorStore on top of Postgres + pgvector.
type PgVectorStore struct {
	store     *PostgresStore
	dimension int
}

// NewPgVectorStore creates a vector store backed by the given Postgres store.
func NewPgVectorStore(store *PostgresStore, dimension int) *PgVectorStore {
	return &PgVectorStore{store: store, dimension: dimension}
}

// Upsert persists a chunk with its vector, replacing any record with the same ID.
func (v *PgVectorStore) Upsert(ctx context.Context, chunk domain.Chunk) error {
	if len(chunk.Vector) != v.dimension {
		return fmt.Errorf("upsert chunk %s: vector has %d dims, store expects %d",
			chunk.ID, len(chunk.Vector), v.dimension)
	}

	vectorStr := vectorToString(chunk.Vector)
	query := `INSERT INTO chunks (id, content, source, vector)
	          VALUES ($1, $2, $3, $4::vector)
	          ON CONFLICT (id) DO UPDATE SET
	              content = EXCLUDED.content,
	              source = EXCLUDED.source,
	              vector = EXCLUDED.vector`

	_, err := v.store.db.ExecContext(ctx, query, chunk.ID, chunk.Text, chunk.Source, vectorStr)
	if err != nil {
		return fmt.Errorf("upsert chunk: %w", err)
	}
	return nil
}

// Search performs a cosine similarity search over all stored chunks.
func (v *PgVectorStore) Search(ctx context.Context, vector []float32, topK int) ([]domain.Match, error) {
	vectorStr := vectorToString(vector)
	query := `SELECT id, content, source, 1 - (vector <=> $1::vector) AS score
	          FROM chunks
	          ORDER BY vector <=> $1::vector
	          LIMIT $2`

	rows, err := v.store.db.QueryContext(ctx, query, vectorStr, topK)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(&m.ChunkID, &m.Text, &m.Source, &m.Score); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// vectorToString converts a float32 slice to pgvector string format: [0.1,0.2,0.3].
func vectorToString(v []float32) string {
	parts := make([]string, len(v))
	for i, val := range v {
		parts[i] = fmt.Sprintf("%g", val)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
