package store

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/Kross8/rag-api/internal/domain"
	"github.com/Kross8/rag-api/internal/port"
)

// MemoryStore is a brute-force cosine-similarity vector store. It exists for
// tests and dependency-free local runs (VECTOR_STORE=memory).
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int
	chunks    []domain.Chunk
}

// NewMemoryStore creates an empty in-memory store for the given dimension.
func NewMemoryStore(dimension int) *MemoryStore {
	return &MemoryStore{dimension: dimension}
}

// Upsert appends or replaces the chunk with the same ID.
func (s *MemoryStore) Upsert(_ context.Context, chunk domain.Chunk) error {
	if len(chunk.Vector) != s.dimension {
		return port.ErrDimensionMismatch
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.chunks {
		if s.chunks[i].ID == chunk.ID {
			s.chunks[i] = chunk
			return nil
		}
	}
	s.chunks = append(s.chunks, chunk)
	return nil
}

// Search scores every stored chunk and returns the topK by cosine similarity.
func (s *MemoryStore) Search(_ context.Context, vector []float32, topK int) ([]domain.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]domain.Match, 0, len(s.chunks))
	for _, ch := range s.chunks {
		matches = append(matches, domain.Match{
			ChunkID: ch.ID,
			Score:   cosine(vector, ch.Vector),
			Text:    ch.Text,
			Source:  ch.Source,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if topK > len(matches) {
		topK = len(matches)
	}
	if topK < 0 {
		topK = 0
	}
	return matches[:topK], nil
}

// Len returns the number of stored chunks.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
