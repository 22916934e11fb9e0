package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Kross8/rag-api/internal/domain"
	"github.com/Kross8/rag-api/internal/port"
)

// IngestService turns raw text fragments into stored vector chunks.
type IngestService struct {
	embedder port.Embedder
	store    port.VectorStore
	minChars int
}

// NewIngestService creates an ingest service. Document paragraphs must be
// longer than minChars after trimming to be stored; directly ingested text
// only has to be non-empty.
func NewIngestService(embedder port.Embedder, store port.VectorStore, minChars int) *IngestService {
	return &IngestService{embedder: embedder, store: store, minChars: minChars}
}

// IngestText embeds one text fragment and stores it under a fresh chunk ID.
// Ingesting the same text twice produces two distinct chunks.
func (s *IngestService) IngestText(ctx context.Context, text, source string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: text is empty", port.ErrInvalidInput)
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return "", fmt.Errorf("embed text: %w", err)
	}

	chunk := domain.Chunk{
		ID:     uuid.NewString(),
		Text:   text,
		Source: source,
		Vector: vector,
	}
	if err := s.store.Upsert(ctx, chunk); err != nil {
		return "", fmt.Errorf("store chunk: %w", err)
	}

	slog.Info("ingested chunk", "id", chunk.ID, "source", source, "chars", len(text))
	return chunk.ID, nil
}

// IngestDocument ingests each paragraph of a document as an independent chunk.
// Paragraphs at or below the minimum length are discarded as chunking
// artifacts. Failures are per-paragraph: a bad paragraph is logged and
// skipped, earlier writes stay in place. There is no rollback across the batch.
func (s *IngestService) IngestDocument(ctx context.Context, paragraphs []string, source string) ([]string, error) {
	ids := make([]string, 0, len(paragraphs))
	for i, p := range paragraphs {
		if len(strings.TrimSpace(p)) <= s.minChars {
			continue
		}
		id, err := s.IngestText(ctx, p, source)
		if err != nil {
			slog.Error("ingest paragraph failed", "source", source, "paragraph", i, "error", err)
			continue
		}
		ids = append(ids, id)
	}
	slog.Info("ingested document", "source", source, "paragraphs", len(paragraphs), "stored", len(ids))
	return ids, nil
}
