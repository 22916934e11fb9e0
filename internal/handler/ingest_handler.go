package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Kross8/rag-api/internal/adapter/extract"
	"github.com/Kross8/rag-api/internal/port"
	"github.com/Kross8/rag-api/internal/service"
)

// IngestHandler handles text ingestion and document upload endpoints.
type IngestHandler struct {
	ingest *service.IngestService
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(ingest *service.IngestService) *IngestHandler {
	return &IngestHandler{ingest: ingest}
}

// Register sets up ingestion routes.
func (h *IngestHandler) Register(router fiber.Router) {
	router.Post("/ingest", h.Ingest)
	router.Post("/upload", h.Upload)
}

// Ingest stores a single text fragment in the knowledge base.
func (h *IngestHandler) Ingest(c fiber.Ctx) error {
	var body struct {
		Text   string `json:"text"`
		Source string `json:"source"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if body.Source == "" {
		body.Source = "manual"
	}

	id, err := h.ingest.IngestText(c.Context(), body.Text, body.Source)
	if err != nil {
		if errors.Is(err, port.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Text ingested successfully",
		"id":      id,
	})
}

// Upload extracts text from a PDF, splits it into paragraphs, and ingests each
// one. Extraction problems come back as a structured error response, not a
// transport failure.
func (h *IngestHandler) Upload(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing file field"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "failed to open uploaded file"})
	}
	defer file.Close()

	text, err := extract.PDFText(file, fileHeader.Size)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	paragraphs := extract.Paragraphs(text)
	ids, err := h.ingest.IngestDocument(c.Context(), paragraphs, fileHeader.Filename)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message":            "Document ingested successfully",
		"total_chunks_saved": len(ids),
	})
}
