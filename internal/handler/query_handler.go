package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Kross8/rag-api/internal/port"
	"github.com/Kross8/rag-api/internal/service"
)

// QueryHandler handles question answering.
type QueryHandler struct {
	query *service.QueryService
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(query *service.QueryService) *QueryHandler {
	return &QueryHandler{query: query}
}

// Register sets up query routes.
func (h *QueryHandler) Register(router fiber.Router) {
	router.Post("/query", h.Query)
}

// Query answers a question from the knowledge base with grounding verification.
func (h *QueryHandler) Query(c fiber.Ctx) error {
	var body struct {
		Question string `json:"question"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := h.query.Answer(c.Context(), body.Question)
	if err != nil {
		if errors.Is(err, port.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(result)
}
