package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/services"
)

type SearchHandler struct {
	index services.CandidateIndex
}

func NewSearchHandler(index services.CandidateIndex) *SearchHandler {
	return &SearchHandler{index: index}
}

// HandleSearch handles GET /api/v1/candidates/search?q=...&limit=N
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "q is required")
	}

	hits, err := h.index.Search(c.UserContext(), query, c.QueryInt("limit", services.DefaultSearchLimit))
	if err != nil {
		return err
	}

	return c.JSON(models.SearchResponse{
		Query: query,
		Hits:  hits,
	})
}
