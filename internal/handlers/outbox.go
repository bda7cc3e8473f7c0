package handlers

import (
	"paygate/internal/repositories"
	"paygate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type OutboxHandler struct {
	repo repositories.OutboxRepository
}

func NewOutboxHandler(repo repositories.OutboxRepository) *OutboxHandler {
	return &OutboxHandler{repo: repo}
}

// ListFailedEvents handles GET /api/admin/events/failed. Events that
// exhausted their delivery attempts land here for manual inspection;
// they are never silently dropped.
func (h *OutboxHandler) ListFailedEvents(c *fiber.Ctx) error {
	events, err := h.repo.ListFailed(c.Context(), 100)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "failed events", events)
}
