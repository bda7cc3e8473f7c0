package handlers

import (
	"paygate/internal/models"
	"paygate/internal/services/payout"
	"paygate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type IPNHandler struct {
	payouts payout.Service
}

func NewIPNHandler(payouts payout.Service) *IPNHandler {
	return &IPNHandler{payouts: payouts}
}

type ipnCallbackRequest struct {
	PayoutID      string `json:"payoutId"`
	Status        string `json:"status"`
	PSPReference  string `json:"pspReference"`
	FailureReason string `json:"failureReason"`
}

// Callback handles POST /api/ipn/callback, the PSP-facing notification
// endpoint. An unknown payout id is rejected without mutating any state.
func (h *IPNHandler) Callback(c *fiber.Ctx) error {
	var req ipnCallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request format")
	}
	if req.PayoutID == "" {
		return response.BadRequest(c, "payoutId is required")
	}

	updated, err := h.payouts.HandleCallback(c.Context(), payout.Callback{
		PayoutID:      req.PayoutID,
		Status:        models.PayoutStatus(req.Status),
		PSPReference:  req.PSPReference,
		FailureReason: req.FailureReason,
	})
	if err != nil {
		return response.Domain(c, err)
	}

	return c.JSON(fiber.Map{
		"acknowledged": true,
		"payoutId":     updated.ID,
		"status":       updated.Status,
	})
}
