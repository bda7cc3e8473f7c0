package handlers

import (
	"paygate/internal/services/verification"
	"paygate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type VerificationHandler struct {
	service verification.Service
}

func NewVerificationHandler(service verification.Service) *VerificationHandler {
	return &VerificationHandler{service: service}
}

type verifyAccountRequest struct {
	DestType      string `json:"destType"`
	AccountNumber string `json:"accountNumber"`
	BankCode      string `json:"bankCode"`
	WalletCode    string `json:"walletCode"`
}

// VerifyAccount handles POST /api/verify-account.
func (h *VerificationHandler) VerifyAccount(c *fiber.Ctx) error {
	var req verifyAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	result, err := h.service.VerifyAccount(c.Context(), verification.Request{
		DestType:      req.DestType,
		AccountNumber: req.AccountNumber,
		BankCode:      req.BankCode,
		WalletCode:    req.WalletCode,
	})
	if err != nil {
		return response.Domain(c, err)
	}
	return c.JSON(result)
}
