// Package handlers implements the REST surface. Request bodies are parsed
// into explicit tagged structs and validated at the boundary before any
// engine component is reached.
package handlers

import (
	"paygate/internal/middleware"
	"paygate/internal/services/checkout"
	"paygate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	service checkout.Service
}

func NewCheckoutHandler(service checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

type createCheckoutRequest struct {
	Reference     string  `json:"reference"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
	PaymentType   string  `json:"paymentType"`
	SuccessURL    string  `json:"successUrl"`
	ReturnURL     string  `json:"returnUrl"`
}

// CreateCheckout handles POST /api/checkouts.
func (h *CheckoutHandler) CreateCheckout(c *fiber.Ctx) error {
	merchant := middleware.MerchantFrom(c)

	var req createCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	created, err := h.service.Create(c.Context(), merchant, checkout.CreateRequest{
		Reference:     req.Reference,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PaymentType:   req.PaymentType,
		SuccessURL:    req.SuccessURL,
		ReturnURL:     req.ReturnURL,
	})
	if err != nil {
		return response.Domain(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"checkoutId":  created.ID,
		"checkoutUrl": created.CheckoutURL,
	})
}

// GetCheckout handles GET /api/checkouts/:checkoutId.
func (h *CheckoutHandler) GetCheckout(c *fiber.Ctx) error {
	merchant := middleware.MerchantFrom(c)

	found, err := h.service.Get(c.Context(), merchant.ID, c.Params("checkoutId"))
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "checkout", found)
}

type completePaymentRequest struct {
	MobileNumber string `json:"mobileNumber"`
	PIN          string `json:"pin"`
	Token        string `json:"token"`
}

// CompletePayment handles POST /api/payment/:checkoutId/complete, invoked
// by the hosted payment page. The session token comes from the checkout
// URL, either as a query parameter or in the body.
func (h *CheckoutHandler) CompletePayment(c *fiber.Ctx) error {
	var req completePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request format")
	}
	if req.MobileNumber == "" {
		return response.BadRequest(c, "mobileNumber is required")
	}

	token := req.Token
	if token == "" {
		token = c.Query("token")
	}

	result, err := h.service.Complete(c.Context(), c.Params("checkoutId"), checkout.CompleteInput{
		MobileNumber: req.MobileNumber,
		PIN:          req.PIN,
		SessionToken: token,
	})
	if err != nil {
		return response.Domain(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    result.Success,
		"message":    result.Message,
		"status":     result.Checkout.Status,
		"statusCode": result.Checkout.StatusCode,
	})
}
