package response

import (
	stderrors "errors"

	domainerr "paygate/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// Domain maps a domain error to its HTTP status and code; anything
// outside the taxonomy becomes an opaque 500.
func Domain(c *fiber.Ctx, err error) error {
	var de *domainerr.DomainError
	if stderrors.As(err, &de) {
		return c.Status(de.Status).JSON(fiber.Map{
			"error": de.Message,
			"code":  de.Code,
		})
	}
	return ServerError(c, "internal error")
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}
