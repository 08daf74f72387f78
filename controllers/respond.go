package controllers

import (
	"pharma-app/repositories"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps a repository error kind to an HTTP status.
func statusFor(err error) int {
	switch repositories.KindOf(err) {
	case repositories.ErrKindNotFound:
		return fiber.StatusNotFound
	case repositories.ErrKindConflict:
		return fiber.StatusConflict
	case repositories.ErrKindValidation:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(ctx *fiber.Ctx, err error) error {
	return ctx.Status(statusFor(err)).JSON(fiber.Map{"success": false, "message": err.Error()})
}

func userIDFromCtx(ctx *fiber.Ctx) int {
	if id, ok := ctx.Locals("userID").(float64); ok {
		return int(id)
	}
	return 0
}

func storeCodeFromCtx(ctx *fiber.Ctx) string {
	if code, ok := ctx.Locals("storeCode").(string); ok {
		return code
	}
	return ""
}
