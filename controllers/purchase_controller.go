package controllers

import (
	"path/filepath"
	"strings"

	"pharma-app/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type PurchaseController struct {
	Purchases *repositories.PurchaseRepository
}

func NewPurchaseController(purchases *repositories.PurchaseRepository) *PurchaseController {
	return &PurchaseController{Purchases: purchases}
}

// CreatePurchase ingests a single receipt posted as JSON. The store code
// always comes from the caller's token, never from the body.
func (c *PurchaseController) CreatePurchase(ctx *fiber.Ctx) error {
	var input repositories.PurchaseInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	input.StoreCode = storeCodeFromCtx(ctx)

	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	header, details, err := c.Purchases.CreateReceipt(input, userIDFromCtx(ctx))
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Purchase created successfully",
		"data":    fiber.Map{"header": header, "details": details},
	})
}

// UploadPurchaseFile ingests a bulk xlsx upload: one row per purchase
// line, grouped into receipts by invoice number.
func (c *PurchaseController) UploadPurchaseFile(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing file"})
	}
	if strings.ToLower(filepath.Ext(fileHeader.Filename)) != ".xlsx" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only .xlsx files are supported"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	defer file.Close()

	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read workbook"})
	}
	defer workbook.Close()

	rows, err := repositories.ParsePurchaseWorkbook(workbook)
	if err != nil {
		return fail(ctx, err)
	}

	summary, err := c.Purchases.ImportRows(storeCodeFromCtx(ctx), rows, userIDFromCtx(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
			"data":    summary,
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Purchase file imported successfully",
		"data":    summary,
	})
}

func (c *PurchaseController) GetPurchase(ctx *fiber.Ctx) error {
	poNumber := ctx.Params("poNumber")
	if poNumber == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing PO number"})
	}

	header, details, err := c.Purchases.GetReceipt(poNumber)
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Purchase found",
		"data":    fiber.Map{"header": header, "details": details},
	})
}
