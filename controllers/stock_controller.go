package controllers

import (
	"fmt"
	"time"

	"pharma-app/config"
	"pharma-app/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type StockController struct {
	Stock       *repositories.StockRepository
	Pricing     *repositories.PricingRepository
	Substitutes *repositories.SubstituteRepository
}

func NewStockController(stock *repositories.StockRepository, pricing *repositories.PricingRepository, substitutes *repositories.SubstituteRepository) *StockController {
	return &StockController{Stock: stock, Pricing: pricing, Substitutes: substitutes}
}

// GetStock returns one product's stock record with its batch list for
// the caller's store.
func (c *StockController) GetStock(ctx *fiber.Ctx) error {
	productID, err := ctx.ParamsInt("productId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	record, err := c.Stock.GetStock(storeCodeFromCtx(ctx), uint(productID))
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Stock found", "data": record})
}

func (c *StockController) GetStoreStock(ctx *fiber.Ctx) error {
	records, err := c.Stock.GetStoreStock(storeCodeFromCtx(ctx))
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Stock found", "data": records})
}

// Quarantine runs the expiry sweep for one product on demand, outside of
// a sale.
func (c *StockController) Quarantine(ctx *fiber.Ctx) error {
	productID, err := ctx.ParamsInt("productId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	quarantined, err := c.Stock.QuarantineExpiring(
		storeCodeFromCtx(ctx), uint(productID),
		time.Now(), config.QuarantineWindowDays, userIDFromCtx(ctx))
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Quarantine sweep complete",
		"data":    fiber.Map{"quarantined_batches": quarantined},
	})
}

// GetSubstitutes lists in-stock same-composition alternatives for a
// product.
func (c *StockController) GetSubstitutes(ctx *fiber.Ctx) error {
	productID, err := ctx.ParamsInt("productId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	substitutes, err := c.Substitutes.Find(ctx.Context(), storeCodeFromCtx(ctx), uint(productID))
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Substitutes found", "data": substitutes})
}

// ExportStock writes the store's batch-level stock position to an xlsx
// download.
func (c *StockController) ExportStock(ctx *fiber.Ctx) error {
	records, err := c.Stock.GetStoreStock(storeCodeFromCtx(ctx))
	if err != nil {
		return fail(ctx, err)
	}

	f := excelize.NewFile()
	sheet := "Stock"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Product", "Available Stock", "Batch Number", "Expiry", "Batch Quantity", "Batch Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, record := range records {
		for _, batch := range record.Batches {
			values := []interface{}{
				record.ProductName, record.AvailableStock,
				batch.BatchNumber, batch.ExpiryDate, batch.Quantity, batch.Status,
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	filename := fmt.Sprintf("stock_%s_%s.xlsx", storeCodeFromCtx(ctx), time.Now().Format("20060102"))
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return ctx.SendStream(buf)
}

// pricingInput carries selling-price fields for one batch.
type pricingInput struct {
	ProductID       uint    `json:"product_id" validate:"required"`
	BatchNumber     string  `json:"batch_number" validate:"required"`
	MRP             float64 `json:"mrp" validate:"required"`
	DiscountPercent float64 `json:"discount_percent"`
}

func (c *StockController) CreatePricing(ctx *fiber.Ctx) error {
	var input pricingInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	entry, err := c.Pricing.Create(storeCodeFromCtx(ctx), input.ProductID, input.BatchNumber,
		input.MRP, input.DiscountPercent, userIDFromCtx(ctx))
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Pricing created successfully", "data": entry})
}

func (c *StockController) UpdatePricing(ctx *fiber.Ctx) error {
	var input pricingInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	entry, err := c.Pricing.Update(storeCodeFromCtx(ctx), input.ProductID, input.BatchNumber,
		input.MRP, input.DiscountPercent, userIDFromCtx(ctx))
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Pricing updated successfully", "data": entry})
}

func (c *StockController) GetPricing(ctx *fiber.Ctx) error {
	productID, err := ctx.ParamsInt("productId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	batchNumber := ctx.Params("batchNumber")
	if batchNumber == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing batch number"})
	}

	entry, err := c.Pricing.Get(storeCodeFromCtx(ctx), uint(productID), batchNumber)
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Pricing found", "data": entry})
}
