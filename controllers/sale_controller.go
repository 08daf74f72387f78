package controllers

import (
	"errors"
	"time"

	"pharma-app/controllers/idgen"
	"pharma-app/models"
	"pharma-app/repositories"
	"pharma-app/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SaleController struct {
	DB       *gorm.DB
	Sales    *repositories.SaleRepository
	Sequence *repositories.SequenceRepository
}

func NewSaleController(db *gorm.DB, sales *repositories.SaleRepository, sequence *repositories.SequenceRepository) *SaleController {
	return &SaleController{DB: db, Sales: sales, Sequence: sequence}
}

type saleInput struct {
	CustomerName  string                         `json:"customer_name"`
	CustomerPhone string                         `json:"customer_phone"`
	DoctorName    string                         `json:"doctor_name"`
	PaymentMode   string                         `json:"payment_mode"`
	Lines         []repositories.SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreateSale allocates and records a sale invoice. Partial fulfillment
// is reported per line through requested_qty vs allocated_qty.
func (c *SaleController) CreateSale(ctx *fiber.Ctx) error {
	var input saleInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	invoice, err := c.Sequence.Next(models.SeqSaleInvoice)
	if err != nil {
		return fail(ctx, err)
	}

	userID := userIDFromCtx(ctx)
	header := models.SaleHeader{
		ID:            types.SnowflakeID(idgen.GenerateID()),
		StoreCode:     storeCodeFromCtx(ctx),
		InvoiceNumber: invoice,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		DoctorName:    input.DoctorName,
		PaymentMode:   input.PaymentMode,
		Status:        models.StatusActive,
		CreatedBy:     userID,
		UpdatedBy:     userID,
	}

	details, allocations, err := c.Sales.CreateSale(&header, input.Lines, userID, time.Now())
	if err != nil {
		// Earlier lines may already be committed; return them with the error.
		return ctx.Status(statusFor(err)).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
			"data": fiber.Map{
				"header":      header,
				"details":     details,
				"allocations": allocations,
			},
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Sale created successfully",
		"data": fiber.Map{
			"header":      header,
			"details":     details,
			"allocations": allocations,
		},
	})
}

func (c *SaleController) GetSale(ctx *fiber.Ctx) error {
	invoice := ctx.Params("invoiceNumber")
	if invoice == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing invoice number"})
	}

	var header models.SaleHeader
	if err := c.DB.Where("invoice_number = ?", invoice).First(&header).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Sale not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	var details []models.SaleDetail
	if err := c.DB.Where("sale_id = ?", header.ID).Find(&details).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	detailIDs := make([]uint, 0, len(details))
	for _, d := range details {
		detailIDs = append(detailIDs, d.ID)
	}
	var allocations []models.SaleAllocation
	if len(detailIDs) > 0 {
		if err := c.DB.Where("sale_detail_id IN ?", detailIDs).Find(&allocations).Error; err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Sale found",
		"data": fiber.Map{
			"header":      header,
			"details":     details,
			"allocations": allocations,
		},
	})
}
