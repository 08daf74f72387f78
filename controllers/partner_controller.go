package controllers

import (
	"errors"

	"pharma-app/models"
	"pharma-app/repositories"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PartnerController manages the two trading-partner registers:
// manufacturers (who make the products) and distributors (who invoice
// the purchases).
type PartnerController struct {
	DB       *gorm.DB
	Sequence *repositories.SequenceRepository
}

func NewPartnerController(db *gorm.DB, sequence *repositories.SequenceRepository) *PartnerController {
	return &PartnerController{DB: db, Sequence: sequence}
}

type manufacturerInput struct {
	ManufacturerName string `json:"manufacturer_name" validate:"required,min=2"`
	Address          string `json:"address"`
	Phone            string `json:"phone"`
}

func (c *PartnerController) CreateManufacturer(ctx *fiber.Ctx) error {
	var input manufacturerInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var existing models.Manufacturer
	if err := c.DB.Where("manufacturer_name = ?", input.ManufacturerName).First(&existing).Error; err == nil {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Manufacturer name already exists"})
	}

	code, err := c.Sequence.Next(models.SeqManufacturer)
	if err != nil {
		return fail(ctx, err)
	}

	manufacturer := models.Manufacturer{
		ManufacturerCode: code,
		ManufacturerName: input.ManufacturerName,
		Address:          input.Address,
		Phone:            input.Phone,
		Status:           models.StatusActive,
		CreatedBy:        userIDFromCtx(ctx),
	}
	if err := c.DB.Create(&manufacturer).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Manufacturer created successfully", "data": manufacturer})
}

func (c *PartnerController) GetAllManufacturers(ctx *fiber.Ctx) error {
	var manufacturers []models.Manufacturer
	if err := c.DB.Where("status = ?", models.StatusActive).Order("manufacturer_name ASC").Find(&manufacturers).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Manufacturers found", "data": manufacturers})
}

func (c *PartnerController) GetManufacturerByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var manufacturer models.Manufacturer
	if err := c.DB.First(&manufacturer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Manufacturer not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Manufacturer found", "data": manufacturer})
}

type distributorInput struct {
	DistributorName string `json:"distributor_name" validate:"required,min=2"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	GSTNumber       string `json:"gst_number"`
}

func (c *PartnerController) CreateDistributor(ctx *fiber.Ctx) error {
	var input distributorInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var existing models.Distributor
	if err := c.DB.Where("distributor_name = ?", input.DistributorName).First(&existing).Error; err == nil {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Distributor name already exists"})
	}

	code, err := c.Sequence.Next(models.SeqDistributor)
	if err != nil {
		return fail(ctx, err)
	}

	distributor := models.Distributor{
		DistributorCode: code,
		DistributorName: input.DistributorName,
		Address:         input.Address,
		Phone:           input.Phone,
		GSTNumber:       input.GSTNumber,
		Status:          models.StatusActive,
		CreatedBy:       userIDFromCtx(ctx),
	}
	if err := c.DB.Create(&distributor).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Distributor created successfully", "data": distributor})
}

func (c *PartnerController) GetAllDistributors(ctx *fiber.Ctx) error {
	var distributors []models.Distributor
	if err := c.DB.Where("status = ?", models.StatusActive).Order("distributor_name ASC").Find(&distributors).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Distributors found", "data": distributors})
}

func (c *PartnerController) GetDistributorByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var distributor models.Distributor
	if err := c.DB.First(&distributor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Distributor not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Distributor found", "data": distributor})
}
