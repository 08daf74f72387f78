package controllers

import (
	"errors"

	"pharma-app/models"
	"pharma-app/repositories"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StoreController struct {
	DB       *gorm.DB
	Sequence *repositories.SequenceRepository
}

func NewStoreController(db *gorm.DB, sequence *repositories.SequenceRepository) *StoreController {
	return &StoreController{DB: db, Sequence: sequence}
}

type storeInput struct {
	StoreName string `json:"store_name" validate:"required,min=2"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Pincode   string `json:"pincode"`
	Phone     string `json:"phone"`
	LicenseNo string `json:"license_no"`
}

func (c *StoreController) CreateStore(ctx *fiber.Ctx) error {
	var input storeInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var existing models.StoreDetails
	if err := c.DB.Where("store_name = ?", input.StoreName).First(&existing).Error; err == nil {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Store name already exists"})
	}

	code, err := c.Sequence.Next(models.SeqStore)
	if err != nil {
		return fail(ctx, err)
	}

	store := models.StoreDetails{
		StoreCode: code,
		StoreName: input.StoreName,
		Address:   input.Address,
		City:      input.City,
		Pincode:   input.Pincode,
		Phone:     input.Phone,
		LicenseNo: input.LicenseNo,
		Status:    models.StatusActive,
		CreatedBy: userIDFromCtx(ctx),
	}
	if err := c.DB.Create(&store).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Store created successfully", "data": store})
}

func (c *StoreController) GetAllStores(ctx *fiber.Ctx) error {
	var stores []models.StoreDetails
	if err := c.DB.Where("status = ?", models.StatusActive).Order("store_code ASC").Find(&stores).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Stores found", "data": stores})
}

func (c *StoreController) GetStoreByCode(ctx *fiber.Ctx) error {
	code := ctx.Params("code")

	var store models.StoreDetails
	if err := c.DB.Where("store_code = ?", code).First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Store not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Store found", "data": store})
}
