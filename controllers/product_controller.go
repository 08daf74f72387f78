package controllers

import (
	"errors"

	"pharma-app/models"
	"pharma-app/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProductController struct {
	DB       *gorm.DB
	Sequence *repositories.SequenceRepository
}

func NewProductController(db *gorm.DB, sequence *repositories.SequenceRepository) *ProductController {
	return &ProductController{DB: db, Sequence: sequence}
}

var validate = validator.New()

type productInput struct {
	ProductName    string  `json:"product_name" validate:"required,min=2"`
	Composition    string  `json:"composition"`
	Category       string  `json:"category"`
	ManufacturerID uint    `json:"manufacturer_id"`
	PackageUnit    string  `json:"package_unit"`
	UnitsPerPack   int     `json:"units_per_pack"`
	HSNCode        string  `json:"hsn_code"`
	GSTPercent     float64 `json:"gst_percent"`
	Schedule       string  `json:"schedule"`
}

func (c *ProductController) CreateProduct(ctx *fiber.Ctx) error {
	var input productInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var existing models.Product
	if err := c.DB.Where("product_name = ?", input.ProductName).First(&existing).Error; err == nil {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Product name already exists"})
	}

	code, err := c.Sequence.Next(models.SeqProduct)
	if err != nil {
		return fail(ctx, err)
	}

	product := models.Product{
		ProductCode:    code,
		ProductName:    input.ProductName,
		Composition:    input.Composition,
		Category:       input.Category,
		ManufacturerID: input.ManufacturerID,
		PackageUnit:    input.PackageUnit,
		UnitsPerPack:   input.UnitsPerPack,
		HSNCode:        input.HSNCode,
		GSTPercent:     input.GSTPercent,
		Schedule:       input.Schedule,
		Status:         models.StatusActive,
		CreatedBy:      userIDFromCtx(ctx),
	}
	if product.UnitsPerPack < 1 {
		product.UnitsPerPack = 1
	}

	if err := c.DB.Create(&product).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Product created successfully", "data": product})
}

func (c *ProductController) GetAllProducts(ctx *fiber.Ctx) error {
	var products []models.Product
	if err := c.DB.Where("status = ?", models.StatusActive).Order("product_name ASC").Find(&products).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Products found", "data": products})
}

func (c *ProductController) GetProductByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var product models.Product
	if err := c.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Product found", "data": product})
}

func (c *ProductController) UpdateProduct(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input productInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	product := models.Product{
		ProductName:    input.ProductName,
		Composition:    input.Composition,
		Category:       input.Category,
		ManufacturerID: input.ManufacturerID,
		PackageUnit:    input.PackageUnit,
		UnitsPerPack:   input.UnitsPerPack,
		HSNCode:        input.HSNCode,
		GSTPercent:     input.GSTPercent,
		Schedule:       input.Schedule,
		UpdatedBy:      userIDFromCtx(ctx),
	}

	if err := c.DB.Model(&models.Product{}).Where("id = ?", id).Updates(product).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Product updated successfully", "data": product})
}

func (c *ProductController) DeleteProduct(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	res := c.DB.Model(&models.Product{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.StatusInactive,
			"deleted_by": userIDFromCtx(ctx),
		})
	if res.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Product deleted successfully"})
}
