package handlers

import (
	"estoquehub/internal/middleware"
	"estoquehub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the caller's products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes behind the auth gate.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	productRoutes := router.Group("/products", authRequired)
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/export", h.HandleExportProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleListProducts returns every product of the caller.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	owner, err := requireOwner(c)
	if err != nil {
		return writeError(c, err)
	}

	products, err := h.service.ListProducts(c.UserContext(), owner)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(products)
}

// HandleExportProducts returns the caller's products as a CSV attachment.
func (h *ProductHandler) HandleExportProducts(c *fiber.Ctx) error {
	owner, err := requireOwner(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.service.ExportProductsCSV(c.UserContext(), owner)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="products.csv"`)
	return c.Send(out)
}

// HandleCreateProduct creates a product owned by the caller.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	owner, err := requireOwner(c)
	if err != nil {
		return writeError(c, err)
	}
	var input services.ProductInput
	if err := parseBody(c, &input); err != nil {
		return writeError(c, err)
	}

	product, err := h.service.CreateProduct(c.UserContext(), owner, input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates one of the caller's products.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	owner, err := requireOwner(c)
	if err != nil {
		return writeError(c, err)
	}
	var input services.ProductInput
	if err := parseBody(c, &input); err != nil {
		return writeError(c, err)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), owner, c.Params("id"), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes one of the caller's products.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	owner, err := requireOwner(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.service.DeleteProduct(c.UserContext(), owner, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "product deleted",
	})
}

func requireOwner(c *fiber.Ctx) (services.Identity, error) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		return owner, services.NewAuthError("token not provided", nil)
	}
	return owner, nil
}
