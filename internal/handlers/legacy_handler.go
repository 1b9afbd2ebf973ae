package handlers

import (
	"time"

	"estoquehub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// legacyProductInput is the /produtos request body. preco is accepted and ignored.
type legacyProductInput struct {
	Nome          string      `json:"nome"`
	SKU           string      `json:"sku"`
	Quantidade    interface{} `json:"quantidade"`
	EstoqueMinimo interface{} `json:"estoque_minimo"`
	Categoria     string      `json:"categoria"`
	Preco         interface{} `json:"preco"`
}

func (in legacyProductInput) toProductInput() services.ProductInput {
	return services.ProductInput{
		Name:        in.Nome,
		SKU:         in.SKU,
		Quantity:    in.Quantidade,
		MinQuantity: in.EstoqueMinimo,
		Category:    in.Categoria,
	}
}

type legacyProduct struct {
	ID            uint      `json:"id"`
	Nome          string    `json:"nome"`
	SKU           string    `json:"sku"`
	Quantidade    int       `json:"quantidade"`
	EstoqueMinimo int       `json:"estoque_minimo"`
	Categoria     *string   `json:"categoria"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toLegacyProduct(p services.ProductResponse) legacyProduct {
	return legacyProduct{
		ID:            p.ID,
		Nome:          p.Name,
		SKU:           p.SKU,
		Quantidade:    p.Quantity,
		EstoqueMinimo: p.MinQuantity,
		Categoria:     p.Category,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.LastUpdated,
	}
}

// LegacyHandler serves the deprecated /produtos and /tarefas routes.
// /produtos is a field-renaming adapter over the canonical product service.
type LegacyHandler struct {
	products *services.ProductService
	tasks    *services.TaskService
}

func NewLegacyHandler(products *services.ProductService, tasks *services.TaskService) *LegacyHandler {
	return &LegacyHandler{products: products, tasks: tasks}
}

// RegisterRoutes registers /produtos behind the auth gate and the public /tarefas route.
func (h *LegacyHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	produtos := router.Group("/produtos", deprecated, authRequired)
	produtos.Get("/", h.HandleListProdutos)
	produtos.Post("/", h.HandleCreateProduto)
	produtos.Put("/:id", h.HandleUpdateProduto)
	produtos.Delete("/:id", h.HandleDeleteProduto)

	router.Post("/tarefas", deprecated, h.HandleCreateTarefa)
}

func deprecated(c *fiber.Ctx) error {
	c.Set("Deprecation", "true")
	return c.Next()
}

func (h *LegacyHandler) HandleListProdutos(c *fiber.Ctx) error {
	owner, err := requireOwner(c)
	if err != nil {
		return writeLegacyError(c, err)
	}

	products, err := h.products.ListProducts(c.UserContext(), owner)
	if err != nil {
		return writeLegacyError(c, err)
	}
	out := make([]legacyProduct, 0, len(products))
	for _, p := range products {
		out = append(out, toLegacyProduct(p))
	}
	return c.JSON(out)
}

func (h *LegacyHandler) HandleCreateProduto(c *fiber.Ctx) error {
	owner, err := requireOwner(c)
	if err != nil {
		return writeLegacyError(c, err)
	}
	var input legacyProductInput
	if err := parseBody(c, &input); err != nil {
		return writeLegacyError(c, err)
	}

	product, err := h.products.CreateProduct(c.UserContext(), owner, input.toProductInput())
	if err != nil {
		return writeLegacyError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLegacyProduct(*product))
}

func (h *LegacyHandler) HandleUpdateProduto(c *fiber.Ctx) error {
	owner, err := requireOwner(c)
	if err != nil {
		return writeLegacyError(c, err)
	}
	var input legacyProductInput
	if err := parseBody(c, &input); err != nil {
		return writeLegacyError(c, err)
	}

	product, err := h.products.UpdateProduct(c.UserContext(), owner, c.Params("id"), input.toProductInput())
	if err != nil {
		return writeLegacyError(c, err)
	}
	return c.JSON(toLegacyProduct(*product))
}

func (h *LegacyHandler) HandleDeleteProduto(c *fiber.Ctx) error {
	owner, err := requireOwner(c)
	if err != nil {
		return writeLegacyError(c, err)
	}

	if err := h.products.DeleteProduct(c.UserContext(), owner, c.Params("id")); err != nil {
		return writeLegacyError(c, err)
	}
	return c.JSON(fiber.Map{"message": "product deleted"})
}

// HandleCreateTarefa stores a legacy task. It responds with a one-element array.
func (h *LegacyHandler) HandleCreateTarefa(c *fiber.Ctx) error {
	var input services.TaskInput
	if err := parseBody(c, &input); err != nil {
		return writeLegacyError(c, err)
	}

	task, err := h.tasks.CreateTask(c.UserContext(), input)
	if err != nil {
		return writeLegacyError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON([]interface{}{task})
}
