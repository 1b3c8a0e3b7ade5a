package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"go-bizman-ws/internal/service"
)

type ProductHandler struct {
	products service.ProductService
	stock    service.StockService
}

func NewProductHandler(products service.ProductService, stock service.StockService) *ProductHandler {
	return &ProductHandler{products: products, stock: stock}
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Name is required"})
	}

	product, err := h.products.Create(getTenant(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *ProductHandler) GetAll(c *fiber.Ctx) error {
	products, err := h.products.GetAll(getTenant(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": products})
}

func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.products.GetByID(getTenant(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": product})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.products.Update(getTenant(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.products.Delete(getTenant(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

type LinkRequest struct {
	TargetID string `json:"target_id"`
}

// Link makes the product sell against another product's stock counter.
// POST /api/v1/products/:id/link
func (h *ProductHandler) Link(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req LinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	targetID, err := parseUUID(req.TargetID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid target ID"})
	}

	product, err := h.products.Link(getTenant(c), id, targetID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product linked", "data": product})
}

// Unlink restores the product's own stock counter.
// POST /api/v1/products/:id/unlink
func (h *ProductHandler) Unlink(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.products.Unlink(getTenant(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product unlinked", "data": product})
}

// Master reports which record owns the product's stock counter.
// GET /api/v1/products/:id/master
func (h *ProductHandler) Master(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	master, err := h.products.MasterOf(getTenant(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": master})
}

// InitStock records opening stock.
// POST /api/v1/stock/init
func (h *ProductHandler) InitStock(c *fiber.Ctx) error {
	var req service.StockAdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	entry, err := h.stock.Init(getTenant(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stock initialized", "data": entry})
}

// AuditStock corrects the counter to a counted value.
// POST /api/v1/stock/audit
func (h *ProductHandler) AuditStock(c *fiber.Ctx) error {
	var req service.StockAdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	entry, err := h.stock.Audit(getTenant(c), &req)
	if err != nil {
		return fail(c, err)
	}
	if entry == nil {
		return c.JSON(fiber.Map{"message": "Stock already matches the counted value"})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stock audited", "data": entry})
}

// TransferStock moves quantity between two counters.
// POST /api/v1/stock/transfer
func (h *ProductHandler) TransferStock(c *fiber.Ctx) error {
	var req service.StockTransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.stock.Transfer(getTenant(c), &req); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock transferred"})
}

// StockHistory returns the ledger entries for a product's master counter.
// GET /api/v1/stock/history/:id
func (h *ProductHandler) StockHistory(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	logs, err := h.stock.History(getTenant(c), id, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": logs})
}
