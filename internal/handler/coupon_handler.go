package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"go-bizman-ws/internal/service"
)

type CouponHandler struct {
	coupons service.CouponService
}

func NewCouponHandler(coupons service.CouponService) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

func (h *CouponHandler) Create(c *fiber.Ctx) error {
	var req service.CouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Code == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Code is required"})
	}

	coupon, err := h.coupons.Create(getTenant(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Coupon created", "data": coupon})
}

func (h *CouponHandler) GetAll(c *fiber.Ctx) error {
	coupons, err := h.coupons.GetAll(getTenant(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": coupons})
}

func (h *CouponHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid coupon ID"})
	}

	var req service.CouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	coupon, err := h.coupons.Update(getTenant(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Coupon updated", "data": coupon})
}

func (h *CouponHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid coupon ID"})
	}

	if err := h.coupons.Delete(getTenant(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Coupon deleted"})
}

// Check prices a coupon against a subtotal without consuming a use.
// GET /api/v1/coupons/check?code=...&sub_total=...
func (h *CouponHandler) Check(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Code is required"})
	}
	subTotal, err := decimal.NewFromString(c.Query("sub_total", "0"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sub_total"})
	}

	coupon, discount, err := h.coupons.Check(getTenant(c), code, subTotal)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"coupon": coupon, "discount": discount}})
}
