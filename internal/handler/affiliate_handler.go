package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-bizman-ws/internal/service"
)

type AffiliateHandler struct {
	affiliates service.AffiliateService
}

func NewAffiliateHandler(affiliates service.AffiliateService) *AffiliateHandler {
	return &AffiliateHandler{affiliates: affiliates}
}

func (h *AffiliateHandler) Create(c *fiber.Ctx) error {
	var req service.AffiliateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Name == "" || req.ReferralCode == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Name and referral_code are required"})
	}

	affiliate, err := h.affiliates.Create(getTenant(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Affiliate created", "data": affiliate})
}

func (h *AffiliateHandler) GetAll(c *fiber.Ctx) error {
	affiliates, err := h.affiliates.GetAll(getTenant(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": affiliates})
}

func (h *AffiliateHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid affiliate ID"})
	}

	affiliate, err := h.affiliates.GetByID(getTenant(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": affiliate})
}

func (h *AffiliateHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid affiliate ID"})
	}

	var req service.AffiliateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	affiliate, err := h.affiliates.Update(getTenant(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Affiliate updated", "data": affiliate})
}

func (h *AffiliateHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid affiliate ID"})
	}

	if err := h.affiliates.Delete(getTenant(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Affiliate deleted"})
}

// Settle pays out the affiliate's unpaid balance.
// POST /api/v1/affiliates/:id/settle
func (h *AffiliateHandler) Settle(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid affiliate ID"})
	}

	affiliate, err := h.affiliates.Settle(getTenant(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Affiliate settled", "data": affiliate})
}
