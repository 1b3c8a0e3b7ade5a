package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"go-bizman-ws/internal/model"
	"go-bizman-ws/internal/service"
)

type ShiftHandler struct {
	shifts service.ShiftService
}

func NewShiftHandler(shifts service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shifts: shifts}
}

func isMasterAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals("user_role").(string)
	return role == model.RoleMasterAdmin
}

func (h *ShiftHandler) Create(c *fiber.Ctx) error {
	var req service.CreateShiftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	shift, err := h.shifts.CreateShift(getTenant(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Shift created", "data": shift.ToResponse()})
}

func (h *ShiftHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid shift ID"})
	}

	var req service.UpdateShiftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	shift, err := h.shifts.UpdateShift(getTenant(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Shift updated", "data": shift.ToResponse()})
}

func (h *ShiftHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid shift ID"})
	}

	if err := h.shifts.DeleteShift(getTenant(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Shift deleted"})
}

func (h *ShiftHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid shift ID"})
	}

	shift, err := h.shifts.GetShiftByID(getTenant(c), id, isMasterAdmin(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": shift})
}

// GetAll lists shifts filtered by view type (daily/weekly/monthly/all).
// GET /api/v1/shifts?view=weekly&date=YYYY-MM-DD
func (h *ShiftHandler) GetAll(c *fiber.Ctx) error {
	viewType := c.Query("view", string(model.ViewTypeAll))

	referenceDate := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date, use YYYY-MM-DD"})
		}
		referenceDate = parsed
	}

	shifts, err := h.shifts.GetShifts(getTenant(c), isMasterAdmin(c), viewType, referenceDate)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": shifts})
}

func (h *ShiftHandler) GetByUser(c *fiber.Ctx) error {
	userID, err := parseUUID(c.Params("userId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	shifts, err := h.shifts.GetShiftsByUser(getTenant(c), userID, isMasterAdmin(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": shifts})
}
