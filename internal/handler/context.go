package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-bizman-ws/internal/service"
	"go-bizman-ws/internal/tenant"
)

// getTenant pulls the tenant.Context the auth middleware stored. Protected
// routes always have one; the zero value only shows up in misconfigured
// route tables.
func getTenant(c *fiber.Ctx) tenant.Context {
	if tc, ok := c.Locals("tenant").(tenant.Context); ok {
		return tc
	}
	return tenant.Context{}
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// fail maps service errors to HTTP statuses: unknown-record errors become
// 404, everything else is the caller's fault.
func fail(c *fiber.Ctx, err error) error {
	status := 400
	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrCouponNotFound),
		errors.Is(err, service.ErrAffiliateNotFound),
		errors.Is(err, service.ErrShiftNotFound),
		errors.Is(err, service.ErrUserNotFound):
		status = 404
	case errors.Is(err, service.ErrShiftForbidden):
		status = 403
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
