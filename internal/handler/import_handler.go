package handler

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"go-bizman-ws/internal/importer"
	"go-bizman-ws/internal/service"
)

type ImportHandler struct {
	imports service.ImportService
}

func NewImportHandler(imports service.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// PreviewFile stages an uploaded spreadsheet without writing anything.
// POST /api/v1/import/preview/file  (multipart: file, entity)
func (h *ImportHandler) PreviewFile(c *fiber.Ctx) error {
	entity := c.FormValue("entity")
	if entity == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Entity is required (products or customers)"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "File is required"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Cannot open uploaded file"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Cannot read uploaded file"})
	}

	preview, err := h.imports.PreviewFile(getTenant(c), fileHeader.Filename, data, entity)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": preview})
}

type PreviewLinkRequest struct {
	Link   string `json:"link"`
	Entity string `json:"entity"`
}

// PreviewLink stages a shared spreadsheet link without writing anything.
// POST /api/v1/import/preview/link
func (h *ImportHandler) PreviewLink(c *fiber.Ctx) error {
	var req PreviewLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Link == "" || req.Entity == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Link and entity are required"})
	}

	preview, err := h.imports.PreviewLink(c.Context(), getTenant(c), req.Link, req.Entity)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": preview})
}

// Commit writes a previously staged preview in chunked transactions.
// POST /api/v1/import/commit
func (h *ImportHandler) Commit(c *fiber.Ctx) error {
	var preview importer.Preview
	if err := c.BodyParser(&preview); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if preview.Entity == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Entity is required"})
	}

	result, err := h.imports.Commit(getTenant(c), &preview)
	if err != nil {
		// Partial progress is reported alongside the failure.
		return c.Status(400).JSON(fiber.Map{"error": err.Error(), "data": result})
	}
	return c.JSON(fiber.Map{"message": "Import committed", "data": result})
}
