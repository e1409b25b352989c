package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/mealplanner/internal/models"
	"github.com/foxxcyber/mealplanner/internal/services"
)

// ExportData returns a full snapshot of all domain data as a downloadable
// JSON document
func (h *Handler) ExportData(c *fiber.Ctx) error {
	doc, err := h.exporter.ExportAll(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to export data")
	}

	filename := fmt.Sprintf("mealplanner-export-%s.json", doc.ExportedAt.Format("2006-01-02"))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))

	return c.JSON(doc)
}

type importRequest struct {
	Data    json.RawMessage             `json:"data"`
	Options models.ImportOptionsRequest `json:"options"`
}

// ImportData imports a previously exported document. Per-record failures are
// reported in the result; only a transaction-level failure rolls the whole
// import back.
func (h *Handler) ImportData(c *fiber.Ctx) error {
	var req importRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if len(req.Data) == 0 {
		return Error(c, fiber.StatusBadRequest, "data is required")
	}

	doc, err := services.DecodeDocument(req.Data)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "data is not a JSON object")
	}

	result, err := h.importer.Import(c.Context(), doc, req.Options.Resolve())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(APIResponse{
			Success: false,
			Error:   "import failed",
			Data:    result,
		})
	}

	return Success(c, result)
}

// PreviewImport summarizes what an import would do without writing anything
func (h *Handler) PreviewImport(c *fiber.Ctx) error {
	var req importRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if len(req.Data) == 0 {
		return Error(c, fiber.StatusBadRequest, "data is required")
	}

	doc, err := services.DecodeDocument(req.Data)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "data is not a JSON object")
	}

	return Success(c, h.importer.Preview(doc))
}

// ArchiveExport snapshots all data and uploads it to S3 storage
func (h *Handler) ArchiveExport(c *fiber.Ctx) error {
	if h.archive == nil {
		return Error(c, fiber.StatusServiceUnavailable, "export archiving is not configured")
	}

	doc, err := h.exporter.ExportAll(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to export data")
	}

	key, err := h.archive.StoreExport(c.Context(), doc)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to store export archive")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data: fiber.Map{
			"key":      key,
			"metadata": doc.Metadata,
		},
	})
}

// ListExportArchives lists stored export archives, newest first
func (h *Handler) ListExportArchives(c *fiber.Ctx) error {
	if h.archive == nil {
		return Error(c, fiber.StatusServiceUnavailable, "export archiving is not configured")
	}

	archives, err := h.archive.ListExports(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list export archives")
	}

	return Success(c, archives)
}

// GetArchiveDownloadURL returns a time-limited download link for an archive
func (h *Handler) GetArchiveDownloadURL(c *fiber.Ctx) error {
	if h.archive == nil {
		return Error(c, fiber.StatusServiceUnavailable, "export archiving is not configured")
	}

	key := c.Query("key")
	if key == "" {
		return Error(c, fiber.StatusBadRequest, "key is required")
	}

	url, err := h.archive.GetPresignedURL(c.Context(), key, 15*time.Minute)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to generate download URL")
	}

	return Success(c, fiber.Map{"url": url})
}

// ImportFromArchive restores data from a stored export archive
func (h *Handler) ImportFromArchive(c *fiber.Ctx) error {
	if h.archive == nil {
		return Error(c, fiber.StatusServiceUnavailable, "export archiving is not configured")
	}

	var req struct {
		Key     string                      `json:"key"`
		Options models.ImportOptionsRequest `json:"options"`
	}
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Key == "" {
		return Error(c, fiber.StatusBadRequest, "key is required")
	}

	obj, err := h.archive.FetchExport(c.Context(), req.Key)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to fetch export archive")
	}
	defer obj.Close()

	raw, err := io.ReadAll(obj)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read export archive")
	}

	doc, err := services.DecodeDocument(raw)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "archive is not a JSON object")
	}

	result, err := h.importer.Import(c.Context(), doc, req.Options.Resolve())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(APIResponse{
			Success: false,
			Error:   "import failed",
			Data:    result,
		})
	}

	return Success(c, result)
}

// DeleteExportArchive deletes a stored export archive
func (h *Handler) DeleteExportArchive(c *fiber.Ctx) error {
	if h.archive == nil {
		return Error(c, fiber.StatusServiceUnavailable, "export archiving is not configured")
	}

	key := c.Query("key")
	if key == "" {
		return Error(c, fiber.StatusBadRequest, "key is required")
	}

	if err := h.archive.Delete(c.Context(), key); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to delete export archive")
	}

	return Success(c, fiber.Map{"deleted": true})
}
