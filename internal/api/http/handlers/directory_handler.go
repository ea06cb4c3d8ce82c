package handlers

import (
	"sort"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/directory"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// DirectoryHandler serves the routing directory and its admin operations.
type DirectoryHandler struct {
	dir         *directory.Directory
	departments repository.DepartmentRepository
	docPath     string
	logger      *zap.Logger
}

// NewDirectoryHandler constructs handler. docPath may be empty when the
// seed directory is in use; Reload then rejects requests.
func NewDirectoryHandler(dir *directory.Directory, departments repository.DepartmentRepository, docPath string, logger *zap.Logger) *DirectoryHandler {
	return &DirectoryHandler{dir: dir, departments: departments, docPath: docPath, logger: logger}
}

// Get GET /directory returns the active routing directory.
func (h *DirectoryHandler) Get(c *fiber.Ctx) error {
	ids := h.dir.Departments()
	sort.Strings(ids)

	resp := dto.DirectoryResponse{
		Version:            h.dir.Version(),
		FallbackDepartment: h.dir.Fallback(),
		Departments:        make([]dto.DirectoryDepartmentResponse, 0, len(ids)),
	}
	for _, id := range ids {
		entry := dto.DirectoryDepartmentResponse{
			ID:         id,
			Name:       h.dir.NameOf(id),
			Categories: h.dir.CategoriesOf(id),
			Floors:     h.dir.FloorsOf(id),
		}
		sort.Strings(entry.Categories)
		sort.Strings(entry.Floors)
		if head, ok := h.dir.HeadOf(id); ok {
			entry.HeadUserID = head
		}
		resp.Departments = append(resp.Departments, entry)
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Reload POST /admin/directory/reload re-reads the directory document and
// syncs department rows. A document that fails validation leaves the
// previous tables serving.
func (h *DirectoryHandler) Reload(c *fiber.Ctx) error {
	if h.docPath == "" {
		return apperrors.NewValidationError("no directory document configured", nil)
	}
	doc, err := directory.ReadDocument(h.docPath)
	if err != nil {
		return apperrors.NewValidationError("directory document unreadable", map[string]any{"error": err.Error()})
	}
	if err := h.dir.Reload(doc); err != nil {
		return apperrors.NewValidationError("directory document invalid", map[string]any{"error": err.Error()})
	}
	h.logger.Info("routing directory reloaded", zap.String("version", doc.Version))

	if err := h.syncDepartments(c, doc); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"version":     h.dir.Version(),
		"departments": len(doc.Departments),
	}})
}

// ListDepartments GET /departments returns the persisted department rows.
func (h *DirectoryHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.departments.ListActive(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for _, dept := range departments {
		items = append(items, dto.DepartmentResponse{
			ID:         dept.ID,
			Name:       dept.Name,
			HeadUserID: dept.HeadUserID,
			IsActive:   dept.IsActive,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *DirectoryHandler) syncDepartments(c *fiber.Ctx, doc directory.Document) error {
	if h.departments == nil {
		return nil
	}
	for _, entry := range doc.Departments {
		dept := &domain.Department{
			ID:       entry.ID,
			Name:     entry.Name,
			IsActive: true,
		}
		if err := h.departments.Upsert(c.Context(), dept); err != nil {
			return apperrors.MapError(err)
		}
		if entry.HeadUserID != "" {
			head := entry.HeadUserID
			if err := h.departments.SetHead(c.Context(), entry.ID, &head); err != nil {
				return apperrors.MapError(err)
			}
		}
	}
	return nil
}
