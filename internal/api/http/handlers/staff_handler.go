package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-console/internal/api/dto"
	"github.com/spec-kit/admin-console/internal/directory"
	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/staffsync"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// StaffHandler exposes the staff management endpoints, backed by the
// synchronization layer so listings prefer the preloaded snapshot.
type StaffHandler struct {
	staff    *staffsync.Sync
	validate *validator.Validate
}

// NewStaffHandler constructs the handler.
func NewStaffHandler(staff *staffsync.Sync) *StaffHandler {
	return &StaffHandler{staff: staff, validate: validator.New()}
}

// GetAll handles GET /admin/staff/get-all.
func (h *StaffHandler) GetAll(c *fiber.Ctx) error {
	listing, err := h.staff.List(c.UserContext(), parseListFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("Staff fetched successfully.", dto.ListData(listing)))
}

// Search handles GET /admin/staff/search?term= — a pure filter over the
// currently-held list.
func (h *StaffHandler) Search(c *fiber.Ctx) error {
	matches, err := h.staff.Search(c.UserContext(), c.Query("term"))
	if err != nil {
		return err
	}
	if matches == nil {
		matches = []domain.Staff{}
	}
	return c.JSON(dto.OK("Staff fetched successfully.", fiber.Map{"data": matches}))
}

// GetByID handles GET /admin/staff/:id; soft-deleted records resolve too.
func (h *StaffHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	staff, err := h.staff.ResolveByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("Staff fetched successfully.", staff))
}

// Create handles POST /admin/staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var req dto.StaffCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid staff draft", validationDetails(err))
	}

	created, err := h.staff.Create(c.UserContext(), req.Draft())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK("Staff created successfully.", created))
}

// Update handles PUT /admin/staff/:id.
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.StaffUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid staff update", validationDetails(err))
	}

	updated, err := h.staff.Update(c.UserContext(), id, req.Patch())
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("Staff updated successfully.", updated))
}

// Delete handles DELETE /admin/staff/:id (soft delete).
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	deleted, err := h.staff.SoftDelete(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("Staff deleted successfully.", deleted))
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid staff id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}

func parseListFilter(c *fiber.Ctx) directory.Filter {
	filter := directory.Filter{
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	if status := c.Query("status"); status != "" {
		filter.Status = domain.StaffStatus(status)
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	return filter
}
