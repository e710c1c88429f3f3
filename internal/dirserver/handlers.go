package dirserver

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-console/internal/api/dto"
	"github.com/spec-kit/admin-console/internal/directory"
	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/persistence"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// Handler exposes the directory endpoints.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

// Login handles POST /admin/auth/login.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return apperrors.NewValidationError("username and password required", nil)
	}

	result, err := h.service.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("Log in successful.", dto.LoginData{Token: result.Token, Staff: result.Staff}))
}

// Logout handles POST /admin/auth/logout.
func (h *Handler) Logout(c *fiber.Ctx) error {
	credential, ok := CredentialFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Logout(c.UserContext(), credential); err != nil {
		return err
	}
	return c.JSON(dto.OK("Logged out successfully.", nil))
}

// GetAll handles GET /admin/staff/get-all.
func (h *Handler) GetAll(c *fiber.Ctx) error {
	filter := directory.Filter{
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	if status := c.Query("status"); status != "" {
		parsed := domain.StaffStatus(status)
		if !parsed.Valid() {
			return apperrors.NewValidationError("invalid status filter", map[string]any{"status": status})
		}
		filter.Status = parsed
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	listing, err := h.service.GetAll(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("Staff fetched successfully.", dto.ListData(listing)))
}

// GetByID handles GET /admin/staff/:id.
func (h *Handler) GetByID(c *fiber.Ctx) error {
	id, err := h.parseID(c)
	if err != nil {
		return err
	}
	staff, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("Staff fetched successfully.", staff))
}

// Create handles POST /admin/staff.
func (h *Handler) Create(c *fiber.Ctx) error {
	actor, ok := PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.StaffCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return apperrors.NewValidationError("name, username, password and status required", nil)
	}

	created, err := h.service.Create(c.UserContext(), actor.ID, req.Draft())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK("Staff created successfully.", created))
}

// Update handles PUT /admin/staff/:id.
func (h *Handler) Update(c *fiber.Ctx) error {
	actor, ok := PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := h.parseID(c)
	if err != nil {
		return err
	}
	var req dto.StaffUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid staff update", nil)
	}

	updated, err := h.service.Update(c.UserContext(), actor.ID, id, req.Patch())
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("Staff updated successfully.", updated))
}

// Delete handles DELETE /admin/staff/:id.
func (h *Handler) Delete(c *fiber.Ctx) error {
	actor, ok := PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := h.parseID(c)
	if err != nil {
		return err
	}
	deleted, err := h.service.Delete(c.UserContext(), actor.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("Staff deleted successfully.", deleted))
}

func (h *Handler) parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid staff id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}

// HealthHandler responds to liveness and readiness probes for the directory.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    *persistence.Postgres
	redis       *persistence.Redis
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, postgres: postgres, redis: redis}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx := c.UserContext()

	depStatus := fiber.Map{}
	ready := true

	if err := h.postgres.Ping(ctx); err != nil {
		depStatus["postgres"] = err.Error()
		ready = false
	} else {
		depStatus["postgres"] = "ok"
	}

	if err := h.redis.Ping(ctx); err != nil {
		depStatus["redis"] = err.Error()
		ready = false
	} else {
		depStatus["redis"] = "ok"
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"status":       "unavailable",
		"dependencies": depStatus,
	})
}
