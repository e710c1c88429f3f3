package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-console/internal/config"
	"github.com/spec-kit/admin-console/internal/staffsync"
)

// HealthHandler responds to liveness and readiness probes for the console.
type HealthHandler struct {
	serviceName string
	version     string
	mode        config.DirectoryMode
	staff       *staffsync.Sync
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, mode config.DirectoryMode, staff *staffsync.Sync) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, mode: mode, staff: staff}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports directory mode and snapshot state. The console has no hard
// dependencies of its own; remote availability shows up as snapshot errors.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	snap := h.staff.Snapshot()
	state := fiber.Map{
		"directory_mode":   string(h.mode),
		"snapshot_loaded":  snap.IsLoaded,
		"snapshot_loading": snap.IsLoading,
		"snapshot_count":   len(snap.Staff),
	}
	if snap.Err != nil {
		state["snapshot_error"] = snap.Err.Error()
	}
	if !snap.LastFetchedAt.IsZero() {
		state["last_fetched_at"] = snap.LastFetchedAt
	}
	return c.JSON(fiber.Map{
		"status":    "ready",
		"directory": state,
	})
}
