package events

import (
	"time"

	"github.com/spec-kit/admin-console/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStaffCreated EventType = "staff_created"
	EventStaffUpdated EventType = "staff_updated"
	EventStaffDeleted EventType = "staff_deleted"
	EventStaffLogin   EventType = "staff_login"
	EventStaffLogout  EventType = "staff_logout"
)

// Event represents a directory audit event emitted by the service.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	StaffID   int64       `json:"staff_id"`
	ActorID   *int64      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// StaffMutationPayload captures what changed on a staff account.
type StaffMutationPayload struct {
	Username string             `json:"username"`
	Status   domain.StaffStatus `json:"status"`
	Deleted  bool               `json:"deleted"`
}
