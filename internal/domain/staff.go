package domain

import "time"

// StaffStatus enumerates account states.
type StaffStatus string

const (
	StaffStatusActive   StaffStatus = "ACTIVE"
	StaffStatusInactive StaffStatus = "INACTIVE"
)

// Valid reports whether the status is a known value.
func (s StaffStatus) Valid() bool {
	return s == StaffStatusActive || s == StaffStatusInactive
}

// Staff models an administrative user account in the directory.
// Password is write-only: it is accepted on create and never returned
// populated by read operations. Deleted records are tombstones, kept for
// audit lookups but excluded from listings.
type Staff struct {
	ID               int64       `json:"id"`
	Name             string      `json:"name"`
	Username         string      `json:"username"`
	Password         string      `json:"password,omitempty"`
	Status           StaffStatus `json:"status"`
	Locked           bool        `json:"is_locked"`
	Deleted          bool        `json:"is_deleted"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
	CreatedByStaffID *int64      `json:"created_by_staff_id,omitempty"`
	UpdatedByStaffID *int64      `json:"updated_by_staff_id,omitempty"`
}

// Sanitized returns a copy safe to return to callers.
func (s Staff) Sanitized() Staff {
	s.Password = ""
	return s
}
