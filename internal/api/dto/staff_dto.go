package dto

import (
	"github.com/spec-kit/admin-console/internal/directory"
	"github.com/spec-kit/admin-console/internal/domain"
)

// StaffCreateRequest payload for creating a staff account.
type StaffCreateRequest struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Status   string `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

// Draft converts the request into a directory draft.
func (r StaffCreateRequest) Draft() directory.CreateDraft {
	return directory.CreateDraft{
		Name:     r.Name,
		Username: r.Username,
		Password: r.Password,
		Status:   domain.StaffStatus(r.Status),
	}
}

// StaffUpdateRequest is a partial update; absent fields stay untouched.
type StaffUpdateRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Username *string `json:"username,omitempty" validate:"omitempty,min=1"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=1"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// Patch converts the request into a directory patch.
func (r StaffUpdateRequest) Patch() directory.UpdatePatch {
	patch := directory.UpdatePatch{
		Name:     r.Name,
		Username: r.Username,
		Password: r.Password,
	}
	if r.Status != nil {
		status := domain.StaffStatus(*r.Status)
		patch.Status = &status
	}
	return patch
}

// StaffListData is the listing payload inside the envelope.
type StaffListData struct {
	TotalCount  int            `json:"totalCount"`
	TotalPage   int            `json:"totalPage"`
	CurrentPage int            `json:"currentPage"`
	Data        []domain.Staff `json:"data"`
}

// ListData converts a directory listing into the wire shape.
func ListData(listing *directory.Listing) StaffListData {
	items := listing.Items
	if items == nil {
		items = []domain.Staff{}
	}
	return StaffListData{
		TotalCount:  listing.TotalCount,
		TotalPage:   listing.TotalPages,
		CurrentPage: listing.CurrentPage,
		Data:        items,
	}
}
