package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/admin-console/internal/auth"
	"github.com/spec-kit/admin-console/internal/domain"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// Remote speaks to the authoritative staff directory service. Every call
// except Login presents the caller's credential from the request context as
// a bearer token; the service performs the real authorization.
type Remote struct {
	baseURL string
	client  *http.Client
}

// NewRemote builds a client for the directory service at baseURL.
func NewRemote(baseURL string, timeout time.Duration) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// envelope is the uniform response shape of the directory service.
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *string         `json:"error"`
}

type listingPayload struct {
	TotalCount  int            `json:"totalCount"`
	TotalPage   int            `json:"totalPage"`
	CurrentPage int            `json:"currentPage"`
	Data        []domain.Staff `json:"data"`
}

type loginPayload struct {
	Token string       `json:"token"`
	Staff domain.Staff `json:"staff"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token.
func (r *Remote) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	env, err := r.do(ctx, http.MethodPost, "/admin/auth/login", nil, loginRequest{Username: username, Password: password}, false)
	if err != nil {
		return nil, err
	}
	var payload loginPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, apperrors.NewNetworkError("malformed login response", err)
	}
	return &LoginResult{Token: payload.Token, Staff: payload.Staff}, nil
}

// Logout invalidates the presented token server-side.
func (r *Remote) Logout(ctx context.Context) error {
	_, err := r.do(ctx, http.MethodPost, "/admin/auth/logout", nil, nil, true)
	return err
}

// GetAll fetches a staff listing page.
func (r *Remote) GetAll(ctx context.Context, filter Filter) (*Listing, error) {
	query := url.Values{}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.SortBy != "" {
		query.Set("sortBy", filter.SortBy)
	}
	if filter.SortOrder != "" {
		query.Set("sortOrder", filter.SortOrder)
	}

	env, err := r.do(ctx, http.MethodGet, "/admin/staff/get-all", query, nil, true)
	if err != nil {
		return nil, err
	}
	var payload listingPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, apperrors.NewNetworkError("malformed listing response", err)
	}
	return &Listing{
		Items:       payload.Data,
		TotalCount:  payload.TotalCount,
		TotalPages:  payload.TotalPage,
		CurrentPage: payload.CurrentPage,
	}, nil
}

// GetByID resolves a single record, tombstones included.
func (r *Remote) GetByID(ctx context.Context, id int64) (*domain.Staff, error) {
	env, err := r.do(ctx, http.MethodGet, fmt.Sprintf("/admin/staff/%d", id), nil, nil, true)
	if err != nil {
		return nil, err
	}
	return decodeStaff(env.Data)
}

// Create adds a staff account.
func (r *Remote) Create(ctx context.Context, draft CreateDraft) (*domain.Staff, error) {
	body := map[string]any{
		"name":     draft.Name,
		"username": draft.Username,
		"password": draft.Password,
		"status":   draft.Status,
	}
	env, err := r.do(ctx, http.MethodPost, "/admin/staff", nil, body, true)
	if err != nil {
		return nil, err
	}
	return decodeStaff(env.Data)
}

// Update applies a partial update.
func (r *Remote) Update(ctx context.Context, id int64, patch UpdatePatch) (*domain.Staff, error) {
	body := map[string]any{}
	if patch.Name != nil {
		body["name"] = *patch.Name
	}
	if patch.Username != nil {
		body["username"] = *patch.Username
	}
	if patch.Password != nil {
		body["password"] = *patch.Password
	}
	if patch.Status != nil {
		body["status"] = *patch.Status
	}
	env, err := r.do(ctx, http.MethodPut, fmt.Sprintf("/admin/staff/%d", id), nil, body, true)
	if err != nil {
		return nil, err
	}
	return decodeStaff(env.Data)
}

// Delete soft-deletes a record and returns the tombstone.
func (r *Remote) Delete(ctx context.Context, id int64) (*domain.Staff, error) {
	env, err := r.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/staff/%d", id), nil, nil, true)
	if err != nil {
		return nil, err
	}
	return decodeStaff(env.Data)
}

func decodeStaff(data json.RawMessage) (*domain.Staff, error) {
	var staff domain.Staff
	if err := json.Unmarshal(data, &staff); err != nil {
		return nil, apperrors.NewNetworkError("malformed staff response", err)
	}
	return &staff, nil
}

func (r *Remote) do(ctx context.Context, method, path string, query url.Values, body any, authenticated bool) (*envelope, error) {
	endpoint := r.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		credential, ok := auth.CredentialFrom(ctx)
		if !ok {
			return nil, apperrors.NewUnauthorized("no credential for directory call")
		}
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("staff directory unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewNetworkError("reading directory response", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, apperrors.NewNetworkError("malformed directory response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, env.Message)
	}
	return &env, nil
}

// statusError maps the directory's HTTP status to the console taxonomy,
// carrying the remote message through as the user-facing error.
func statusError(status int, message string) error {
	if message == "" {
		message = http.StatusText(status)
	}
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return apperrors.NewValidationError(message, nil)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.NewUnauthorized(message)
	case status == http.StatusNotFound:
		return apperrors.NewNotFound("staff", map[string]any{"message": message})
	default:
		return apperrors.NewNetworkError(message, nil)
	}
}
