package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/admin-console/internal/auth"
	"github.com/spec-kit/admin-console/internal/domain"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

func writeEnvelope(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": message,
		"data":    data,
	})
}

func TestRemoteLoginParsesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/admin/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "mock", body["username"])
		require.Equal(t, "mockpass", body["password"])

		writeEnvelope(w, http.StatusOK, "Log in successful.", map[string]any{
			"token": "issued-token",
			"staff": map[string]any{"id": 1, "username": "mock", "name": "Admin User"},
		})
	}))
	defer server.Close()

	remote := NewRemote(server.URL, time.Second)
	result, err := remote.Login(context.Background(), "mock", "mockpass")
	require.NoError(t, err)
	assert.Equal(t, "issued-token", result.Token)
	assert.Equal(t, int64(1), result.Staff.ID)
	assert.Equal(t, "mock", result.Staff.Username)
}

func TestRemoteLoginMapsUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, "Invalid username or password", nil)
	}))
	defer server.Close()

	remote := NewRemote(server.URL, time.Second)
	_, err := remote.Login(context.Background(), "mock", "wrong")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "Invalid username or password")
}

func TestRemoteUnreachableIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	remote := NewRemote(server.URL, time.Second)
	_, err := remote.Login(context.Background(), "mock", "mockpass")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNetwork))
}

func TestRemoteGetAllSendsBearerAndQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/staff/get-all", r.URL.Path)
		require.Equal(t, "Bearer the-credential", r.Header.Get("Authorization"))

		query := r.URL.Query()
		require.Equal(t, "2", query.Get("page"))
		require.Equal(t, "5", query.Get("limit"))
		require.Equal(t, "adm", query.Get("search"))
		require.Equal(t, "ACTIVE", query.Get("status"))

		writeEnvelope(w, http.StatusOK, "Staff fetched successfully.", map[string]any{
			"totalCount":  11,
			"totalPage":   3,
			"currentPage": 2,
			"data": []map[string]any{
				{"id": 6, "username": "six", "name": "Number Six", "status": "ACTIVE"},
			},
		})
	}))
	defer server.Close()

	remote := NewRemote(server.URL, time.Second)
	ctx := auth.WithCredential(context.Background(), "the-credential")
	listing, err := remote.GetAll(ctx, Filter{
		Page: 2, Limit: 5, Search: "adm", Status: domain.StaffStatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, 11, listing.TotalCount)
	assert.Equal(t, 3, listing.TotalPages)
	assert.Equal(t, 2, listing.CurrentPage)
	require.Len(t, listing.Items, 1)
	assert.Equal(t, "six", listing.Items[0].Username)
}

func TestRemoteAuthenticatedCallWithoutCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))
	defer server.Close()

	remote := NewRemote(server.URL, time.Second)
	_, err := remote.GetAll(context.Background(), Filter{})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestRemoteStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		code   string
	}{
		{http.StatusBadRequest, apperrors.CodeValidation},
		{http.StatusUnprocessableEntity, apperrors.CodeValidation},
		{http.StatusUnauthorized, apperrors.CodeUnauthorized},
		{http.StatusForbidden, apperrors.CodeUnauthorized},
		{http.StatusNotFound, apperrors.CodeNotFound},
		{http.StatusInternalServerError, apperrors.CodeNetwork},
	}

	for _, tc := range cases {
		status := tc.status
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, status, "boom", nil)
		}))

		remote := NewRemote(server.URL, time.Second)
		ctx := auth.WithCredential(context.Background(), "cred")
		_, err := remote.GetByID(ctx, 1)
		require.Error(t, err, "status %d", status)
		assert.True(t, apperrors.IsCode(err, tc.code), "status %d should map to %s, got %v", status, tc.code, err)
		server.Close()
	}
}

func TestRemoteCreateAndUpdateBodies(t *testing.T) {
	var createBody, updateBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&createBody))
			writeEnvelope(w, http.StatusCreated, "Staff created successfully.", map[string]any{
				"id": 9, "username": "fresh", "name": "Fresh Hire", "status": "ACTIVE",
			})
		case http.MethodPut:
			require.Equal(t, "/admin/staff/9", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&updateBody))
			writeEnvelope(w, http.StatusOK, "Staff updated successfully.", map[string]any{
				"id": 9, "username": "fresh", "name": "Fresher Hire", "status": "ACTIVE",
			})
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	remote := NewRemote(server.URL, time.Second)
	ctx := auth.WithCredential(context.Background(), "cred")

	created, err := remote.Create(ctx, CreateDraft{
		Name: "Fresh Hire", Username: "fresh", Password: "pw", Status: domain.StaffStatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), created.ID)
	assert.Equal(t, "Fresh Hire", createBody["name"])
	assert.Equal(t, "pw", createBody["password"])

	name := "Fresher Hire"
	updated, err := remote.Update(ctx, 9, UpdatePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Fresher Hire", updated.Name)
	assert.Equal(t, "Fresher Hire", updateBody["name"])
	assert.NotContains(t, updateBody, "password", "omitted patch fields must not be sent")
}

func TestRemoteDeleteReturnsTombstone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/admin/staff/4", r.URL.Path)
		writeEnvelope(w, http.StatusOK, "Staff deleted successfully.", map[string]any{
			"id": 4, "username": "inactive", "name": "Inactive Staff", "status": "INACTIVE", "is_deleted": true,
		})
	}))
	defer server.Close()

	remote := NewRemote(server.URL, time.Second)
	ctx := auth.WithCredential(context.Background(), "cred")
	deleted, err := remote.Delete(ctx, 4)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)
}

func TestRemoteMalformedBodyIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	remote := NewRemote(server.URL, time.Second)
	_, err := remote.Login(context.Background(), "mock", "mockpass")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNetwork))
}
