package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryCodeAndStatus(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{NewValidationError("bad input", nil), CodeValidation, http.StatusBadRequest},
		{NewUnauthorized("nope"), CodeUnauthorized, http.StatusUnauthorized},
		{NewNotFound("staff", nil), CodeNotFound, http.StatusNotFound},
		{NewNetworkError("unreachable", nil), CodeNetwork, http.StatusBadGateway},
		{NewInternalError(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		var domainErr *DomainError
		require.ErrorAs(t, tc.err, &domainErr)
		assert.Equal(t, tc.code, domainErr.Code)
		assert.Equal(t, tc.status, domainErr.HTTPStatus)
		assert.True(t, IsCode(tc.err, tc.code))
	}
}

func TestIsCodeOnWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewNetworkError("down", nil))
	assert.True(t, IsCode(wrapped, CodeNetwork))
	assert.False(t, IsCode(wrapped, CodeValidation))
	assert.False(t, IsCode(errors.New("plain"), CodeNetwork))
	assert.False(t, IsCode(nil, CodeNetwork))
}

func TestToDomainErrorWrapsUnknownErrors(t *testing.T) {
	plain := errors.New("disk full")
	domainErr := ToDomainError(plain)
	require.NotNil(t, domainErr)
	assert.Equal(t, CodeInternal, domainErr.Code)
	assert.ErrorIs(t, domainErr, plain)

	assert.Nil(t, ToDomainError(nil))
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("directory unreachable", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "directory unreachable")
	assert.Contains(t, err.Error(), "connection refused")
}
