package acl

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/user-sync-service/internal/adapters/clients"
	"github.com/jsamuelsen/user-sync-service/internal/domain"
)

func response(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body))}
}

func TestMapHTTPError(t *testing.T) {
	op := Operation{Service: "gorest", Name: "fetch user", Entity: "user", EntityID: "123"}

	tests := []struct {
		name     string
		resp     *http.Response
		err      error
		class    func(error) bool
		contains string
	}{
		{
			name:     "404 is not found",
			resp:     response(http.StatusNotFound, `{"message":"Resource not found"}`),
			class:    domain.IsNotFound,
			contains: `user with id "123" not found`,
		},
		{
			name:     "409 is conflict",
			resp:     response(http.StatusConflict, `{"message":"email already exists"}`),
			class:    domain.IsConflict,
			contains: "email already exists",
		},
		{
			name:     "400 without fields keeps the message",
			resp:     response(http.StatusBadRequest, `{"message":"bad page"}`),
			class:    domain.IsValidation,
			contains: "bad page",
		},
		{
			name:     "401 means the token was rejected",
			resp:     response(http.StatusUnauthorized, `{"message":"Authentication failed"}`),
			class:    domain.IsUnavailable,
			contains: "credentials rejected: Authentication failed",
		},
		{
			name:     "403 without body",
			resp:     response(http.StatusForbidden, ``),
			class:    domain.IsUnavailable,
			contains: "authentication failed",
		},
		{
			name:     "429 is rate limited",
			resp:     response(http.StatusTooManyRequests, `{}`),
			class:    domain.IsUnavailable,
			contains: "rate limit exceeded",
		},
		{
			name:     "5xx without message names the operation",
			resp:     response(http.StatusBadGateway, ``),
			class:    domain.IsUnavailable,
			contains: "fetch user failed with status 502",
		},
		{
			name:     "open circuit",
			err:      clients.ErrCircuitOpen,
			class:    domain.IsUnavailable,
			contains: "circuit breaker open during fetch user",
		},
		{
			name:     "transport failure",
			err:      clients.ErrRequestFailed,
			class:    domain.IsUnavailable,
			contains: "fetch user failed: request failed",
		},
		{
			name:     "no response",
			class:    domain.IsUnavailable,
			contains: "no response received",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapHTTPError(tt.resp, tt.err, op)

			require.Error(t, err)
			assert.True(t, tt.class(err), "unexpected class for %v", err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestMapHTTPError_2xxIsNil(t *testing.T) {
	assert.NoError(t, MapHTTPError(response(http.StatusOK, `{}`), nil, Operation{}))
}

func TestMapHTTPError_422KeepsFieldOrder(t *testing.T) {
	resp := response(http.StatusUnprocessableEntity, `[
		{"field":"email","message":"has already been taken"},
		{"field":"gender","message":"can't be blank, can be male of female"}
	]`)

	err := MapHTTPError(resp, nil, Operation{Service: "gorest", Entity: "user"})

	var fieldErrs domain.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, []string{"email", "gender"}, fieldErrs.Fields())
}

func TestParseErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		body       io.Reader
		wantMsg    string
		wantFields int
	}{
		{"object form", strings.NewReader(`{"message":"Resource not found"}`), "Resource not found", 0},
		{"array form", strings.NewReader(`[{"field":"name","message":"can't be blank"}]`), "", 1},
		{"broken array", strings.NewReader(`[{"field":`), "", 0},
		{"invalid json", strings.NewReader(`not json`), "", 0},
		{"empty body", strings.NewReader(``), "", 0},
		{"nil body", nil, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, fields := ParseErrorResponse(tt.body)

			assert.Equal(t, tt.wantMsg, msg)
			assert.Len(t, fields, tt.wantFields)
		})
	}
}
