package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdesk/taskdesk/internal/entities"
)

type authResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    entities.User `json:"user"`
}

func TestAuthFlow_RegisterAndUseToken(t *testing.T) {
	ts := setupTestServer(t)

	rr := ts.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"name":     "Self Registered",
		"email":    "self@example.com",
		"password": "p1",
		"phone":    "555-0110",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp authResponse
	decodeJSON(t, rr, &resp)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, entities.UserRoleStaff, resp.User.Role)

	// The returned token grants access immediately
	list := ts.do(t, http.MethodGet, "/api/tasks", resp.Token, nil)
	assert.Equal(t, http.StatusOK, list.Code)

	// Staff token cannot reach admin-only endpoints
	usersList := ts.do(t, http.MethodGet, "/api/users", resp.Token, nil)
	assert.Equal(t, http.StatusForbidden, usersList.Code)
}

func TestAuthFlow_RegisterDuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)

	rr := ts.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"name":     "Clone",
		"email":    ts.staff.Email,
		"password": "p1",
		"phone":    "555-0111",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAuthFlow_Login(t *testing.T) {
	ts := setupTestServer(t)

	rr := ts.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    ts.staff.Email,
		"password": "staff-password",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp authResponse
	decodeJSON(t, rr, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, ts.staff.ID, resp.User.ID)
}

func TestAuthFlow_LoginFailuresAreIndistinguishable(t *testing.T) {
	ts := setupTestServer(t)

	wrongPassword := ts.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    ts.staff.Email,
		"password": "not-the-password",
	})
	unknownEmail := ts.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "nobody@example.com",
		"password": "staff-password",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// Body must not reveal whether the email exists
	assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestAuthFlow_LoginDeactivatedAccount(t *testing.T) {
	ts := setupTestServer(t)

	_, err := ts.users.UpdateUser(ts.staff.ID, map[string]any{
		"status": entities.UserStatusInactive,
	})
	require.NoError(t, err)

	rr := ts.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    ts.staff.Email,
		"password": "staff-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "account is deactivated", body["message"])
}

func TestAuthFlow_LoginMissingFields(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing password", body: map[string]any{"email": "x@example.com"}},
		{name: "missing email", body: map[string]any{"password": "secret"}},
		{name: "empty body", body: map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.do(t, http.MethodPost, "/auth/login", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}
