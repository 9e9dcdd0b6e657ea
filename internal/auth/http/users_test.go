package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abdurmasood/rafeyxmunisah/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func postProvision(t *testing.T, router *Router, token string, req authsdk.ProvisionRequest) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewReader(data))
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("X-Provision-Token", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httpReq)
	return rec
}

func TestUsers_ListEmpty(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp authsdk.UsersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Users)
	require.Empty(t, resp.Users)
}

func TestUsers_ListOrderedByCreation(t *testing.T) {
	router, st := newTestRouter(t)
	provision(t, st, "alice", "Alice", "password1")
	provision(t, st, "bob", "Bob", "password2")

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp authsdk.UsersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Users, 2)
	require.Equal(t, "alice", resp.Users[0].Username)
	require.Equal(t, "bob", resp.Users[1].Username)

	// Listing must never leak credential records.
	require.NotContains(t, rec.Body.String(), "credential")
}

func TestUsers_GetByID(t *testing.T) {
	router, st := newTestRouter(t)
	provision(t, st, "alice", "Alice", "password1")

	listReq := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, listReq)

	var list authsdk.UsersResponse
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &list))
	require.Len(t, list.Users, 1)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/"+list.Users[0].ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp authsdk.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "alice", resp.User.Username)
	require.Equal(t, "Alice", resp.User.DisplayName)
}

func TestUsers_GetUnknownID(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/01J0000000000000000000NOPE", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp authsdk.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "not_found", resp.Error)
}

func TestProvision_Success(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postProvision(t, router, testProvisionToken, authsdk.ProvisionRequest{
		Username:    "Carol",
		DisplayName: "Carol C",
		Password:    "password1",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp authsdk.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "carol", resp.User.Username)
	require.Equal(t, "Carol C", resp.User.DisplayName)
	require.NotEmpty(t, resp.User.ID)
}

func TestProvision_TokenGuard(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"wrong token", "not-the-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postProvision(t, router, tt.token, authsdk.ProvisionRequest{
				Username: "mallory",
				Password: "password1",
			})
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestProvision_DisabledWithoutToken(t *testing.T) {
	router, st := newTestRouter(t)

	// An empty configured token disables provisioning entirely; even knowing
	// "empty" is not a way in.
	disabled := NewRouter("test", "", st, router.logger)
	disabled.LoginService = router.LoginService
	disabled.UserService = router.UserService
	disabled.ApplyRoutes()

	rec := postProvision(t, disabled, "", authsdk.ProvisionRequest{
		Username: "mallory",
		Password: "password1",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProvision_PolicyViolations(t *testing.T) {
	router, st := newTestRouter(t)
	provision(t, st, "alice", "Alice", "password1")

	tests := []struct {
		name string
		req  authsdk.ProvisionRequest
		want int
	}{
		{"short password", authsdk.ProvisionRequest{Username: "dave", Password: "short"}, http.StatusBadRequest},
		{"empty username", authsdk.ProvisionRequest{Password: "password1"}, http.StatusBadRequest},
		{"duplicate username", authsdk.ProvisionRequest{Username: "ALICE", Password: "password1"}, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postProvision(t, router, testProvisionToken, tt.req)
			require.Equal(t, tt.want, rec.Code)
		})
	}
}

// TestProvisionThenLogin walks the full account lifecycle over HTTP:
// provision an account, log in with the right password in a different
// case, and confirm a wrong password is rejected with the generic message.
func TestProvisionThenLogin(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postProvision(t, router, testProvisionToken, authsdk.ProvisionRequest{
		Username: "Alice",
		Password: "correct-horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	login := postJSON(t, router, "/v1/auth/login", authsdk.LoginRequest{
		Username: "alice",
		Password: "correct-horse",
	})
	require.Equal(t, http.StatusOK, login.Code)

	var ok authsdk.LoginResponse
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &ok))
	require.True(t, ok.Success)
	require.Equal(t, "alice", ok.User.Username)

	bad := postJSON(t, router, "/v1/auth/login", authsdk.LoginRequest{
		Username: "alice",
		Password: "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, bad.Code)
	require.JSONEq(t, `{"success":false,"error":"Invalid username or password"}`, bad.Body.String())
}

func createUser(t *testing.T, router *Router, username string) authsdk.UserInfo {
	t.Helper()

	rec := postProvision(t, router, testProvisionToken, authsdk.ProvisionRequest{
		Username: username,
		Password: "password1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp authsdk.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.User
}

func sendJSON(t *testing.T, router *Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Provision-Token", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUsers_UpdateDisplayName(t *testing.T) {
	router, _ := newTestRouter(t)
	user := createUser(t, router, "alice")

	rec := sendJSON(t, router, http.MethodPatch, "/v1/users/"+user.ID, testProvisionToken,
		authsdk.UpdateUserRequest{DisplayName: "Alice Prime"})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp authsdk.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Alice Prime", resp.User.DisplayName)
	require.Equal(t, "alice", resp.User.Username)
}

func TestUsers_UpdateGuardsAndErrors(t *testing.T) {
	router, _ := newTestRouter(t)
	user := createUser(t, router, "alice")

	// Wrong token.
	rec := sendJSON(t, router, http.MethodPatch, "/v1/users/"+user.ID, "nope",
		authsdk.UpdateUserRequest{DisplayName: "X"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Empty display name.
	rec = sendJSON(t, router, http.MethodPatch, "/v1/users/"+user.ID, testProvisionToken,
		authsdk.UpdateUserRequest{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown account.
	rec = sendJSON(t, router, http.MethodPatch, "/v1/users/no-such-id", testProvisionToken,
		authsdk.UpdateUserRequest{DisplayName: "X"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsers_Delete(t *testing.T) {
	router, _ := newTestRouter(t)
	user := createUser(t, router, "alice")

	// Wrong token first; the account must survive.
	rec := sendJSON(t, router, http.MethodDelete, "/v1/users/"+user.ID, "nope", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = sendJSON(t, router, http.MethodDelete, "/v1/users/"+user.ID, testProvisionToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The id no longer resolves, so held sessions for it die on lookup.
	req := httptest.NewRequest(http.MethodGet, "/v1/users/"+user.ID, nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, req)
	require.Equal(t, http.StatusNotFound, getRec.Code)

	rec = sendJSON(t, router, http.MethodDelete, "/v1/users/"+user.ID, testProvisionToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
