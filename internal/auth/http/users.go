package http

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abdurmasood/rafeyxmunisah/internal/auth/domain"
	"github.com/abdurmasood/rafeyxmunisah/internal/auth/service"
	"github.com/abdurmasood/rafeyxmunisah/internal/auth/store"
	"github.com/abdurmasood/rafeyxmunisah/pkg/authsdk"
	"github.com/abdurmasood/rafeyxmunisah/pkg/httpx"
	"github.com/abdurmasood/rafeyxmunisah/pkg/slogx"
)

type UsersHandler struct {
	UserService *service.UserService

	// ProvisionToken guards account creation. Empty disables provisioning
	// over HTTP entirely.
	ProvisionToken string
}

// HandleList returns all accounts without credential records, oldest first.
// The login page uses this for its user picker.
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		log.Error("failed to list users", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, authsdk.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to fetch users",
		})
		return
	}

	resp := authsdk.UsersResponse{Users: make([]authsdk.UserInfo, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, toUserInfo(u))
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet resolves a user id to a live account. Clients use this to check
// that a persisted session still refers to an existing user; a 404 means the
// session should be discarded.
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	user, err := h.UserService.GetUserByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, authsdk.ErrorResponse{
				Error: "not_found",
			})
			return
		}

		log.Error("failed to fetch user", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, authsdk.ErrorResponse{
			Error: "server_error",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserResponse{User: toUserInfo(user)})
}

// checkProvisionToken enforces the X-Provision-Token guard shared by all
// account management endpoints. It writes the error response itself and
// reports whether the request may proceed.
func (h *UsersHandler) checkProvisionToken(w http.ResponseWriter, r *http.Request) bool {
	if h.ProvisionToken == "" {
		httpx.WriteJSON(w, http.StatusNotFound, authsdk.ErrorResponse{
			Error:            "not_found",
			ErrorDescription: "Provisioning is not enabled",
		})
		return false
	}

	token := r.Header.Get("X-Provision-Token")
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.ProvisionToken)) != 1 {
		httpx.WriteJSON(w, http.StatusUnauthorized, authsdk.ErrorResponse{
			Error:            "unauthorized",
			ErrorDescription: "Invalid provision token",
		})
		return false
	}

	return true
}

// HandleCreate provisions a new account. Requires the pre-shared provision
// token in the X-Provision-Token header.
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	if !h.checkProvisionToken(w, r) {
		return
	}

	var req authsdk.ProvisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Request body must be valid JSON",
		})
		return
	}

	user, err := h.UserService.ProvisionUser(r.Context(), req.Username, req.DisplayName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameEmpty),
			errors.Is(err, service.ErrPasswordTooShort):
			httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: err.Error(),
			})
		case errors.Is(err, service.ErrUsernameTaken):
			httpx.WriteJSON(w, http.StatusConflict, authsdk.ErrorResponse{
				Error:            "conflict",
				ErrorDescription: "Username already taken",
			})
		default:
			log.Error("failed to provision user", "error", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, authsdk.ErrorResponse{
				Error: "server_error",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.UserResponse{User: toUserInfo(user)})
}

// HandleUpdate changes an account's display name. Guarded by the same
// provision token as creation.
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	if !h.checkProvisionToken(w, r) {
		return
	}

	var req authsdk.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Request body must be valid JSON",
		})
		return
	}

	user, err := h.UserService.UpdateDisplayName(r.Context(), r.PathValue("id"), req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDisplayNameEmpty):
			httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: err.Error(),
			})
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, authsdk.ErrorResponse{
				Error: "not_found",
			})
		default:
			log.Error("failed to update user", "error", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, authsdk.ErrorResponse{
				Error: "server_error",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserResponse{User: toUserInfo(user)})
}

// HandleDelete removes an account. Any session already issued for it keeps
// its client-held record but stops resolving via GET /users/{id}, which
// clients treat as logged out.
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	if !h.checkProvisionToken(w, r) {
		return
	}

	if err := h.UserService.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, authsdk.ErrorResponse{
				Error: "not_found",
			})
			return
		}

		log.Error("failed to delete user", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, authsdk.ErrorResponse{
			Error: "server_error",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toUserInfo(u domain.User) authsdk.UserInfo {
	return authsdk.UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
	}
}
