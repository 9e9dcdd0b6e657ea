package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abdurmasood/rafeyxmunisah/internal/auth/service"
	"github.com/abdurmasood/rafeyxmunisah/pkg/authsdk"
	"github.com/abdurmasood/rafeyxmunisah/pkg/httpx"
	"github.com/abdurmasood/rafeyxmunisah/pkg/slogx"
)

// Failure messages are fixed strings. Unknown username, wrong password, and
// a corrupt stored record all produce msgInvalidCredentials so the response
// body never reveals which one happened.
const (
	msgInvalidCredentials = "Invalid username or password"
	msgMissingFields      = "Username and password are required"
	msgServerError        = "Authentication failed"
)

type LoginHandler struct {
	LoginService *service.LoginService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req authsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.LoginResponse{
			Success: false,
			Error:   msgMissingFields,
		})
		return
	}

	if req.Username == "" || req.Password == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.LoginResponse{
			Success: false,
			Error:   msgMissingFields,
		})
		return
	}

	user, err := h.LoginService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteJSON(w, http.StatusUnauthorized, authsdk.LoginResponse{
				Success: false,
				Error:   msgInvalidCredentials,
			})
			return
		}

		log.Error("login failed with internal error", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, authsdk.LoginResponse{
			Success: false,
			Error:   msgServerError,
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		Success: true,
		User: &authsdk.UserInfo{
			ID:          user.ID,
			Username:    user.Username,
			DisplayName: user.DisplayName,
		},
	})
}
