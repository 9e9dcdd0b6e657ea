package http

import (
	"net/http"

	"github.com/abdurmasood/rafeyxmunisah/pkg/authsdk"
	"github.com/abdurmasood/rafeyxmunisah/pkg/httpx"
)

// LogoutHandler acknowledges a logout. The session record is held and
// cleared client-side; there is no server-side state to revoke.
func LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.LogoutResponse{
			Success: true,
			Message: "Logged out successfully",
		})
	}
}
