package authsdk

// LoginRequest is the credentials payload for POST /v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned for every login attempt. On failure Error holds
// a single generic message; unknown-username and wrong-password responses
// are byte-for-byte identical.
type LoginResponse struct {
	Success bool      `json:"success"`
	User    *UserInfo `json:"user,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// UserInfo is the public view of an account. It never carries the
// credential record.
type UserInfo struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// LogoutResponse acknowledges a logout. The session itself is client-held,
// so the server has nothing to revoke.
type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UsersResponse wraps the user listing.
type UsersResponse struct {
	Users []UserInfo `json:"users"`
}

// UserResponse wraps a single user lookup.
type UserResponse struct {
	User UserInfo `json:"user"`
}

// ProvisionRequest creates a new account via POST /v1/users.
type ProvisionRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// UpdateUserRequest changes account details via PATCH /v1/users/{id}.
type UpdateUserRequest struct {
	DisplayName string `json:"display_name"`
}

// ErrorResponse is the generic error envelope for non-login endpoints.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// HealthChecks reports the state of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the livez/readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
