package authsdk

// ============================================================================
// Error Response Types
// ============================================================================

// ErrorResponse is the JSON body of every non-validation error.
type ErrorResponse struct {
	// Error is the error code (e.g., "invalid_request", "invalid_invite")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ValidationErrorResponse is returned when request validation fails.
type ValidationErrorResponse struct {
	// Code is always "validation_error"
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details maps field names to their validation error
	Details map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Invite Types
// ============================================================================

// InviteRequest is the body of POST /admin/invite.
type InviteRequest struct {
	// Email is the address the invite is bound to
	Email string `json:"email"`
}

// InviteResponse carries the link to send to the invitee. The raw token is
// the "token" query parameter of the link and is only ever returned here.
type InviteResponse struct {
	InviteLink string `json:"invite_link"`
}

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`

	// Token is the invite token from the invite link
	Token string `json:"token"`
}

// SignupResponse is returned with 201 Created.
type SignupResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

// ============================================================================
// Session Types
// ============================================================================

// LoginRequest holds the form fields of POST /login. Username is the
// account email.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by POST /login.
type TokenResponse struct {
	// AccessToken is the signed JWT to send as "Authorization: Bearer <token>"
	AccessToken string `json:"access_token"`

	// TokenType is always "bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int `json:"expires_in"`
}

// UserResponse is returned by GET /me.
type UserResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// MessageResponse is a plain informational body, used by GET /.
type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`
}
