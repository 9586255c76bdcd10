package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SDKClient is a client for the invitegate service. It provides the public
// operations and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// ValidateRequests runs the request Validate methods before sending, so
	// obviously bad input never reaches the server. Disable it in tests that
	// exercise server-side validation.
	// Default: true
	ValidateRequests bool
}

// NewSDKClient creates a new client with request validation enabled.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		ValidateRequests: true,
	}
}

// Banner fetches the service banner from GET /.
func (c *SDKClient) Banner(ctx context.Context) (*MessageResponse, error) {
	var msg MessageResponse
	if err := c.do(ctx, call{Method: http.MethodGet, Path: "/", Want: http.StatusOK}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Signup redeems an invite token and creates an account.
func (c *SDKClient) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	if c.ValidateRequests {
		if verr := NewValidationError(req.Validate()); verr != nil {
			return nil, verr
		}
	}

	var out SignupResponse
	err := c.do(ctx, call{Method: http.MethodPost, Path: "/signup", JSON: req, Want: http.StatusCreated}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges email and password for an access token. The server reads
// them as the form fields username and password.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	form := url.Values{"username": {email}, "password": {password}}

	var tok TokenResponse
	err := c.do(ctx, call{Method: http.MethodPost, Path: "/login", Form: form, Want: http.StatusOK}, &tok)
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

// AuthenticateWithPassword logs in and wraps the token in a Session.
func (c *SDKClient) AuthenticateWithPassword(ctx context.Context, email, password string) (*Session, error) {
	tok, err := c.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return newSession(c, tok), nil
}

// NewSessionFromToken creates a session from an access token obtained
// elsewhere. expiresIn is in seconds; zero means unknown.
func (c *SDKClient) NewSessionFromToken(accessToken string, expiresIn int) *Session {
	return newSession(c, &TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   expiresIn,
	})
}
