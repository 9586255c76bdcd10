package authsdk

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
)

// ErrSessionExpired is returned before a request is sent with a token that
// is known to have expired. There are no refresh tokens; log in again.
var ErrSessionExpired = errors.New("authsdk: access token expired")

// Session holds an access token and performs authenticated requests.
// Sessions are safe for concurrent use.
type Session struct {
	client *SDKClient

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time // zero when unknown
}

func newSession(client *SDKClient, tok *TokenResponse) *Session {
	s := &Session{
		client:      client,
		accessToken: tok.AccessToken,
	}
	if tok.ExpiresIn > 0 {
		s.expiresAt = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	return s
}

// AccessToken returns the current access token.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// ExpiresAt reports when the token expires, or the zero time if unknown.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

func (s *Session) token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.expiresAt.IsZero() && !time.Now().Before(s.expiresAt) {
		return "", ErrSessionExpired
	}
	return s.accessToken, nil
}

// Me returns the authenticated user's profile from GET /me.
func (s *Session) Me(ctx context.Context) (*UserResponse, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}

	var user UserResponse
	err = s.client.do(ctx, call{Method: http.MethodGet, Path: "/me", Bearer: token, Want: http.StatusOK}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// IssueInvite creates or reissues an invite for email. Admin only.
func (s *Session) IssueInvite(ctx context.Context, req InviteRequest) (*InviteResponse, error) {
	if s.client.ValidateRequests {
		if verr := NewValidationError(req.Validate()); verr != nil {
			return nil, verr
		}
	}

	token, err := s.token()
	if err != nil {
		return nil, err
	}

	var out InviteResponse
	err = s.client.do(ctx, call{
		Method: http.MethodPost,
		Path:   "/admin/invite",
		JSON:   req,
		Bearer: token,
		Want:   http.StatusOK,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
