package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/invitegate/internal/auth/domain"
	"github.com/aussiebroadwan/invitegate/internal/auth/store"
	"github.com/aussiebroadwan/invitegate/pkg/cryptox"
	"github.com/aussiebroadwan/invitegate/pkg/jwtx"
	"github.com/aussiebroadwan/invitegate/pkg/slogx"
)

// SessionService authenticates users and resolves bearer tokens back to
// users. It must not be copied after first use.
type SessionService struct {
	Store  store.Store
	Hasher cryptox.PasswordHasher
	Codec  *jwtx.Codec

	// TokenTTL is the access token lifetime; zero means jwtx.DefaultAccessTokenTTL.
	TokenTTL time.Duration

	dummyOnce sync.Once
	dummyHash string
}

func (s *SessionService) ttl() time.Duration {
	if s.TokenTTL <= 0 {
		return jwtx.DefaultAccessTokenTTL
	}
	return s.TokenTTL
}

// burnVerify spends the same hashing work as a real check so that unknown
// emails and wrong passwords take comparable time.
func (s *SessionService) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		h, err := s.Hasher.Hash("invitegate-timing-equaliser")
		if err == nil {
			s.dummyHash = h
		}
	})
	_ = s.Hasher.Verify(password, s.dummyHash)
}

// Login checks email and password and issues an access token. Unknown
// emails, accounts without a password and wrong passwords are
// indistinguishable to the caller.
func (s *SessionService) Login(ctx context.Context, email, password string) (domain.AccessToken, error) {
	log := slogx.FromContext(ctx)

	// 1. Look up the user
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to fetch user for login", slog.Any("error", err))
		return domain.AccessToken{}, err
	}

	// 2. Verify the password, or burn the same time if we cannot
	if err != nil || !user.HasPassword() {
		s.burnVerify(password)
		log.Warn("login failed", slog.String("reason", "unknown_user"))
		return domain.AccessToken{}, ErrInvalidCredentials
	}
	if !s.Hasher.Verify(password, user.PasswordHash) {
		log.Warn("login failed", slog.String("reason", "bad_password"), slog.Int64("user_id", user.ID))
		return domain.AccessToken{}, ErrInvalidCredentials
	}

	// 3. Issue the token
	ttl := s.ttl()
	token, err := s.Codec.Encode(user.Email, user.ID, user.Role.String(), ttl)
	if err != nil {
		log.Error("failed to sign access token", slog.Any("error", err))
		return domain.AccessToken{}, err
	}

	log.Info("login succeeded", slog.Int64("user_id", user.ID))
	return domain.AccessToken{
		Token:     token,
		TokenType: domain.TokenTypeBearer,
		ExpiresIn: ttl,
	}, nil
}

// ResolveIdentity decodes token and re-reads the user it names. Role and
// status come from the store, never from the token.
func (s *SessionService) ResolveIdentity(ctx context.Context, token string) (domain.User, error) {
	claims, err := s.Codec.Decode(token)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// RequireRole passes user through if it holds role.
func RequireRole(user domain.User, role domain.Role) (domain.User, error) {
	if user.Role != role {
		return domain.User{}, ErrForbidden
	}
	return user, nil
}
