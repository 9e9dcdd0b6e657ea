package service

import (
	"context"
	"errors"
	"strings"

	"github.com/abdurmasood/rafeyxmunisah/internal/auth/domain"
	"github.com/abdurmasood/rafeyxmunisah/internal/auth/store"
	"github.com/abdurmasood/rafeyxmunisah/pkg/cryptox"
	"github.com/abdurmasood/rafeyxmunisah/pkg/slogx"
)

// ErrInvalidCredentials covers both an unknown username and a wrong password.
// The two cases are deliberately indistinguishable to callers so login
// responses cannot be used to enumerate usernames.
var ErrInvalidCredentials = errors.New("invalid username or password")

// LoginService authenticates username/password pairs against the user store.
type LoginService struct {
	Store store.Store
}

// NormalizeUsername applies the canonical form used for storage and lookup:
// trimmed and lowercased.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Login verifies the password attempt for username and returns the matching
// user. The username is normalized before lookup. An unknown username and a
// failed verification both return ErrInvalidCredentials; a corrupt stored
// credential record also surfaces as ErrInvalidCredentials because the
// verifier fails closed. Verification runs to completion even for doomed
// attempts; there is no early exit once the derivation starts.
func (s *LoginService) Login(ctx context.Context, username, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	name := NormalizeUsername(username)
	if name == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("login failed", "reason", "unknown_username")
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if !cryptox.VerifyPassword(password, user.CredentialRecord) {
		log.Info("login failed", "reason", "verification_failed", "user_id", user.ID)
		return domain.User{}, ErrInvalidCredentials
	}

	log.Info("login succeeded", "user_id", user.ID)
	return user, nil
}
