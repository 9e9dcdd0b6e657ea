package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/abdurmasood/rafeyxmunisah/internal/auth/domain"
	"github.com/abdurmasood/rafeyxmunisah/internal/auth/store"
	"github.com/abdurmasood/rafeyxmunisah/pkg/cryptox"
	"github.com/abdurmasood/rafeyxmunisah/pkg/idx"
)

// MinPasswordLength is the minimum accepted password length at provisioning
// and password-change time. Verification has no length policy; whatever was
// provisioned can log in.
const MinPasswordLength = 6

var (
	ErrUsernameTaken    = errors.New("username already taken")
	ErrUsernameEmpty    = errors.New("username must not be empty")
	ErrDisplayNameEmpty = errors.New("display name must not be empty")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// UserService handles account provisioning and lookups.
type UserService struct {
	Store store.Store
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// ListUsers returns all users, oldest first.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// ProvisionUser creates an account with a freshly hashed credential record.
// The username is normalized before storage so lookups for " Alice " and
// "alice" resolve to the same record.
func (s *UserService) ProvisionUser(ctx context.Context, username, displayName, password string) (domain.User, error) {
	name := NormalizeUsername(username)
	if name == "" {
		return domain.User{}, ErrUsernameEmpty
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, ErrPasswordTooShort
	}
	if displayName == "" {
		displayName = name
	}

	record, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user := domain.User{
		ID:               idx.New().String(),
		Username:         name,
		DisplayName:      displayName,
		CredentialRecord: record,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, err
	}

	return user, nil
}

// ChangePassword writes a brand-new credential record with a fresh salt.
// The previous record is discarded wholesale; records are never edited.
func (s *UserService) ChangePassword(ctx context.Context, userID, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	record, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	// The existence check and the write share a transaction so callers get
	// ErrNotFound rather than a silent no-op on a vanished account.
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByID(ctx, userID); err != nil {
			return err
		}
		return tx.Users().UpdateCredentialRecord(ctx, userID, record)
	})
}

// UpdateDisplayName renames the account's display name; the username and
// credentials are untouched.
func (s *UserService) UpdateDisplayName(ctx context.Context, userID, displayName string) (domain.User, error) {
	if displayName == "" {
		return domain.User{}, ErrDisplayNameEmpty
	}

	var user domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdateDisplayName(ctx, userID, displayName); err != nil {
			return err
		}

		var err error
		user, err = tx.Users().GetUserByID(ctx, userID)
		return err
	})
	return user, err
}

// DeleteUser removes the account. Sessions already issued for it keep their
// client-held record but stop resolving, which clients treat as logged out.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	return s.Store.Users().DeleteUser(ctx, userID)
}
