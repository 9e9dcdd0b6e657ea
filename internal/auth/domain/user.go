package domain

import "time"

// User is one account in the user store. Username is always stored in
// normalized form (trimmed, lowercased) and is unique. CredentialRecord is
// the base64-encoded salt-plus-derived-key produced by cryptox.HashPassword;
// it is never mutated in place, a password change writes a fresh record.
type User struct {
	ID               string
	Username         string
	DisplayName      string
	CredentialRecord string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
