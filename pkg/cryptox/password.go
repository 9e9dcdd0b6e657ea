package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Parameters for PBKDF2-SHA256 password hashing. These are fixed: every
// credential record ever written uses the same iteration count and sizes, so
// the encoded form carries no parameter header.
const (
	saltLength = 16     // Length of the random salt
	keyLength  = 32     // Length of the derived key
	iterations = 100000 // PBKDF2 iteration count

	// recordLength is the exact decoded size of a credential record:
	// the salt followed by the derived key.
	recordLength = saltLength + keyLength
)

// ErrCryptoUnavailable reports that the runtime's secure random source failed.
// It is the only failure HashPassword can surface and is not retryable.
var ErrCryptoUnavailable = errors.New("cryptox: secure random source unavailable")

// HashPassword derives a storable credential record from a plaintext password.
// The record is base64(salt || derivedKey). Two calls with the same password
// produce different records because the salt is freshly generated each time.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCryptoUnavailable, err)
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)

	combined := make([]byte, 0, recordLength)
	combined = append(combined, salt...)
	combined = append(combined, key...)

	return base64.StdEncoding.EncodeToString(combined), nil
}

// VerifyPassword reports whether password matches the stored credential
// record. It fails closed: undecodable records, records of the wrong length,
// and any other internal failure all return false. No error ever escapes, so
// a caller cannot distinguish a corrupt record from a wrong password.
//
// The length check up front carries no secret-dependent information; the key
// comparison itself covers every byte regardless of where the first mismatch
// occurs.
func VerifyPassword(password, record string) bool {
	combined, err := base64.StdEncoding.DecodeString(record)
	if err != nil {
		return false
	}
	if len(combined) != recordLength {
		return false
	}

	salt := combined[:saltLength]
	storedKey := combined[saltLength:]

	key := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)

	return subtle.ConstantTimeCompare(key, storedKey) == 1
}
