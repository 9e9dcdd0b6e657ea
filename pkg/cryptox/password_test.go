package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, record)

			// A record decodes to exactly salt || derived key.
			decoded, err := base64.StdEncoding.DecodeString(record)
			require.NoError(t, err)
			require.Len(t, decoded, recordLength)
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	password := "samepassword"

	record1, err := HashPassword(password)
	require.NoError(t, err)

	record2, err := HashPassword(password)
	require.NoError(t, err)

	record3, err := HashPassword(password)
	require.NoError(t, err)

	// Each record should differ due to unique salts.
	require.NotEqual(t, record1, record2)
	require.NotEqual(t, record2, record3)
	require.NotEqual(t, record1, record3)

	// But all should verify the same password.
	require.True(t, VerifyPassword(password, record1))
	require.True(t, VerifyPassword(password, record2))
	require.True(t, VerifyPassword(password, record3))
}

func TestVerifyPassword_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.True(t, VerifyPassword(tt.password, record))
		})
	}
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	record, err := HashPassword("correct-password")
	require.NoError(t, err)

	tests := []struct {
		name          string
		wrongPassword string
	}{
		{"completely wrong", "wrong-password"},
		{"case difference", "Correct-Password"},
		{"extra space", "correct-password "},
		{"empty password", ""},
		{"truncated", "correct-passwor"},
		{"very long", strings.Repeat("x", 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.False(t, VerifyPassword(tt.wrongPassword, record))
		})
	}
}

func TestVerifyPassword_MalformedRecord(t *testing.T) {
	tests := []struct {
		name   string
		record string
	}{
		{"empty record", ""},
		{"not base64", "not-valid-base64!!"},
		{"whitespace", "   "},
		{"valid base64 wrong length short", base64.StdEncoding.EncodeToString([]byte("short"))},
		{"valid base64 off by one", base64.StdEncoding.EncodeToString(make([]byte, recordLength-1))},
		{"valid base64 too long", base64.StdEncoding.EncodeToString(make([]byte, recordLength+1))},
		{"url-safe alphabet", "----____----____----____----____----____----____----____----____"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Must return false, never panic or leak an error.
			require.NotPanics(t, func() {
				require.False(t, VerifyPassword("anyPassword", tt.record))
			})
		})
	}
}

func TestVerifyPassword_WrongLengthRandomRecord(t *testing.T) {
	buf := make([]byte, 10)
	_, err := rand.Read(buf)
	require.NoError(t, err)

	require.False(t, VerifyPassword("password", base64.StdEncoding.EncodeToString(buf)))
}

func TestVerifyPassword_TamperedRecord(t *testing.T) {
	password := "correct-horse"
	record, err := HashPassword(password)
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(record)
	require.NoError(t, err)

	// Flip one bit in the stored key; verification must fail.
	decoded[len(decoded)-1] ^= 0x01
	tampered := base64.StdEncoding.EncodeToString(decoded)
	require.False(t, VerifyPassword(password, tampered))

	// Flip one bit in the salt; verification must also fail.
	decoded[len(decoded)-1] ^= 0x01
	decoded[0] ^= 0x01
	tampered = base64.StdEncoding.EncodeToString(decoded)
	require.False(t, VerifyPassword(password, tampered))
}

func TestPasswordWorkflow_EndToEnd(t *testing.T) {
	// 1. User sets a password at provisioning time.
	userPassword := "MySecurePassword123!"

	// 2. Hash the password for storage.
	record, err := HashPassword(userPassword)
	require.NoError(t, err)

	// 3. Later, verify the password during login.
	require.True(t, VerifyPassword(userPassword, record))

	// 4. Wrong password should fail.
	require.False(t, VerifyPassword("WrongPassword", record))

	// 5. A password change produces a brand-new record that still verifies.
	newPassword := "EvenMoreSecure456!"
	newRecord, err := HashPassword(newPassword)
	require.NoError(t, err)
	require.NotEqual(t, record, newRecord)
	require.True(t, VerifyPassword(newPassword, newRecord))
	require.False(t, VerifyPassword(userPassword, newRecord))
}
