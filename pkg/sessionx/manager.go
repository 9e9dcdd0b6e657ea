package sessionx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/abdurmasood/rafeyxmunisah/pkg/cryptox"
)

// User is the identity a session is issued for.
type User struct {
	ID          string
	Username    string
	DisplayName string
}

// Manager issues and validates sessions against an injected slot. The zero
// clock means time.Now; tests override Now to probe the expiry boundary.
type Manager struct {
	Slot   Store
	Logger *slog.Logger

	// Now is the clock used for issuing and expiry checks. Defaults to
	// time.Now when nil.
	Now func() time.Time
}

func NewManager(slot Store, logger *slog.Logger) *Manager {
	return &Manager{Slot: slot, Logger: logger}
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Manager) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

// Issue creates a session for user, expiring TTL from now, and persists it to
// the slot (overwriting any previous session). Persistence is best-effort: a
// failed write is logged and the in-memory session is still returned, so the
// caller keeps a working session for the current process lifetime.
func (m *Manager) Issue(user User) (Session, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return Session{}, err
	}

	session := Session{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Token:       token,
		ExpiresAt:   m.now().Add(TTL).UnixMilli(),
	}

	if err := m.persist(session); err != nil {
		m.logger().Warn("failed to persist session, continuing with in-memory session", "error", err)
	}

	return session, nil
}

func (m *Manager) persist(session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return m.Slot.Set(string(data))
}

// Current returns the persisted session if one exists and is still valid.
// An empty slot returns absent; an undecodable blob is cleared and returns
// absent; an expired session is cleared and returns absent (no renewal).
func (m *Manager) Current() (Session, bool) {
	raw, err := m.Slot.Get()
	if err != nil {
		if !errors.Is(err, ErrEmptySlot) {
			m.logger().Warn("failed to read session slot", "error", err)
		}
		return Session{}, false
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		m.logger().Warn("clearing corrupt session slot", "error", err)
		m.Clear()
		return Session{}, false
	}

	if session.Expired(m.now()) {
		m.Clear()
		return Session{}, false
	}

	return session, true
}

// Clear empties the slot immediately. Used on logout and when a session is
// found expired or unresolvable; there is no grace period.
func (m *Manager) Clear() {
	if err := m.Slot.Clear(); err != nil {
		m.logger().Warn("failed to clear session slot", "error", err)
	}
}
