package sessionx

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testUser = User{
	ID:          "01J0000000000000000000USER",
	Username:    "alice",
	DisplayName: "Alice",
}

func TestIssue(t *testing.T) {
	slot := &MemStore{}
	m := NewManager(slot, nil)

	before := time.Now()
	session, err := m.Issue(testUser)
	require.NoError(t, err)

	require.Equal(t, testUser.ID, session.UserID)
	require.Equal(t, "alice", session.Username)
	require.Equal(t, "Alice", session.DisplayName)
	require.NotEmpty(t, session.Token)

	// Expiry lands TTL from now.
	wantExpiry := before.Add(TTL).UnixMilli()
	require.InDelta(t, wantExpiry, session.ExpiresAt, float64(5*time.Second.Milliseconds()))

	// The slot holds the same record.
	raw, err := slot.Get()
	require.NoError(t, err)
	var persisted Session
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	require.Equal(t, session, persisted)
}

func TestIssue_UniqueTokens(t *testing.T) {
	m := NewManager(&MemStore{}, nil)

	s1, err := m.Issue(testUser)
	require.NoError(t, err)
	s2, err := m.Issue(testUser)
	require.NoError(t, err)

	require.NotEqual(t, s1.Token, s2.Token)
}

func TestIssue_PersistFailureIsBestEffort(t *testing.T) {
	slot := &MemStore{FailSet: errors.New("disk full")}
	m := NewManager(slot, nil)

	// Issue still returns a usable in-memory session.
	session, err := m.Issue(testUser)
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)

	// Nothing made it to the slot.
	_, err = slot.Get()
	require.ErrorIs(t, err, ErrEmptySlot)
}

func TestIssue_OverwritesPreviousSession(t *testing.T) {
	slot := &MemStore{}
	m := NewManager(slot, nil)

	_, err := m.Issue(testUser)
	require.NoError(t, err)

	second, err := m.Issue(User{ID: "other", Username: "bob", DisplayName: "Bob"})
	require.NoError(t, err)

	current, ok := m.Current()
	require.True(t, ok)
	require.Equal(t, second.UserID, current.UserID)
}

func TestCurrent_EmptySlot(t *testing.T) {
	m := NewManager(&MemStore{}, nil)

	_, ok := m.Current()
	require.False(t, ok)
}

func TestCurrent_CorruptSlotCleared(t *testing.T) {
	slot := &MemStore{}
	require.NoError(t, slot.Set("{not json"))

	m := NewManager(slot, nil)
	_, ok := m.Current()
	require.False(t, ok)

	// The corrupt leftover was cleared.
	_, err := slot.Get()
	require.ErrorIs(t, err, ErrEmptySlot)
}

func TestCurrent_ExpiryBoundary(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		expiresAt int64
		wantValid bool
	}{
		{"expired one ms ago", now.UnixMilli() - 1, false},
		{"expires exactly now", now.UnixMilli(), true},
		{"expires one ms from now", now.UnixMilli() + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := &MemStore{}
			session := Session{
				UserID:    testUser.ID,
				Username:  testUser.Username,
				Token:     "tok",
				ExpiresAt: tt.expiresAt,
			}
			data, err := json.Marshal(session)
			require.NoError(t, err)
			require.NoError(t, slot.Set(string(data)))

			m := NewManager(slot, nil)
			m.Now = func() time.Time { return now }

			got, ok := m.Current()
			require.Equal(t, tt.wantValid, ok)
			if tt.wantValid {
				require.Equal(t, session, got)
			} else {
				// Expired sessions are cleared, not renewed.
				_, err := slot.Get()
				require.ErrorIs(t, err, ErrEmptySlot)
			}
		})
	}
}

func TestClear(t *testing.T) {
	slot := &MemStore{}
	m := NewManager(slot, nil)

	_, err := m.Issue(testUser)
	require.NoError(t, err)

	m.Clear()

	_, ok := m.Current()
	require.False(t, ok)
}
