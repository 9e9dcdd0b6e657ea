// Package sessionx manages the client-held login session: issuing a session
// record after a successful login, persisting it to a single-slot store, and
// validating it on later reads.
//
// The session model is deliberately client-trust: the token is an opaque
// marker that is never validated server-side, and expiry is enforced against
// the local clock. A session is exactly as trustworthy as the slot holding it.
package sessionx

import "time"

// TTL is how long an issued session remains valid.
const TTL = 7 * 24 * time.Hour

// Session is one authenticated client session. Field names in the encoded
// form match the blob the web client already stores, with ExpiresAt as epoch
// milliseconds.
type Session struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Token       string `json:"token"`
	ExpiresAt   int64  `json:"expiresAt"`
}

// Expired reports whether the session's expiry lies strictly before now.
// A session expiring exactly at now is still valid.
func (s Session) Expired(now time.Time) bool {
	return now.UnixMilli() > s.ExpiresAt
}
