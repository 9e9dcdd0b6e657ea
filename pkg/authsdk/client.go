// Package authsdk is the Go client for the auth service. It wraps the HTTP
// API and holds the resulting session in a sessionx.Manager so callers get
// the same login/logout/current-user lifecycle the web client has.
package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/abdurmasood/rafeyxmunisah/pkg/sessionx"
)

var (
	// ErrInvalidCredentials is returned by Login when the server rejects the
	// username/password pair. The server does not say which was wrong.
	ErrInvalidCredentials = errors.New("authsdk: invalid username or password")

	// ErrNoSession is returned by CurrentUser when no valid session is held.
	ErrNoSession = errors.New("authsdk: no active session")
)

// Client talks to the auth service and maintains the local session slot.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Sessions holds the client-side session. Login writes it, Logout
	// clears it, CurrentUser reads and validates it.
	Sessions *sessionx.Manager
}

// New builds a Client persisting its session to slot.
func New(baseURL string, slot sessionx.Store) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Sessions:   sessionx.NewManager(slot, nil),
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}

	return resp.StatusCode, nil
}

// Login authenticates against the service and, on success, issues a fresh
// session into the slot, replacing whatever was there. A rejected credential
// pair returns ErrInvalidCredentials and leaves the slot untouched.
func (c *Client) Login(ctx context.Context, username, password string) (sessionx.Session, error) {
	var resp LoginResponse
	status, err := c.postJSON(ctx, "/v1/auth/login", LoginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return sessionx.Session{}, err
	}

	switch {
	case status == http.StatusUnauthorized:
		return sessionx.Session{}, ErrInvalidCredentials
	case status != http.StatusOK || !resp.Success || resp.User == nil:
		return sessionx.Session{}, fmt.Errorf("authsdk: login failed with status %d", status)
	}

	return c.Sessions.Issue(sessionx.User{
		ID:          resp.User.ID,
		Username:    resp.User.Username,
		DisplayName: resp.User.DisplayName,
	})
}

// Logout clears the local session and notifies the server. The clear is the
// operative part; the server call is best-effort since sessions are
// client-held and a network failure must not keep the user logged in.
func (c *Client) Logout(ctx context.Context) error {
	c.Sessions.Clear()

	if _, err := c.postJSON(ctx, "/v1/auth/logout", struct{}{}, nil); err != nil {
		return fmt.Errorf("authsdk: logout notification: %w", err)
	}
	return nil
}

// CurrentUser returns the account behind the held session, after confirming
// with the server that it still exists. A missing, corrupt, or expired
// session returns ErrNoSession; a session pointing at a deleted account is
// cleared and also returns ErrNoSession.
func (c *Client) CurrentUser(ctx context.Context) (UserInfo, error) {
	session, ok := c.Sessions.Current()
	if !ok {
		return UserInfo{}, ErrNoSession
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/users/"+session.UserID, nil)
	if err != nil {
		return UserInfo{}, err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return UserInfo{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var out UserResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return UserInfo{}, err
		}
		return out.User, nil
	case http.StatusNotFound:
		// The account is gone; the session no longer resolves to anyone.
		c.Sessions.Clear()
		return UserInfo{}, ErrNoSession
	default:
		return UserInfo{}, fmt.Errorf("authsdk: user lookup failed with status %d", resp.StatusCode)
	}
}
