// Package session manages operator sessions for the CLI and server.
//
// A session records which operator is working, the API token used when
// talking to a remote server, and an expiry. The flow model itself is
// session-free: commands resolve the operator from the session (or the
// --operator flag) and pass plain IDs down to the store.
//
// The CLI keeps a single current session as a JSON file under the config
// directory:
//
//	sess, err := session.NewCLIStore()
//	current, err := sess.GetSession(ctx)
//	if current == nil {
//	    // No session - operator must be supplied explicitly
//	}
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// Session records an operator's identity for the duration of a login.
type Session struct {
	ID         string    `json:"id"`
	OperatorID string    `json:"operator_id"`
	Name       string    `json:"name,omitempty"`
	Token      string    `json:"token,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}

// DefaultTTL is the default session duration.
const DefaultTTL = 24 * time.Hour

// GenerateID creates a cryptographically secure random session ID.
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// New creates a session for an operator.
func New(operatorID, name, token string, ttl time.Duration) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:         id,
		OperatorID: operatorID,
		Name:       name,
		Token:      token,
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
	}, nil
}

// Local creates a non-expiring session for offline use against the file
// store, where no token is needed.
func Local(operatorID string) *Session {
	now := time.Now()
	return &Session{
		ID:         "local-session",
		OperatorID: operatorID,
		Name:       "Local Operator",
		ExpiresAt:  now.Add(365 * 24 * time.Hour),
		CreatedAt:  now,
	}
}
