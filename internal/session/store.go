// Package session implements server-side cookie sessions: an opaque
// token in an HttpOnly cookie maps to a user id in a pluggable store.
package session

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// CookieName is the session cookie set on login.
const CookieName = "chirper_session"

// Store resolves opaque session tokens to user ids. Handlers never see
// the store directly; the auth middleware resolves the cookie and
// places the user id on the request context.
type Store interface {
	// Create mints a new session token for the user.
	Create(ctx context.Context, userID uint) (string, error)
	// Resolve returns the user id for a token, or ok=false when the
	// token is unknown or expired.
	Resolve(ctx context.Context, token string) (userID uint, ok bool, err error)
	// Destroy invalidates a token. Destroying an unknown token is a
	// silent success.
	Destroy(ctx context.Context, token string) error
}

// newToken returns an opaque, unguessable session token.
func newToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
