package sessions

import (
	"context"
	"errors"
)

// Session is the authenticated caller of a request.
type Session struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name,omitempty"`
}

// Profile is the stored profile for a user, looked up by uid.
type Profile struct {
	FullName string `json:"full_name,omitempty"`
}

// ErrInvalidToken indicates the presented token resolves to no session.
var ErrInvalidToken = errors.New("invalid or expired token")

// Provider port. Session state is always passed in explicitly; there is no
// ambient current-user global and no vendor callback subscription. Watch
// replaces the callback style with a plain channel.
type Provider interface {
	// SessionFromToken resolves a bearer token, ErrInvalidToken when unknown.
	SessionFromToken(ctx context.Context, token string) (*Session, error)

	// Profile looks up the stored profile for uid. A missing profile is not
	// an error; the zero Profile is returned.
	Profile(ctx context.Context, uid string) (*Profile, error)

	// Watch delivers a Session each time its state changes.
	Watch() <-chan Session
}
