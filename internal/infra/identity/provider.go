package identity

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"sync"

	"github.com/resumelens/resumelens/internal/domain/sessions"
)

// Provider resolves bearer tokens to sessions from a deploy-time token
// table and looks profiles up in SQL. It satisfies the sessions.Provider
// port; nothing else in the codebase knows where sessions come from.
type Provider struct {
	mu       sync.RWMutex
	byToken  map[string]sessions.Session
	db       *sql.DB
	driver   string
	watchers []chan sessions.Session
}

// New builds a provider from a token -> session map. db may be nil when no
// profile backend is configured; driver is "mysql" or "postgres" and only
// picks the placeholder style for the profile query.
func New(tokens map[string]sessions.Session, db *sql.DB, driver string) *Provider {
	byToken := make(map[string]sessions.Session, len(tokens))
	for t, s := range tokens {
		byToken[t] = s
	}
	return &Provider{byToken: byToken, db: db, driver: driver}
}

// SessionFromToken validates the token against the table. Comparison is
// constant-time to prevent timing attacks.
func (p *Provider) SessionFromToken(ctx context.Context, token string) (*sessions.Session, error) {
	if token == "" {
		return nil, sessions.ErrInvalidToken
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	for t, s := range p.byToken {
		if subtle.ConstantTimeCompare([]byte(token), []byte(t)) == 1 {
			out := s
			return &out, nil
		}
	}
	return nil, sessions.ErrInvalidToken
}

// Profile looks up the stored profile for uid. No row is not an error; the
// caller gets an empty profile.
func (p *Provider) Profile(ctx context.Context, uid string) (*sessions.Profile, error) {
	if p.db == nil {
		return &sessions.Profile{}, nil
	}
	q := `SELECT full_name FROM user_profiles WHERE uid=? LIMIT 1;`
	if p.driver == "postgres" {
		q = `SELECT full_name FROM user_profiles WHERE uid=$1 LIMIT 1;`
	}
	var fullName sql.NullString
	err := p.db.QueryRowContext(ctx, q, uid).Scan(&fullName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &sessions.Profile{}, nil
		}
		return nil, err
	}
	return &sessions.Profile{FullName: fullName.String}, nil
}

// Watch returns a channel that receives a Session each time Update changes
// one. Slow receivers miss notifications instead of blocking updates.
func (p *Provider) Watch() <-chan sessions.Session {
	ch := make(chan sessions.Session, 8)
	p.mu.Lock()
	p.watchers = append(p.watchers, ch)
	p.mu.Unlock()
	return ch
}

// Update replaces the session bound to token and notifies watchers.
func (p *Provider) Update(token string, s sessions.Session) {
	p.mu.Lock()
	p.byToken[token] = s
	watchers := make([]chan sessions.Session, len(p.watchers))
	copy(watchers, p.watchers)
	p.mu.Unlock()

	for _, ch := range watchers {
		select {
		case ch <- s:
		default:
		}
	}
}

// Revoke removes the session bound to token.
func (p *Provider) Revoke(token string) {
	p.mu.Lock()
	delete(p.byToken, token)
	p.mu.Unlock()
}
