package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role values the backend embeds in the token.
const (
	RoleBuyer  = "Buyer"
	RoleSeller = "Seller"
	RoleAdmin  = "Admin"
)

var (
	ErrExpired      = errors.New("session: token expired")
	ErrInvalidToken = errors.New("session: invalid token")
)

// Identity is the claims subset the storefront cares about. It is a UX hint
// only; the backend re-checks authorization on every call.
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// Session wraps the token store and derives the current identity on demand.
// Nothing is cached: every Identity call re-decodes the stored token, so an
// expired token is noticed the next time anything asks.
type Session struct {
	store TokenStore
	now   func() time.Time
}

func New(store TokenStore) *Session {
	return &Session{store: store, now: time.Now}
}

// Token returns the raw stored token, or ErrNoToken.
func (s *Session) Token() (string, error) {
	return s.store.Get()
}

func (s *Session) SetToken(token string) error {
	return s.store.Set(token)
}

func (s *Session) Logout() error {
	return s.store.Clear()
}

// Identity decodes the stored token without verifying the signature; the
// client has no key and treats claims as display hints. An absent,
// undecodable, or expired token yields no identity, and the two failure
// cases also clear the store so later calls start clean.
func (s *Session) Identity() (*Identity, error) {
	raw, err := s.store.Get()
	if err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		_ = s.store.Clear()
		return nil, ErrInvalidToken
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		_ = s.store.Clear()
		return nil, ErrInvalidToken
	}
	if !s.now().Before(exp.Time) {
		_ = s.store.Clear()
		return nil, ErrExpired
	}

	id := &Identity{
		ID:    stringClaim(claims, "id"),
		Name:  stringClaim(claims, "name"),
		Email: stringClaim(claims, "email"),
		Role:  stringClaim(claims, "role"),
	}
	// Backend variants emit user_id/username instead.
	if id.ID == "" {
		id.ID = stringClaim(claims, "user_id")
	}
	if id.Name == "" {
		id.Name = stringClaim(claims, "username")
	}
	return id, nil
}

// Guard is the expiry boundary run before every mutating action: it fails
// unless a live identity can be derived right now.
func (s *Session) Guard() (*Identity, error) {
	return s.Identity()
}

// Role returns the current role, or "" when no live identity exists.
func (s *Session) Role() string {
	id, err := s.Identity()
	if err != nil {
		return ""
	}
	return id.Role
}

func (s *Session) IsLoggedIn() bool {
	_, err := s.Identity()
	return err == nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
