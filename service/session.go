package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

// SessionStore holds the active admin sessions. The in-memory set is
// authoritative: a cookie that still parses and verifies fine but whose ID was
// revoked or expired is rejected. Nothing survives a restart, admins log in
// again.
type SessionStore struct {
	mu     sync.Mutex
	active map[string]time.Time
	ttl    time.Duration
	secret []byte
}

func NewSessionStore(secret string, ttl time.Duration) *SessionStore {
	return &SessionStore{
		active: make(map[string]time.Time),
		ttl:    ttl,
		secret: []byte(secret),
	}
}

// StartJanitor periodically drops expired sessions so abandoned logins don't
// grow the set forever
func (s *SessionStore) StartJanitor(every time.Duration) {
	ticker := time.NewTicker(every)

	zap.L().Debug("Session cleanup attached", zap.Duration("tick_every", every))

	go func() {
		for range ticker.C {
			s.mu.Lock()
			for id, exp := range s.active {
				if time.Now().After(exp) {
					delete(s.active, id)
				}
			}
			s.mu.Unlock()
		}
	}()
}

// NewSession registers a fresh session and returns the signed cookie value
func (s *SessionStore) NewSession() (string, error) {
	id, err := gonanoid.New(21)
	if err != nil {
		return "", err
	}

	exp := time.Now().Add(s.ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"jti": id,
		"iat": time.Now().Unix(),
		"exp": exp.Unix(),
	})

	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.active[id] = exp
	s.mu.Unlock()

	return signed, nil
}

// Validate checks the cookie value and that its session is still active
func (s *SessionStore) Validate(tokenStr string) bool {
	id, ok := s.parse(tokenStr)
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.active[id]
	if !ok {
		return false
	}

	if time.Now().After(exp) {
		delete(s.active, id)
		return false
	}

	return true
}

// Revoke ends the session referenced by the cookie value. Revoking an unknown
// session is a no-op.
func (s *SessionStore) Revoke(tokenStr string) {
	id, ok := s.parse(tokenStr)
	if !ok {
		return
	}

	s.mu.Lock()
	delete(s.active, id)
	s.mu.Unlock()
}

func (s *SessionStore) parse(tokenStr string) (string, bool) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}

	id, ok := claims["jti"].(string)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}
