// Package auth implements the single shared admin password gate.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminSubject  = "admin"
	DefaultIssuer = "residence-leads"
)

var ErrInvalidCredential = errors.New("invalid admin credential")

// AdminGate checks the shared admin password and issues signed session
// tokens with a fixed lifetime. There are no users or roles.
type AdminGate struct {
	passwordHash []byte
	secret       []byte
	issuer       string
	ttl          time.Duration
	now          func() time.Time
}

// NewAdminGate accepts either a bcrypt hash or a plain password; a plain
// password is hashed once here.
func NewAdminGate(passwordOrHash, secret string, ttl time.Duration) (*AdminGate, error) {
	if passwordOrHash == "" {
		return nil, errors.New("admin password is empty")
	}
	if len(secret) < 32 {
		return nil, errors.New("session secret must be at least 32 characters")
	}

	hash := []byte(passwordOrHash)
	if _, err := bcrypt.Cost(hash); err != nil {
		hash, err = bcrypt.GenerateFromPassword([]byte(passwordOrHash), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	}

	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &AdminGate{
		passwordHash: hash,
		secret:       []byte(secret),
		issuer:       DefaultIssuer,
		ttl:          ttl,
		now:          time.Now,
	}, nil
}

// HashPassword produces a bcrypt hash suitable for ADMIN_PASSWORD.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (g *AdminGate) Authenticate(credential string) (string, time.Time, error) {
	if err := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(credential)); err != nil {
		return "", time.Time{}, ErrInvalidCredential
	}

	now := g.now()
	expiresAt := now.Add(g.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   adminSubject,
		Issuer:    g.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, expiresAt, nil
}

func (g *AdminGate) Validate(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.secret, nil
	},
		jwt.WithIssuer(g.issuer),
		jwt.WithSubject(adminSubject),
		jwt.WithTimeFunc(g.now),
		jwt.WithExpirationRequired(),
	)
	return err == nil && parsed.Valid
}

func (g *AdminGate) TTL() time.Duration {
	return g.ttl
}
