// Package auth issues and checks the credentials the API accepts: bcrypt
// password hashes, HS256 session and verification tokens, and Google ID
// tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"gajanji-server/src/models"

	"github.com/golang-jwt/jwt/v5"
)

const purposeVerify = "verify"

var ErrInvalidToken = errors.New("invalid or expired token")

type SessionClaims struct {
	UserID   string   `json:"_id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Picture  string   `json:"picture,omitempty"`
	Roles    []string `json:"roles"`
	Provider string   `json:"provider"`
	jwt.RegisteredClaims
}

// VerificationClaims carry a pending registration. Password holds the bcrypt
// hash, never the plaintext.
type VerificationClaims struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Purpose  string `json:"purpose"`
	jwt.RegisteredClaims
}

type Tokens struct {
	secret          []byte
	sessionTTL      time.Duration
	verificationTTL time.Duration
	now             func() time.Time
}

func NewTokens(secret string, sessionTTL, verificationTTL time.Duration) *Tokens {
	return &Tokens{
		secret:          []byte(secret),
		sessionTTL:      sessionTTL,
		verificationTTL: verificationTTL,
		now:             time.Now,
	}
}

// WithClock returns a copy of t that reads the time from now.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	c := *t
	c.now = now
	return &c
}

func (t *Tokens) IssueSession(u *models.User) (string, error) {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	issued := t.now()
	claims := SessionClaims{
		UserID:   u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Picture:  u.Picture,
		Roles:    roles,
		Provider: u.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(t.sessionTTL)),
		},
	}
	return t.sign(claims)
}

func (t *Tokens) ParseSession(tokenString string) (*SessionClaims, error) {
	var claims SessionClaims
	if err := t.parse(tokenString, &claims); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func (t *Tokens) IssueVerification(p models.PendingRegistration) (string, error) {
	issued := t.now()
	claims := VerificationClaims{
		Name:     p.Name,
		Email:    p.Email,
		Password: p.PasswordHash,
		Purpose:  purposeVerify,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(t.verificationTTL)),
		},
	}
	return t.sign(claims)
}

func (t *Tokens) ParseVerification(tokenString string) (models.PendingRegistration, error) {
	var claims VerificationClaims
	if err := t.parse(tokenString, &claims); err != nil {
		return models.PendingRegistration{}, err
	}
	if claims.Purpose != purposeVerify || claims.Email == "" || claims.Password == "" {
		return models.PendingRegistration{}, ErrInvalidToken
	}
	return models.PendingRegistration{
		Name:         claims.Name,
		Email:        claims.Email,
		PasswordHash: claims.Password,
	}, nil
}

func (t *Tokens) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (t *Tokens) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method")
		}
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
