package token

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Validation errors. Callers treat all of them as "drop the event"; the
// split exists for logging.
var (
	ErrMissingToken = errors.New("token: missing token")
	ErrInvalidToken = errors.New("token: invalid or expired token")
	ErrBadSubject   = errors.New("token: subject claim is not a user id")
)

// Validator checks pre-issued HS256 bearer tokens and extracts the user id
// from the "sub" claim. Token issuance lives in the auth service; this side
// only verifies.
type Validator struct {
	secret []byte
}

func NewValidator(secret []byte) (*Validator, error) {
	if len(secret) == 0 {
		return nil, errors.New("token: empty signing secret")
	}
	return &Validator{secret: secret}, nil
}

// NewValidatorFromEnv reads the shared secret from JWT_SECRET.
func NewValidatorFromEnv() (*Validator, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("token: JWT_SECRET environment variable is not set")
	}
	return NewValidator([]byte(secret))
}

// Validate parses and verifies tok, returning the user id carried in the
// subject claim. Issuers encode sub as either a number or a numeric string.
func (v *Validator) Validate(tok string) (int64, error) {
	if tok == "" {
		return 0, ErrMissingToken
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	switch sub := claims["sub"].(type) {
	case string:
		id, err := strconv.ParseInt(sub, 10, 64)
		if err != nil || id <= 0 {
			return 0, ErrBadSubject
		}
		return id, nil
	case float64:
		id := int64(sub)
		if id <= 0 {
			return 0, ErrBadSubject
		}
		return id, nil
	default:
		return 0, ErrBadSubject
	}
}
