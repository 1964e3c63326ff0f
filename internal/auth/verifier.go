package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"learnhub-quiz-service/internal/domain"
)

// Claims is the validated identity extracted from a bearer token.
type Claims struct {
	UserID string
	Name   string
}

type tokenClaims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Verifier checks bearer tokens: HS256 signature against the shared
// secret, expiry, subject presence, and the expected audience claim.
type Verifier struct {
	secret   []byte
	audience string
}

func NewVerifier(secret, audience string) *Verifier {
	return &Verifier{secret: []byte(secret), audience: audience}
}

// Verify parses and validates a raw token string.
func (v *Verifier) Verify(tokenString string) (Claims, error) {
	if tokenString == "" {
		return Claims{}, domain.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithAudience(v.audience))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return Claims{}, domain.ErrUnauthorized
	}
	return Claims{UserID: claims.Subject, Name: claims.Name}, nil
}

// FromAuthorizationHeader extracts the bearer token from an Authorization
// header value, returning "" when the header is absent or malformed.
func FromAuthorizationHeader(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}

// Sign issues a token for the given subject; used by tests and local tooling.
func (v *Verifier) Sign(userID, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Audience:  jwt.ClaimStrings{v.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
