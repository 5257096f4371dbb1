package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nfrund/portfolio/internal/domain"
)

const tokenIssuer = "portfolio-upload"

// UploadClaims scope a client token to one upload.
type UploadClaims struct {
	jwt.RegisteredClaims
	Pathname            string   `json:"pathname"`
	AllowedContentTypes []string `json:"allowedContentTypes"`
	MaximumSizeInBytes  int64    `json:"maximumSizeInBytes,omitempty"`
	AddRandomSuffix     bool     `json:"addRandomSuffix"`
	ClientPayload       string   `json:"clientPayload,omitempty"`
}

// Allows reports whether the token covers an upload of contentType.
func (c *UploadClaims) Allows(contentType string) bool {
	return Policy{AllowedContentTypes: c.AllowedContentTypes}.Allows(contentType)
}

// TokenIssuer signs and verifies upload client tokens with the blob
// read/write credential.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer. An empty secret leaves it unconfigured.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Configured reports whether the storage credential is present.
func (t *TokenIssuer) Configured() bool {
	return t != nil && len(t.secret) > 0
}

// TTL is the lifetime of issued tokens.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Issue signs claims, stamping identity and lifetime.
func (t *TokenIssuer) Issue(claims UploadClaims) (string, time.Time, error) {
	if !t.Configured() {
		return "", time.Time{}, domain.ErrStorageNotConfigured
	}
	now := t.now()
	expiresAt := now.Add(t.ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    tokenIssuer,
		Subject:   claims.Pathname,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign upload token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses a token and checks signature, lifetime and issuer.
func (t *TokenIssuer) Verify(token string) (*UploadClaims, error) {
	if !t.Configured() {
		return nil, domain.ErrStorageNotConfigured
	}
	parsed, err := jwt.ParseWithClaims(token, &UploadClaims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidUploadToken
		}
		return t.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(t.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: expired", domain.ErrInvalidUploadToken)
		}
		return nil, domain.ErrInvalidUploadToken
	}

	claims, ok := parsed.Claims.(*UploadClaims)
	if !ok || !parsed.Valid || claims.Pathname == "" {
		return nil, domain.ErrInvalidUploadToken
	}
	return claims, nil
}
