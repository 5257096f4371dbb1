// Package webhook signs and verifies content lake change notifications.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nfrund/portfolio/internal/domain"
)

// SignatureHeader carries "t=<unix millis>,v1=<signature>".
const SignatureHeader = "sanity-webhook-signature"

// Payload is the projection the webhook is configured to send.
type Payload struct {
	Type string `json:"_type"`
	ID   string `json:"_id"`
}

// Signature is a parsed signature header.
type Signature struct {
	Timestamp int64
	Hash      string
}

// ParseSignature splits a signature header into its parts.
func ParseSignature(header string) (Signature, error) {
	var sig Signature
	for _, part := range strings.Split(strings.TrimSpace(header), ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return Signature{}, fmt.Errorf("%w: bad timestamp", domain.ErrInvalidSignature)
			}
			sig.Timestamp = ts
		case "v1":
			sig.Hash = value
		}
	}
	if sig.Timestamp == 0 || sig.Hash == "" {
		return Signature{}, fmt.Errorf("%w: malformed header", domain.ErrInvalidSignature)
	}
	return sig, nil
}

// String renders the header value.
func (s Signature) String() string {
	return fmt.Sprintf("t=%d,v1=%s", s.Timestamp, s.Hash)
}

// Sign returns the header value for payload sent at ts.
func Sign(payload []byte, secret string, ts time.Time) string {
	millis := ts.UnixMilli()
	return Signature{Timestamp: millis, Hash: hash(payload, secret, millis)}.String()
}

// Verify checks header against payload. Every failure, including a missing
// secret, wraps domain.ErrInvalidSignature.
func Verify(payload []byte, header, secret string) error {
	if secret == "" {
		return fmt.Errorf("%w: no secret configured", domain.ErrInvalidSignature)
	}
	if header == "" {
		return fmt.Errorf("%w: missing %s header", domain.ErrInvalidSignature, SignatureHeader)
	}
	sig, err := ParseSignature(header)
	if err != nil {
		return err
	}

	want := hash(payload, secret, sig.Timestamp)
	if !hmac.Equal([]byte(want), []byte(sig.Hash)) {
		return domain.ErrInvalidSignature
	}
	return nil
}

func hash(payload []byte, secret string, millis int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(millis, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
