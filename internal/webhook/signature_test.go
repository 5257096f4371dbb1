package webhook

import (
	"testing"
	"time"

	"github.com/nfrund/portfolio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	body := []byte(`{"_type":"company","_id":"c1"}`)
	header := Sign(body, "s3cret", time.UnixMilli(1700000000000))

	sig, err := ParseSignature(header)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000000), sig.Timestamp)
	assert.NotContains(t, sig.Hash, "=")

	assert.NoError(t, Verify(body, header, "s3cret"))
}

func TestVerify_Rejects(t *testing.T) {
	body := []byte(`{"_type":"company","_id":"c1"}`)
	header := Sign(body, "s3cret", time.Now())

	tests := []struct {
		name   string
		body   []byte
		header string
		secret string
	}{
		{name: "wrong secret", body: body, header: header, secret: "other"},
		{name: "tampered body", body: []byte(`{"_type":"testimonial","_id":"c1"}`), header: header, secret: "s3cret"},
		{name: "missing header", body: body, header: "", secret: "s3cret"},
		{name: "no secret configured", body: body, header: header, secret: ""},
		{name: "garbage header", body: body, header: "nonsense", secret: "s3cret"},
		{name: "bad timestamp", body: body, header: "t=abc,v1=xyz", secret: "s3cret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(tt.body, tt.header, tt.secret)
			assert.ErrorIs(t, err, domain.ErrInvalidSignature)
		})
	}
}
