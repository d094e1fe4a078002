package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T, alg string, ttlMin int) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec("test-secret-at-least-32-bytes-long", alg, ttlMin)
	require.NoError(t, err)
	return codec
}

func TestNewTokenCodec_Algorithms(t *testing.T) {
	tests := []struct {
		name    string
		alg     string
		wantErr bool
	}{
		{name: "HS256", alg: "HS256"},
		{name: "HS384", alg: "HS384"},
		{name: "HS512", alg: "HS512"},
		{name: "RS256 rejected", alg: "RS256", wantErr: true},
		{name: "none rejected", alg: "none", wantErr: true},
		{name: "unknown rejected", alg: "HS123", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenCodec("secret", tt.alg, 15)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t, "HS256", 15)

	tok, err := codec.Issue(42, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	require.NotEmpty(t, tok.JTI)

	claims, err := codec.Decode(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, tok.JTI, claims.JTI)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt, time.Minute)
}

func TestTokenCodec_UniqueJTI(t *testing.T) {
	codec := newTestCodec(t, "HS256", 15)

	a, err := codec.Issue(1, "user")
	require.NoError(t, err)
	b, err := codec.Issue(1, "user")
	require.NoError(t, err)

	assert.NotEqual(t, a.JTI, b.JTI)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := newTestCodec(t, "HS256", -1)

	tok, err := codec.Issue(7, "user")
	require.NoError(t, err)

	_, err = codec.Decode(tok.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	issuer := newTestCodec(t, "HS256", 15)
	verifier, err := NewTokenCodec("a-completely-different-secret-value", "HS256", 15)
	require.NoError(t, err)

	tok, err := issuer.Issue(7, "user")
	require.NoError(t, err)

	_, err = verifier.Decode(tok.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenCodec_AlgorithmMismatch(t *testing.T) {
	issuer := newTestCodec(t, "HS512", 15)
	verifier := newTestCodec(t, "HS256", 15)

	tok, err := issuer.Issue(7, "user")
	require.NoError(t, err)

	_, err = verifier.Decode(tok.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenCodec_Garbage(t *testing.T) {
	codec := newTestCodec(t, "HS256", 15)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.Decode(raw)
		assert.ErrorIs(t, err, ErrTokenInvalid, "input %q", raw)
	}
}
