package utils // utils provides token and hashing helpers shared by services and middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Decode failures are collapsed into two kinds: a token past its exp claim,
// and everything else (bad signature, wrong algorithm, garbage input).
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenClaims is the decoded payload of an access token. Subject carries the
// stringified user id; Role is a snapshot taken at issuance and must not be
// trusted for authorization decisions (the guard re-reads the current role
// from storage). JTI is the revocation key.
type TokenClaims struct {
	Subject   string
	Role      string
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AccessToken is a freshly signed token together with the metadata a caller
// needs without re-parsing it.
type AccessToken struct {
	Token string
	JTI   string
	Exp   time.Time
}

// TokenCodec signs and verifies access tokens. Secret and algorithm are
// process-wide configuration fixed at startup; they are never derived from
// request data.
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenCodec builds a codec for the given HMAC algorithm name. Only the
// HS256/HS384/HS512 family is accepted.
func NewTokenCodec(secret, algorithm string, ttlMin int) (*TokenCodec, error) {
	m := jwt.GetSigningMethod(algorithm)
	if _, ok := m.(*jwt.SigningMethodHMAC); m == nil || !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &TokenCodec{
		secret: []byte(secret),
		method: m,
		ttl:    time.Duration(ttlMin) * time.Minute,
	}, nil
}

// Issue signs a token for a user. The jti is a fresh random UUID, which makes
// collisions between issuances negligible.
func (tc *TokenCodec) Issue(userID uint64, role string) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(tc.ttl)
	jti := uuid.NewString()

	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", userID),
		"role": role,
		"jti":  jti,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(tc.method, claims).SignedString(tc.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, JTI: jti, Exp: exp}, nil
}

// Decode verifies signature and expiry and returns the claims. The payload is
// never inspected before the signature checks out. Expired tokens fail with
// ErrTokenExpired, every other defect with ErrTokenInvalid.
func (tc *TokenCodec) Decode(token string) (TokenClaims, error) {
	tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != tc.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return tc.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenClaims{}, ErrTokenExpired
		}
		return TokenClaims{}, ErrTokenInvalid
	}
	if !tok.Valid {
		return TokenClaims{}, ErrTokenInvalid
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrTokenInvalid
	}

	var out TokenClaims
	out.Subject, _ = mc["sub"].(string)
	out.Role, _ = mc["role"].(string)
	out.JTI, _ = mc["jti"].(string)
	if v, ok := mc["iat"].(float64); ok {
		out.IssuedAt = time.Unix(int64(v), 0).UTC()
	}
	if v, ok := mc["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(v), 0).UTC()
	}
	return out, nil
}
