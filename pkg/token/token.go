// Package token signs and verifies the compact claims payload embedded in
// access tokens. It is stateless: nothing issued here is ever persisted.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storefront/core"
)

// Claims is the time-bounded payload carried by an access token.
type Claims struct {
	MemberID string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Codec issues and decodes HMAC-signed access tokens.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Issue signs the member's public fields with an absolute expiry of
// now + ttl.
func (c *Codec) Issue(m *core.Member, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		MemberID: m.ID,
		Email:    m.Email,
		Name:     m.Name,
		IsAdmin:  m.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies the signature and expiry and returns the claims. Any
// failure - bad signature, wrong algorithm, unparsable payload, expired -
// collapses to core.ErrInvalidToken so the caller can fall back to the
// API-key path instead of aborting the request.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, core.ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, core.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.MemberID == "" || claims.Email == "" || claims.Name == "" {
		return nil, core.ErrInvalidToken
	}

	return claims, nil
}

// Member reconstructs a transient member view from the claims. The password
// slot is filled with a placeholder; claims are never authoritative for
// credentials.
func (cl *Claims) Member() *core.Member {
	return &core.Member{
		ID:       cl.MemberID,
		Email:    cl.Email,
		Name:     cl.Name,
		Password: "N/A",
		IsAdmin:  cl.IsAdmin,
	}
}
