package jwtx

import "github.com/golang-jwt/jwt/v5"

// Signer signs access and refresh claims.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
	SignRefresh(RefreshClaims) (string, error)
}

// NewSignerHS256 creates an HS256 signer from a shared secret.
func NewSignerHS256(secret []byte) (Signer, error) {
	return newHS256(secret, VerifyOptions{})
}

func sign(method jwt.SigningMethod, key any, claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(method, claims).SignedString(key)
}
