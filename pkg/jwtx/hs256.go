package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretSize is the smallest HS256 secret accepted, matching the hash size.
const MinSecretSize = 32

// HS256 signs and verifies tokens with a single shared secret.
type HS256 struct {
	secret []byte
	parser *jwt.Parser
}

func newHS256(secret []byte, opts VerifyOptions) (*HS256, error) {
	if len(secret) < MinSecretSize {
		return nil, fmt.Errorf("%w: %d bytes, need %d", ErrWeakSecret, len(secret), MinSecretSize)
	}

	popts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(opts.Leeway),
	}
	if opts.Issuer != "" {
		popts = append(popts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Now != nil {
		popts = append(popts, jwt.WithTimeFunc(opts.Now))
	}

	key := make([]byte, len(secret))
	copy(key, secret)
	return &HS256{secret: key, parser: jwt.NewParser(popts...)}, nil
}

// NewHS256 returns a combined signer and verifier.
func NewHS256(secret []byte, opts VerifyOptions) (*HS256, error) {
	return newHS256(secret, opts)
}

func (h *HS256) Alg() string { return jwt.SigningMethodHS256.Alg() }

func (h *HS256) Sign(claims Claims) (string, error) {
	return sign(jwt.SigningMethodHS256, h.secret, claims)
}

func (h *HS256) SignRefresh(claims RefreshClaims) (string, error) {
	return sign(jwt.SigningMethodHS256, h.secret, claims)
}

// Verify checks the signature first and the time claims second, so a forged
// token is reported as invalid even when its exp has also passed.
func (h *HS256) Verify(tokenStr string) (Claims, error) {
	var claims Claims
	token, err := h.parser.ParseWithClaims(tokenStr, &claims, h.keyFunc)
	if err != nil {
		return Claims{}, mapParseError(err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidSig
	}
	if err := claims.Validate(); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

func (h *HS256) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrAlgMismatch
	}
	return h.secret, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	default:
		return fmt.Errorf("%w: %v", ErrInvalidClaim, err)
	}
}
