package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/tokenauth/pkg/cryptox"
	"github.com/aussiebroadwan/tokenauth/pkg/jwtx"
)

// InitSigningKey loads the HS256 secret from cfg.SecretFile, generating one
// on first start. Every instance sharing the file accepts the others' tokens,
// and tokens survive restarts.
func InitSigningKey(cfg Config, logger *slog.Logger) (*jwtx.HS256, error) {
	secret, err := cryptox.LoadOrGenerateSecret(cfg.SecretFile, jwtx.MinSecretSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing secret: %w", err)
	}

	hs, err := jwtx.NewHS256(secret, jwtx.VerifyOptions{Issuer: cfg.Issuer})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize signer: %w", err)
	}

	logger.Info("signing key loaded",
		"algorithm", hs.Alg(),
		"issuer", cfg.Issuer,
		"path", cfg.SecretFile,
	)
	return hs, nil
}
