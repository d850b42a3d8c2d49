package auth

import (
	"context"
	"fmt"

	"conspect-web/internal/config"
	"conspect-web/internal/middlewares"
)

// NewLoginProvider picks the login flow configured in auth.mode.
func NewLoginProvider(ctx context.Context, cfg config.AuthConfig, source LoginURLSource) (middlewares.LoginProvider, error) {
	switch cfg.Mode {
	case config.AuthModeBackend, "":
		return NewBackendLogin(source), nil
	case config.AuthModeOIDC:
		if cfg.OIDC == nil {
			return nil, fmt.Errorf("auth mode %q requires oidc configuration", cfg.Mode)
		}
		login, err := NewOIDCLogin(ctx, *cfg.OIDC)
		if err != nil {
			return nil, err
		}
		return login, nil
	default:
		return nil, fmt.Errorf("unsupported auth mode: %s", cfg.Mode)
	}
}
