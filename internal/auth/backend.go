package auth

import (
	"conspect-web/internal/config"
	"conspect-web/internal/middlewares"
	"conspect-web/internal/models"
)

var _ middlewares.LoginProvider = (*BackendLogin)(nil)

type LoginURLSource interface {
	LoginURL() string
}

// BackendLogin hands the whole OAuth dance to the backend, which redirects
// back to /auth/callback with the user and token as query parameters.
type BackendLogin struct {
	source LoginURLSource
}

func NewBackendLogin(source LoginURLSource) *BackendLogin {
	return &BackendLogin{source: source}
}

func (b *BackendLogin) Mode() string {
	return config.AuthModeBackend
}

func (b *BackendLogin) StartLogin(_ *middlewares.AppContext) (string, error) {
	return b.source.LoginURL(), nil
}

func (b *BackendLogin) HandleCallback(_ *middlewares.AppContext) (*models.User, string, error) {
	return nil, "", ErrCallbackNotSupported
}
