package middlewares

import (
	"net/http"

	"conspect-web/internal/models"
)

//go:generate mockgen -source=session_provider.go -destination=../mocks/session.go -package=mocks

type SessionProvider interface {
	SetLogin(ctx *AppContext, user *models.User, token string) error
	GetUser(ctx *AppContext) (user *models.User, ok bool)
	GetToken(ctx *AppContext) (token string, ok bool)
	IsAuthenticated(ctx *AppContext) bool
	Logout(ctx *AppContext) error
	SetRedirectAfterLogin(ctx *AppContext, redirectAfterLogin string)
	PopRedirectAfterLogin(ctx *AppContext) string
	SetOauthState(ctx *AppContext, state string)
	GetOauthState(ctx *AppContext) string
	ClearOauthState(ctx *AppContext)
	SetOauthNonce(ctx *AppContext, nonce string)
	GetOauthNonce(ctx *AppContext) string
	ClearOauthNonce(ctx *AppContext)
	SetOauthCodeVerifier(ctx *AppContext, verifier string)
	GetOauthCodeVerifier(ctx *AppContext) string
	ClearOauthCodeVerifier(ctx *AppContext)

	LoadAndSave(next http.Handler) http.Handler
}
