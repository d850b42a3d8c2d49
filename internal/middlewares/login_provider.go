package middlewares

import (
	"conspect-web/internal/models"
)

//go:generate mockgen -source=login_provider.go -destination=../mocks/login.go -package=mocks

// LoginProvider starts a login and, for flows the gateway drives itself, completes it.
type LoginProvider interface {
	Mode() string
	StartLogin(ctx *AppContext) (string, error)
	HandleCallback(ctx *AppContext) (*models.User, string, error)
}
