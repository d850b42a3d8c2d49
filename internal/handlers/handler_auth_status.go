package handlers

import (
	"net/http"

	"conspect-web/internal/middlewares"
	"conspect-web/internal/models"
)

type AuthStatusResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user,omitempty"`
}

func GETAuthStatusHandler(ctx *middlewares.AppContext) {
	response := AuthStatusResponse{
		Authenticated: false,
	}

	if user, ok := ctx.SessionManager.GetUser(ctx); ok && user != nil {
		response.Authenticated = true
		response.User = user
		ctx.WriteJSON(http.StatusOK, response)
		return
	}

	ctx.WriteJSON(http.StatusUnauthorized, response)
}
