package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"conspect-web/internal/auth"
	"conspect-web/internal/metrics"
	"conspect-web/internal/middlewares"
	"conspect-web/internal/models"
	"conspect-web/internal/web"
)

const (
	msgUserDataMissing = "user data not received"
	msgSessionFailed   = "failed to save login"
)

// GETAuthCallbackHandler is where the backend sends the browser after Google sign in,
// with either ?user=<json>&token=<token> or ?error=<message>.
func GETAuthCallbackHandler(ctx *middlewares.AppContext) {
	query := ctx.Request.URL.Query()

	if errorParam := query.Get("error"); errorParam != "" {
		ctx.Logger.Warn("Login callback error", "error", errorParam)
		metrics.LoginsTotal.WithLabelValues(metrics.LoginResultError).Inc()
		renderCallbackError(ctx, http.StatusUnauthorized, fmt.Sprintf("Authentication failed: %s", errorParam))
		return
	}

	userParam := query.Get("user")
	token := query.Get("token")
	if userParam == "" || token == "" {
		ctx.Logger.Warn("Login callback without user data", "has_user", userParam != "", "has_token", token != "")
		metrics.LoginsTotal.WithLabelValues(metrics.LoginResultInvalid).Inc()
		renderCallbackError(ctx, http.StatusBadRequest, msgUserDataMissing)
		return
	}

	user, err := models.ParseUser(userParam)
	if err != nil {
		ctx.Logger.Warn("Malformed user data on login callback", "error", err)
		metrics.LoginsTotal.WithLabelValues(metrics.LoginResultInvalid).Inc()
		renderCallbackError(ctx, http.StatusBadRequest, fmt.Sprintf("failed to process user data: %v", err))
		return
	}

	completeLogin(ctx, user, token)
}

// GETOIDCCallbackHandler finishes a login the gateway ran itself and shows the same callback page.
func GETOIDCCallbackHandler(ctx *middlewares.AppContext) {
	user, token, err := ctx.LoginProvider.HandleCallback(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrCallbackNotSupported) {
			http.NotFound(ctx.Response, ctx.Request)
			return
		}

		message := "Authentication failed"
		var oidcErr *auth.OIDCError
		if errors.As(err, &oidcErr) {
			message = fmt.Sprintf("Authentication failed: %s", oidcErr.Code)
		}

		ctx.Logger.Error("Failed to handle OIDC callback", "error", err)
		metrics.LoginsTotal.WithLabelValues(metrics.LoginResultError).Inc()
		renderCallbackError(ctx, http.StatusUnauthorized, message)
		return
	}

	completeLogin(ctx, user, token)
}

func completeLogin(ctx *middlewares.AppContext, user *models.User, token string) {
	if err := ctx.SessionManager.SetLogin(ctx, user, token); err != nil {
		ctx.Logger.Error("Failed to store login in session", "error", err)
		metrics.LoginsTotal.WithLabelValues(metrics.LoginResultError).Inc()
		renderCallbackError(ctx, http.StatusInternalServerError, msgSessionFailed)
		return
	}

	ctx.Logger.Info("User successfully authenticated",
		"user_id", user.ID,
		"email", RedactEmail(user.Email),
	)
	metrics.LoginsTotal.WithLabelValues(metrics.LoginResultSuccess).Inc()

	redirectTo := localRedirect(ctx.SessionManager.PopRedirectAfterLogin(ctx))

	page := web.CallbackPage{
		Page:    web.Page{Title: "Sign in", User: user}.WithRefresh(redirectTo, ctx.Config.Auth.SuccessRedirectDelay),
		Success: true,
		Message: fmt.Sprintf("Signed in as %s", user.DisplayName()),
	}
	renderCallback(ctx, http.StatusOK, page)
}

func renderCallbackError(ctx *middlewares.AppContext, status int, message string) {
	page := web.CallbackPage{
		Page:    basePage(ctx, "Sign in").WithRefresh("/", ctx.Config.Auth.ErrorRedirectDelay),
		Message: message,
	}
	renderCallback(ctx, status, page)
}

func renderCallback(ctx *middlewares.AppContext, status int, page web.CallbackPage) {
	ctx.Response.Header().Set("Refresh", strconv.Itoa(page.RefreshSeconds)+"; url="+page.RefreshURL)
	ctx.RenderPage(status, web.PageCallback, page)
}
