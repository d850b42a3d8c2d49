package handlers

import (
	"net/http"
	"net/url"

	"conspect-web/internal/middlewares"
)

func GETLoginHandler(ctx *middlewares.AppContext) {
	redirectTo := loginRedirectTarget(ctx)

	if ctx.SessionManager.IsAuthenticated(ctx) {
		ctx.Logger.Debug("User already authenticated")
		if ctx.WantsJSON() {
			ctx.SetJSONStatus(http.StatusOK, "ok")
			return
		}
		ctx.Redirect(redirectTo, http.StatusFound)
		return
	}

	ctx.SessionManager.SetRedirectAfterLogin(ctx, redirectTo)

	authURL, err := ctx.LoginProvider.StartLogin(ctx)
	if err != nil {
		ctx.Logger.Error("Failed to start login", "mode", ctx.LoginProvider.Mode(), "error", err)
		if ctx.WantsJSON() {
			ctx.SetJSONError(http.StatusInternalServerError, "Internal Server Error")
			return
		}
		ctx.Redirect("/auth/callback?error=login_unavailable", http.StatusFound)
		return
	}

	ctx.Logger.Debug("Redirecting to login provider", "mode", ctx.LoginProvider.Mode(), "url", authURL)

	if ctx.WantsJSON() {
		ctx.WriteJSON(http.StatusOK, map[string]string{
			"status":       "redirect_required",
			"redirect_url": authURL,
		})
		return
	}

	ctx.Redirect(authURL, http.StatusFound)
}

// loginRedirectTarget is where the user goes once signed in: the rd parameter, else the
// referring page on this host, else home.
func loginRedirectTarget(ctx *middlewares.AppContext) string {
	if rd := ctx.Request.URL.Query().Get("rd"); rd != "" {
		return localRedirect(rd)
	}

	if referer := ctx.Request.Header.Get("Referer"); referer != "" {
		if u, err := url.Parse(referer); err == nil && u.Host == ctx.Request.Host {
			return localRedirect(u.RequestURI())
		}
	}

	return "/"
}
