package handlers

import (
	"net/http"

	"conspect-web/internal/middlewares"
)

func logout(ctx *middlewares.AppContext) error {
	user, ok := ctx.SessionManager.GetUser(ctx)

	if err := ctx.SessionManager.Logout(ctx); err != nil {
		ctx.Logger.Error("Failed to logout user", "error", err)
		return err
	}

	if ok && user != nil {
		ctx.Logger.Info("User logged out", "user_id", user.ID, "email", RedactEmail(user.Email))
	}
	return nil
}

// POSTLogoutHandler serves the nav bar's logout form and sends the browser home.
func POSTLogoutHandler(ctx *middlewares.AppContext) {
	if err := logout(ctx); err != nil {
		http.Error(ctx.Response, "Failed to logout", http.StatusInternalServerError)
		return
	}

	ctx.Redirect("/", http.StatusSeeOther)
}

func POSTAPILogoutHandler(ctx *middlewares.AppContext) {
	if err := logout(ctx); err != nil {
		ctx.SetJSONError(http.StatusInternalServerError, "Failed to logout")
		return
	}

	ctx.SetJSONStatus(http.StatusOK, "OK")
}
