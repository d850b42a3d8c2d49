package handlers

import (
	"net/http"

	"conspect-web/internal/middlewares"
	"conspect-web/internal/web"
)

func GETHomeHandler(ctx *middlewares.AppContext) {
	ctx.RenderPage(http.StatusOK, web.PageHome, basePage(ctx, "Home"))
}
