package middlewares

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"conspect-web/internal/config"
	"conspect-web/internal/data"
)

type AppContext struct {
	context.Context
	Config         *config.Config
	Logger         *slog.Logger
	SessionManager SessionProvider
	LoginProvider  LoginProvider
	Uploads        UploadProcessor
	RateLimiter    data.RateLimitProvider
	Pages          PageRenderer

	Request  *http.Request
	Response http.ResponseWriter
}

type contextKey string

const appContextKey contextKey = "appContext"

func AppContextMiddleware(baseCtx *AppContext) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestCtx := &AppContext{
				Context:        r.Context(),
				Config:         baseCtx.Config,
				Logger:         baseCtx.Logger,
				SessionManager: baseCtx.SessionManager,
				LoginProvider:  baseCtx.LoginProvider,
				Uploads:        baseCtx.Uploads,
				RateLimiter:    baseCtx.RateLimiter,
				Pages:          baseCtx.Pages,
				Response:       w,
			}

			ctx := context.WithValue(r.Context(), appContextKey, requestCtx)
			r = r.WithContext(ctx)
			requestCtx.Context = ctx
			requestCtx.Request = r

			next.ServeHTTP(w, r)
		})
	}
}

type AppHandler func(*AppContext)

// HandlerFunc converts AppHandler to a http.HandlerFunc
func (ctx *AppContext) HandlerFunc(h AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appCtx := GetAppContext(r)
		if appCtx == nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		// the request may have been replaced by chi or another middleware since the context was built
		appCtx.Request = r
		appCtx.Response = w

		h(appCtx)
	}
}

func (ctx *AppContext) Redirect(url string, status int) {
	http.Redirect(ctx.Response, ctx.Request, url, status)
}

func NewAppContext(ctx context.Context, cfg *config.Config, logger *slog.Logger, sessionManager SessionProvider, loginProvider LoginProvider, uploads UploadProcessor, rateLimiter data.RateLimitProvider, pages PageRenderer) *AppContext {
	return &AppContext{
		Context:        ctx,
		Config:         cfg,
		Logger:         logger,
		SessionManager: sessionManager,
		LoginProvider:  loginProvider,
		Uploads:        uploads,
		RateLimiter:    rateLimiter,
		Pages:          pages,
	}
}

func GetAppContext(r *http.Request) *AppContext {
	if ctx, ok := r.Context().Value(appContextKey).(*AppContext); ok {
		return ctx
	}

	return nil
}

func (ctx *AppContext) WriteJSON(status int, data interface{}) {
	ctx.Response.Header().Set("Content-Type", "application/json")
	ctx.Response.WriteHeader(status)
	if err := json.NewEncoder(ctx.Response).Encode(data); err != nil {
		ctx.Logger.Error("failed to marshal json", "error", err)
	}
}

func (ctx *AppContext) SetJSONError(status int, message string) {
	ctx.WriteJSON(status, map[string]string{
		"error": message,
	})
}

func (ctx *AppContext) SetJSONStatus(status int, message string) {
	ctx.WriteJSON(status, map[string]string{
		"status": message,
	})
}

// RenderPage writes one of the server rendered pages.
func (ctx *AppContext) RenderPage(status int, page string, data any) {
	ctx.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
	ctx.Response.WriteHeader(status)
	if err := ctx.Pages.Render(ctx.Response, page, data); err != nil {
		ctx.Logger.Error("failed to render page", "page", page, "error", err)
	}
}

// WantsJSON reports whether the caller asked for JSON rather than HTML.
func (ctx *AppContext) WantsJSON() bool {
	return strings.Contains(ctx.Request.Header.Get("Accept"), "application/json")
}
