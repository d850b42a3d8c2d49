package server

import (
	"time"

	"conspect-web/internal/handlers"
	"conspect-web/internal/middlewares"
	"conspect-web/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupRouter(ctx *middlewares.AppContext) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middlewares.ClientIPMiddleware(ctx.Config.Server.TrustedProxyPrefixes()))
	r.Use(middleware.Recoverer)
	r.Use(middlewares.MetricsMiddleware)
	r.Use(middleware.Timeout(ctx.Config.Server.RequestTimeout))
	r.Use(middlewares.SecurityHeaders)

	r.Use(ctx.SessionManager.LoadAndSave)

	r.Use(middlewares.AppContextMiddleware(ctx))

	r.Use(middleware.Compress(5))

	r.Handle("/static/*", web.StaticHandler())

	r.Get("/", ctx.HandlerFunc(handlers.GETHomeHandler))

	r.Get("/audio-to-pdf", ctx.HandlerFunc(handlers.GETAudioToPDFHandler))
	r.With(
		middlewares.RateLimit,
		middlewares.MaxBodySize(ctx.Config.Upload.MaxBodySize),
	).Post("/audio-to-pdf", ctx.HandlerFunc(handlers.POSTAudioToPDFHandler))

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", ctx.HandlerFunc(handlers.GETLoginHandler))
		r.Get("/callback", ctx.HandlerFunc(handlers.GETAuthCallbackHandler))
		r.Get("/oidc/callback", ctx.HandlerFunc(handlers.GETOIDCCallbackHandler))
		r.Post("/logout", ctx.HandlerFunc(handlers.POSTLogoutHandler))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   ctx.Config.CORS.AllowedOrigins,
			AllowedMethods:   ctx.Config.CORS.AllowedMethods,
			AllowedHeaders:   ctx.Config.CORS.AllowedHeaders,
			ExposedHeaders:   ctx.Config.CORS.ExposedHeaders,
			AllowCredentials: ctx.Config.CORS.AllowCredentials,
			MaxAge:           ctx.Config.CORS.MaxAgeSeconds,
		}))

		r.With(
			middlewares.RateLimit,
			middlewares.MaxBodySize(ctx.Config.Upload.MaxBodySize),
		).Post("/upload", ctx.HandlerFunc(handlers.POSTUploadHandler))

		r.Route("/auth", func(r chi.Router) {
			r.Get("/status", ctx.HandlerFunc(handlers.GETAuthStatusHandler))
			r.Post("/logout", ctx.HandlerFunc(handlers.POSTAPILogoutHandler))
		})

		r.Route("/v1", func(r chi.Router) {
			r.Get("/health", ctx.HandlerFunc(handlers.HandlerHealth))
		})
	})

	return r
}

func setupDebugRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/debug", middleware.Profiler())

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
