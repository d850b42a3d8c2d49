package auth

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"net/http"

	"conspect-web/internal/config"
	"conspect-web/internal/data"
	"conspect-web/internal/middlewares"
	"conspect-web/internal/models"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/redis/go-redis/v9"
)

var _ middlewares.SessionProvider = (*SessionManager)(nil)

type SessionManager struct {
	*scs.SessionManager
	logger      *slog.Logger
	redisClient *redis.Client
}

func NewSessionManager(logger *slog.Logger, cfg *config.Config) (*SessionManager, error) {
	gob.Register(&models.User{})
	sessionManager := scs.New()

	var client *redis.Client

	switch cfg.Sessions.Store {
	case SessionStoreMemory:
		sessionManager.Store = memstore.New()
	case SessionStoreRedis:
		if cfg.Redis == nil {
			return nil, fmt.Errorf("redis session store requires a redis config section")
		}
		var err error
		client, err = data.NewRedisClient(cfg.Redis, cfg.Redis.SessionIndex, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create session store: %w", err)
		}

		sessionManager.Store = goredisstore.New(client)
	default:
		return nil, fmt.Errorf("unsupported session store: %s", cfg.Sessions.Store)
	}

	sessionManager.Lifetime = cfg.Sessions.Lifetime

	sessionManager.Cookie.Name = cfg.Sessions.Name
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = cfg.Sessions.Secure
	sessionManager.Cookie.Path = "/"

	return &SessionManager{
		SessionManager: sessionManager,
		logger:         logger,
		redisClient:    client,
	}, nil
}

// RedisClient is the client backing the redis store, nil for the memory store.
func (s *SessionManager) RedisClient() *redis.Client {
	return s.redisClient
}

func (s *SessionManager) LoadAndSave(next http.Handler) http.Handler {
	return s.SessionManager.LoadAndSave(next)
}

// SetLogin stores the profile and the access token together under a fresh session token.
func (s *SessionManager) SetLogin(ctx *middlewares.AppContext, user *models.User, token string) error {
	if user == nil || token == "" {
		return fmt.Errorf("user and token are both required")
	}

	if err := s.RenewToken(ctx); err != nil {
		return fmt.Errorf("failed to renew session token: %w", err)
	}

	s.Put(ctx, string(SessionKeyUser), user)
	s.Put(ctx, string(SessionKeyAccessToken), token)
	return nil
}

// login reads both keys. When only one of them is present the pair is dropped.
func (s *SessionManager) login(ctx *middlewares.AppContext) (*models.User, string, bool) {
	user, hasUser := s.Get(ctx, string(SessionKeyUser)).(*models.User)
	token := s.GetString(ctx, string(SessionKeyAccessToken))
	hasToken := token != ""

	if hasUser && user != nil && hasToken {
		return user, token, true
	}

	if hasUser || hasToken {
		s.logger.Warn("session holds a partial login, clearing it", "has_user", hasUser, "has_token", hasToken)
		s.clearLogin(ctx)
	}

	return nil, "", false
}

func (s *SessionManager) clearLogin(ctx *middlewares.AppContext) {
	s.Remove(ctx, string(SessionKeyUser))
	s.Remove(ctx, string(SessionKeyAccessToken))
}

func (s *SessionManager) GetUser(ctx *middlewares.AppContext) (user *models.User, ok bool) {
	user, _, ok = s.login(ctx)
	return user, ok
}

func (s *SessionManager) GetToken(ctx *middlewares.AppContext) (token string, ok bool) {
	_, token, ok = s.login(ctx)
	return token, ok
}

func (s *SessionManager) IsAuthenticated(ctx *middlewares.AppContext) bool {
	_, _, ok := s.login(ctx)
	return ok
}

func (s *SessionManager) Logout(ctx *middlewares.AppContext) error {
	s.clearLogin(ctx)
	return s.RenewToken(ctx)
}

func (s *SessionManager) SetRedirectAfterLogin(ctx *middlewares.AppContext, redirectAfterLogin string) {
	s.Put(ctx, string(SessionKeyRedirectAfterLogin), redirectAfterLogin)
}

func (s *SessionManager) PopRedirectAfterLogin(ctx *middlewares.AppContext) string {
	return s.PopString(ctx, string(SessionKeyRedirectAfterLogin))
}

func (s *SessionManager) SetOauthState(ctx *middlewares.AppContext, state string) {
	s.Put(ctx, string(SessionKeyOauthState), state)
}

func (s *SessionManager) GetOauthState(ctx *middlewares.AppContext) string {
	return s.GetString(ctx, string(SessionKeyOauthState))
}

func (s *SessionManager) ClearOauthState(ctx *middlewares.AppContext) {
	s.Remove(ctx, string(SessionKeyOauthState))
}

func (s *SessionManager) SetOauthNonce(ctx *middlewares.AppContext, nonce string) {
	s.Put(ctx, string(SessionKeyOauthNonce), nonce)
}

func (s *SessionManager) GetOauthNonce(ctx *middlewares.AppContext) string {
	return s.GetString(ctx, string(SessionKeyOauthNonce))
}

func (s *SessionManager) ClearOauthNonce(ctx *middlewares.AppContext) {
	s.Remove(ctx, string(SessionKeyOauthNonce))
}

func (s *SessionManager) SetOauthCodeVerifier(ctx *middlewares.AppContext, verifier string) {
	s.Put(ctx, string(SessionKeyOauthCodeVerifier), verifier)
}

func (s *SessionManager) GetOauthCodeVerifier(ctx *middlewares.AppContext) string {
	return s.GetString(ctx, string(SessionKeyOauthCodeVerifier))
}

func (s *SessionManager) ClearOauthCodeVerifier(ctx *middlewares.AppContext) {
	s.Remove(ctx, string(SessionKeyOauthCodeVerifier))
}
