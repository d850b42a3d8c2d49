package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"conspect-web/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/openid-configuration" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 srv.URL,
			"authorization_endpoint": srv.URL + "/authorize",
			"token_endpoint":         srv.URL + "/token",
			"userinfo_endpoint":      srv.URL + "/userinfo",
			"jwks_uri":               srv.URL + "/keys",
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	}))
	t.Cleanup(srv.Close)

	return srv
}

func newTestOIDCLogin(t *testing.T) *OIDCLogin {
	t.Helper()

	issuer := newTestIssuer(t)
	login, err := NewOIDCLogin(context.Background(), config.OIDCConfig{
		ClientID:     "conspect",
		ClientSecret: "secret",
		IssuerURL:    issuer.URL,
		RedirectURI:  "http://localhost:8080/auth/oidc/callback",
		Scopes:       []string{"openid", "profile", "email"},
	})
	require.NoError(t, err)
	return login
}

func TestOIDCLogin_StartLoginStoresFlowState(t *testing.T) {
	sm, ctx := newTestSession(t)
	login := newTestOIDCLogin(t)

	authURL, err := login.StartLogin(ctx)
	require.NoError(t, err)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	q := parsed.Query()

	assert.Equal(t, "/authorize", parsed.Path)
	assert.Equal(t, "conspect", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.NotEmpty(t, q.Get("code_challenge"))
	assert.Equal(t, sm.GetOauthState(ctx), q.Get("state"))
	assert.Equal(t, sm.GetOauthNonce(ctx), q.Get("nonce"))
	assert.NotEmpty(t, sm.GetOauthCodeVerifier(ctx))
	assert.Equal(t, config.AuthModeOIDC, login.Mode())
}

func TestOIDCLogin_HandleCallbackErrors(t *testing.T) {
	tests := []struct {
		name       string
		storeState string
		query      string
		wantCode   string
	}{
		{"provider error", "abc", "error=access_denied&error_description=user+cancelled", "access_denied"},
		{"no stored state", "", "state=abc&code=xyz", "invalid_request"},
		{"state mismatch", "abc", "state=other&code=xyz", "invalid_request"},
		{"missing code", "abc", "state=abc", "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm, ctx := newTestSession(t)
			login := newTestOIDCLogin(t)

			if tt.storeState != "" {
				sm.SetOauthState(ctx, tt.storeState)
			}
			ctx.Request = httptest.NewRequest(http.MethodGet, "/auth/oidc/callback?"+tt.query, nil)

			user, token, err := login.HandleCallback(ctx)
			assert.Nil(t, user)
			assert.Empty(t, token)

			var oidcErr *OIDCError
			require.True(t, errors.As(err, &oidcErr))
			assert.Equal(t, tt.wantCode, oidcErr.Code)
		})
	}
}

func TestGenerateCodeVerifier(t *testing.T) {
	verifier, challenge := generateCodeVerifier()

	assert.Len(t, verifier, 75)
	assert.NotEqual(t, verifier, challenge)
	assert.NotContains(t, challenge, "=")
}

func TestNewLoginProvider(t *testing.T) {
	source := stubLoginURL("http://backend/auth/google/login")

	provider, err := NewLoginProvider(context.Background(), config.AuthConfig{Mode: config.AuthModeBackend}, source)
	require.NoError(t, err)
	assert.Equal(t, config.AuthModeBackend, provider.Mode())

	_, err = NewLoginProvider(context.Background(), config.AuthConfig{Mode: config.AuthModeOIDC}, source)
	assert.Error(t, err)

	_, err = NewLoginProvider(context.Background(), config.AuthConfig{Mode: "saml"}, source)
	assert.EqualError(t, err, "unsupported auth mode: saml")
}
