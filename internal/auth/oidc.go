package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"conspect-web/internal/config"
	"conspect-web/internal/middlewares"
	"conspect-web/internal/models"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

var _ middlewares.LoginProvider = (*OIDCLogin)(nil)

// NewOIDCLogin discovers the issuer and builds a login provider that runs the code flow itself.
func NewOIDCLogin(ctx context.Context, cfg config.OIDCConfig) (*OIDCLogin, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     provider.Endpoint(),
		Scopes:       cfg.Scopes,
		RedirectURL:  cfg.RedirectURI,
	}

	return &OIDCLogin{
		provider:     provider,
		oauth2Config: oauth2Config,
		verifier:     provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

type OIDCLogin struct {
	provider     *oidc.Provider
	oauth2Config *oauth2.Config
	verifier     *oidc.IDTokenVerifier
}

func (o *OIDCLogin) Mode() string {
	return config.AuthModeOIDC
}

func generateRandString(bytes int) string {
	if bytes <= 0 {
		bytes = 32
	}

	b := make([]byte, bytes)
	_, _ = rand.Read(b)

	return base64.URLEncoding.EncodeToString(b)
}

func generateCodeVerifier() (string, string) {
	b := make([]byte, 56)
	_, _ = rand.Read(b)

	codeVerifier := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b)
	hash := sha256.Sum256([]byte(codeVerifier))
	codeChallenge := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(hash[:])
	return codeVerifier, codeChallenge
}

func (o *OIDCLogin) StartLogin(ctx *middlewares.AppContext) (string, error) {
	state := generateRandString(32)
	nonce := generateRandString(32)
	codeVerifier, codeChallenge := generateCodeVerifier()

	ctx.SessionManager.SetOauthNonce(ctx, nonce)
	ctx.SessionManager.SetOauthState(ctx, state)
	ctx.SessionManager.SetOauthCodeVerifier(ctx, codeVerifier)

	authURL := o.oauth2Config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)

	return authURL, nil
}

// HandleCallback finishes the code flow and returns the signed in profile with its access token.
func (o *OIDCLogin) HandleCallback(ctx *middlewares.AppContext) (*models.User, string, error) {
	query := ctx.Request.URL.Query()

	if errorParam := query.Get("error"); errorParam != "" {
		message := errorParam
		if desc := query.Get("error_description"); desc != "" {
			message = fmt.Sprintf("%s: %s", errorParam, desc)
		}
		return nil, "", &OIDCError{Code: errorParam, Message: message}
	}

	storedState := ctx.SessionManager.GetOauthState(ctx)
	if storedState == "" {
		return nil, "", &OIDCError{Code: "invalid_request", Message: "no oauth state found in session"}
	}

	if query.Get("state") != storedState {
		return nil, "", &OIDCError{Code: "invalid_request", Message: "invalid state parameter"}
	}

	ctx.SessionManager.ClearOauthState(ctx)

	code := query.Get("code")
	if code == "" {
		return nil, "", &OIDCError{Code: "invalid_request", Message: "no authorization code received"}
	}

	verifierCode := ctx.SessionManager.GetOauthCodeVerifier(ctx)
	ctx.SessionManager.ClearOauthCodeVerifier(ctx)

	token, err := o.oauth2Config.Exchange(ctx.Request.Context(), code, oauth2.VerifierOption(verifierCode))
	if err != nil {
		return nil, "", &OIDCError{Code: "invalid_grant", Message: fmt.Sprintf("failed to exchange code for token: %v", err)}
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, "", &OIDCError{Code: "invalid_token", Message: "no id_token found in oauth2 token"}
	}

	idToken, err := o.verifier.Verify(ctx.Request.Context(), rawIDToken)
	if err != nil {
		return nil, "", &OIDCError{Code: "invalid_token", Message: fmt.Sprintf("failed to verify ID Token: %v", err)}
	}

	user, nonce, err := extractUserClaimsFromToken(idToken)
	if err != nil {
		return nil, "", &OIDCError{Code: "server_error", Message: fmt.Sprintf("failed to extract user from ID Token: %v", err)}
	}

	if nonce != ctx.SessionManager.GetOauthNonce(ctx) {
		return nil, "", &OIDCError{Code: "server_error", Message: "nonce in ID Token is invalid"}
	}

	ctx.SessionManager.ClearOauthNonce(ctx)

	enhancedUser, err := o.fetchUserInfo(ctx.Request.Context(), token, user)
	if err != nil {
		ctx.Logger.Warn("Failed to fetch user info, using ID token data only", "error", err)
		enhancedUser = user
	}

	return enhancedUser, token.AccessToken, nil
}

type profileClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Nonce         string `json:"nonce"`
}

func extractUserClaimsFromToken(idToken *oidc.IDToken) (*models.User, string, error) {
	var claims profileClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, "", err
	}

	return &models.User{
		ID:            claims.Sub,
		Email:         claims.Email,
		Name:          claims.Name,
		Picture:       claims.Picture,
		VerifiedEmail: claims.EmailVerified,
	}, claims.Nonce, nil
}

// fetchUserInfo fills in whatever the ID token left out from the UserInfo endpoint
func (o *OIDCLogin) fetchUserInfo(ctx context.Context, token *oauth2.Token, baseUser *models.User) (*models.User, error) {
	userInfo, err := o.provider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	var claims profileClaims
	if err := userInfo.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse user info claims: %w", err)
	}

	return &models.User{
		ID:            baseUser.ID,
		Email:         getPreferredValue(claims.Email, baseUser.Email),
		Name:          getPreferredValue(claims.Name, baseUser.Name),
		Picture:       getPreferredValue(claims.Picture, baseUser.Picture),
		VerifiedEmail: claims.EmailVerified || baseUser.VerifiedEmail,
	}, nil
}

// getPreferredValue returns the first non-empty string from the provided values
func getPreferredValue(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
