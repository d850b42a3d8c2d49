package auth

type SessionKey string

// The user and token keys match the names the browser client has always used.
var (
	SessionKeyUser               SessionKey = "google_user"
	SessionKeyAccessToken        SessionKey = "access_token"
	SessionKeyRedirectAfterLogin SessionKey = "redirect_after_login"
	SessionKeyOauthState         SessionKey = "oauth_state"
	SessionKeyOauthNonce         SessionKey = "oauth_nonce"
	SessionKeyOauthCodeVerifier  SessionKey = "oauth_code_verifier"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)
