package config

import (
	"net/netip"
	"time"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	Sessions  SessionConfig   `yaml:"sessions"`
	Redis     *RedisConfig    `yaml:"redis"`
	Backend   BackendConfig   `yaml:"backend"`
	Auth      AuthConfig      `yaml:"auth"`
	Upload    UploadConfig    `yaml:"upload"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Jobs      JobsConfig      `yaml:"jobs"`
}

type ServerConfig struct {
	Port           int                `yaml:"port"`
	ExternalURL    string             `yaml:"external_url"`
	RequestTimeout time.Duration      `yaml:"request_timeout"`
	Debug          *ServerDebugConfig `yaml:"debug"`
	// TrustedProxies lists the peers (CIDR or single IP) whose forwarding headers name the client.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// TrustedProxyPrefixes returns the parsed trusted_proxies. Entries that do not parse are skipped.
func (s ServerConfig) TrustedProxyPrefixes() []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(s.TrustedProxies))
	for _, entry := range s.TrustedProxies {
		prefix, err := parseTrustedProxy(entry)
		if err != nil {
			continue
		}
		prefixes = append(prefixes, prefix)
	}
	return prefixes
}

var DefaultServerConfig = ServerConfig{
	Port:           8080,
	RequestTimeout: 10 * time.Minute,
}

type ServerDebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

var DefaultDebugConfig = ServerDebugConfig{
	Enabled: false,
	Host:    "localhost",
	Port:    5123,
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

var DefaultLogConfig = LogConfig{
	Level:  "info",
	Format: "text",
}

type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	ExposedHeaders   []string `yaml:"exposed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAgeSeconds    int      `yaml:"max_age_seconds"`
}

var DefaultCORSConfig = CORSConfig{
	AllowedOrigins: []string{"http://localhost:3000"},
	AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	AllowedHeaders: []string{"*"},
	MaxAgeSeconds:  300,
}

type SessionConfig struct {
	Store    string        `yaml:"store"`
	Name     string        `yaml:"name"`
	Lifetime time.Duration `yaml:"lifetime"`
	Secure   bool          `yaml:"secure"`
}

var DefaultSessionConfig = SessionConfig{
	Store:    "memory",
	Name:     "conspect_session",
	Lifetime: 24 * time.Hour,
	Secure:   true,
}

type RedisConfig struct {
	Address        string               `yaml:"address"`
	Username       string               `yaml:"username"`
	Password       string               `yaml:"password"`
	Sentinel       *RedisSentinelConfig `yaml:"sentinel"`
	SessionIndex   int                  `yaml:"session_index"`
	RateLimitIndex int                  `yaml:"ratelimit_index"`
}

var DefaultRedisConfig = RedisConfig{
	SessionIndex:   0,
	RateLimitIndex: 1,
}

type RedisSentinelConfig struct {
	MasterName        string   `yaml:"master_name"`
	SentinelAddresses []string `yaml:"addresses"`
	SentinelPassword  string   `yaml:"password"`
	SentinelUsername  string   `yaml:"username"`
}

// BackendConfig points at the service doing transcription, summarization and PDF rendering.
type BackendConfig struct {
	URL        string        `yaml:"url"`
	Timeout    time.Duration `yaml:"timeout"`
	HealthPath string        `yaml:"health_path"`
	AudioPath  string        `yaml:"audio_path"`
	LoginPath  string        `yaml:"login_path"`
}

var DefaultBackendConfig = BackendConfig{
	URL:        "http://localhost:4000",
	Timeout:    10 * time.Minute,
	HealthPath: "/",
	AudioPath:  "/audio",
	LoginPath:  "/auth/google/login",
}

type AuthConfig struct {
	Mode                 string        `yaml:"mode"`
	OIDC                 *OIDCConfig   `yaml:"oidc"`
	SuccessRedirectDelay time.Duration `yaml:"success_redirect_delay"`
	ErrorRedirectDelay   time.Duration `yaml:"error_redirect_delay"`
}

const (
	AuthModeBackend = "backend"
	AuthModeOIDC    = "oidc"
)

var DefaultAuthConfig = AuthConfig{
	Mode:                 AuthModeBackend,
	SuccessRedirectDelay: time.Second,
	ErrorRedirectDelay:   3 * time.Second,
}

type OIDCConfig struct {
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	IssuerURL    string   `yaml:"issuer_url"`
	RedirectURI  string   `yaml:"redirect_url"`
	Scopes       []string `yaml:"scopes"`
}

var DefaultOIDCConfig = OIDCConfig{
	Scopes: []string{"openid", "profile", "email"},
}

type UploadConfig struct {
	MaxFileSize    int64 `yaml:"max_file_size"`
	MaxBodySize    int64 `yaml:"max_body_size"`
	MaxPages       int   `yaml:"max_pages"`
	MaxNotesLength int   `yaml:"max_notes_length"`
}

var DefaultUploadConfig = UploadConfig{
	MaxFileSize:    100 << 20,
	MaxBodySize:    110 << 20,
	MaxPages:       50,
	MaxNotesLength: 1000,
}

type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Store    string        `yaml:"store"`
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

var DefaultRateLimitConfig = RateLimitConfig{
	Store:    "memory",
	Requests: 10,
	Window:   time.Minute,
}

type JobsConfig struct {
	BackendProbeInterval time.Duration `yaml:"backend_probe_interval"`
	RateLimitSweep       time.Duration `yaml:"ratelimit_sweep_interval"`
}

var DefaultJobsConfig = JobsConfig{
	BackendProbeInterval: 30 * time.Second,
	RateLimitSweep:       5 * time.Minute,
}
