package config

import (
	"fmt"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	logFormats    = []string{"text", "json"}
	logLevels     = []string{"debug", "info", "warn", "error"}
	sessionStores = []string{"memory", "redis"}
)

func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config file path is required (use -config or -c)")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes raw YAML, applies environment overrides and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvironmentOverrides(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

var (
	EnvServerExternalURL     = "CONSPECT_SERVER_EXTERNAL_URL"
	EnvServerPort            = "CONSPECT_SERVER_PORT"
	EnvBackendURL            = "CONSPECT_BACKEND_URL"
	EnvOIDCClientID          = "CONSPECT_OIDC_CLIENT_ID"
	EnvOIDCClientSecret      = "CONSPECT_OIDC_CLIENT_SECRET"
	EnvOIDCIssuerURL         = "CONSPECT_OIDC_ISSUER_URL"
	EnvOIDCRedirectURL       = "CONSPECT_OIDC_REDIRECT_URL"
	EnvRedisPassword         = "CONSPECT_REDIS_PASSWORD"
	EnvRedisUsername         = "CONSPECT_REDIS_USERNAME"
	EnvRedisSentinelUsername = "CONSPECT_REDIS_SENTINEL_USERNAME"
	EnvRedisSentinelPassword = "CONSPECT_REDIS_SENTINEL_PASSWORD"
)

func applyEnvironmentOverrides(config *Config) {
	if externalURL := os.Getenv(EnvServerExternalURL); externalURL != "" {
		config.Server.ExternalURL = externalURL
	}

	if portStr := os.Getenv(EnvServerPort); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			config.Server.Port = port
		}
	}

	if backendURL := os.Getenv(EnvBackendURL); backendURL != "" {
		config.Backend.URL = backendURL
	}

	if clientID := os.Getenv(EnvOIDCClientID); clientID != "" {
		config.ensureOIDC().ClientID = clientID
	}

	if clientSecret := os.Getenv(EnvOIDCClientSecret); clientSecret != "" {
		config.ensureOIDC().ClientSecret = clientSecret
	}

	if issuerURL := os.Getenv(EnvOIDCIssuerURL); issuerURL != "" {
		config.ensureOIDC().IssuerURL = issuerURL
	}

	if redirectURL := os.Getenv(EnvOIDCRedirectURL); redirectURL != "" {
		config.ensureOIDC().RedirectURI = redirectURL
	}

	if redisPassword := os.Getenv(EnvRedisPassword); redisPassword != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		config.Redis.Password = redisPassword
	}

	if redisUsername := os.Getenv(EnvRedisUsername); redisUsername != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		config.Redis.Username = redisUsername
	}

	if sentinelUsername := os.Getenv(EnvRedisSentinelUsername); sentinelUsername != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		if config.Redis.Sentinel == nil {
			config.Redis.Sentinel = &RedisSentinelConfig{}
		}
		config.Redis.Sentinel.SentinelUsername = sentinelUsername
	}

	if sentinelPassword := os.Getenv(EnvRedisSentinelPassword); sentinelPassword != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		if config.Redis.Sentinel == nil {
			config.Redis.Sentinel = &RedisSentinelConfig{}
		}
		config.Redis.Sentinel.SentinelPassword = sentinelPassword
	}
}

func (c *Config) ensureOIDC() *OIDCConfig {
	if c.Auth.OIDC == nil {
		c.Auth.OIDC = &OIDCConfig{}
	}
	return c.Auth.OIDC
}

func validateConfig(config *Config) error {

	err := config.validateServerConfig()
	if err != nil {
		return err
	}

	err = config.validateLogConfig()
	if err != nil {
		return err
	}

	err = config.validateCORSConfig()
	if err != nil {
		return err
	}

	err = config.validateSessionConfig()
	if err != nil {
		return err
	}

	err = config.validateBackendConfig()
	if err != nil {
		return err
	}

	err = config.validateAuthConfig()
	if err != nil {
		return err
	}

	err = config.validateUploadConfig()
	if err != nil {
		return err
	}

	err = config.validateRateLimitConfig()
	if err != nil {
		return err
	}

	if config.Sessions.Store == "redis" || (config.RateLimit.Enabled && config.RateLimit.Store == "redis") {
		err = config.validateRedisConfig()
		if err != nil {
			return err
		}
	}

	err = config.validateJobsConfig()
	if err != nil {
		return err
	}

	return nil
}

func (c *Config) validateServerConfig() error {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerConfig.Port
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ExternalURL == "" {
		c.Server.ExternalURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	} else if err := validateURL(c.Server.ExternalURL, "server.external_url"); err != nil {
		return err
	}

	if c.Server.RequestTimeout <= 0 {
		c.Server.RequestTimeout = DefaultServerConfig.RequestTimeout
	}

	for _, entry := range c.Server.TrustedProxies {
		if _, err := parseTrustedProxy(entry); err != nil {
			return fmt.Errorf("server.trusted_proxies: invalid entry %q: %w", entry, err)
		}
	}

	if c.Server.Debug != nil && c.Server.Debug.Enabled {
		if c.Server.Debug.Host == "" {
			c.Server.Debug.Host = DefaultDebugConfig.Host
		}
		if c.Server.Debug.Port <= 0 || c.Server.Debug.Port >= 65535 {
			c.Server.Debug.Port = DefaultDebugConfig.Port
		}
	}

	return nil
}

func (c *Config) validateLogConfig() error {
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogConfig.Format
	} else if !slices.Contains(logFormats, c.Log.Format) {
		return fmt.Errorf("invalid log format: %s, options are %s", c.Log.Format, strings.Join(logFormats, ", "))
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogConfig.Level
	} else if !slices.Contains(logLevels, c.Log.Level) {
		return fmt.Errorf("invalid log level: %s, options are %s", c.Log.Level, strings.Join(logLevels, ", "))
	}

	return nil
}

func (c *Config) validateCORSConfig() error {
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = DefaultCORSConfig.AllowedOrigins
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = DefaultCORSConfig.AllowedMethods
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = DefaultCORSConfig.AllowedHeaders
	}
	if c.CORS.MaxAgeSeconds == 0 {
		c.CORS.MaxAgeSeconds = DefaultCORSConfig.MaxAgeSeconds
	}

	return nil
}

func (c *Config) validateSessionConfig() error {
	if c.Sessions.Store == "" {
		c.Sessions.Store = DefaultSessionConfig.Store
	} else if !slices.Contains(sessionStores, c.Sessions.Store) {
		return fmt.Errorf("invalid session store: %s, options are 'memory' or 'redis'", c.Sessions.Store)
	}

	if c.Sessions.Name == "" {
		c.Sessions.Name = DefaultSessionConfig.Name
	}

	if c.Sessions.Lifetime <= 0 {
		c.Sessions.Lifetime = DefaultSessionConfig.Lifetime
	}

	return nil
}

func (c *Config) validateBackendConfig() error {
	if c.Backend.URL == "" {
		c.Backend.URL = DefaultBackendConfig.URL
	}

	if err := validateURL(c.Backend.URL, "backend.url"); err != nil {
		return err
	}

	if c.Backend.Timeout <= 0 {
		c.Backend.Timeout = DefaultBackendConfig.Timeout
	}

	if c.Backend.HealthPath == "" {
		c.Backend.HealthPath = DefaultBackendConfig.HealthPath
	}

	if c.Backend.AudioPath == "" {
		c.Backend.AudioPath = DefaultBackendConfig.AudioPath
	}

	if c.Backend.LoginPath == "" {
		c.Backend.LoginPath = DefaultBackendConfig.LoginPath
	}

	return nil
}

func (c *Config) validateAuthConfig() error {
	if c.Auth.Mode == "" {
		c.Auth.Mode = DefaultAuthConfig.Mode
	}

	switch c.Auth.Mode {
	case AuthModeBackend:
	case AuthModeOIDC:
		if err := c.validateOIDCConfig(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid auth mode: %s, options are 'backend' or 'oidc'", c.Auth.Mode)
	}

	if c.Auth.SuccessRedirectDelay <= 0 {
		c.Auth.SuccessRedirectDelay = DefaultAuthConfig.SuccessRedirectDelay
	}

	if c.Auth.ErrorRedirectDelay <= 0 {
		c.Auth.ErrorRedirectDelay = DefaultAuthConfig.ErrorRedirectDelay
	}

	return nil
}

func (c *Config) validateOIDCConfig() error {
	if c.Auth.OIDC == nil {
		return fmt.Errorf("auth.oidc is required when auth.mode is oidc")
	}

	if c.Auth.OIDC.ClientID == "" {
		return fmt.Errorf("oidc client id is required")
	}

	if c.Auth.OIDC.ClientSecret == "" {
		return fmt.Errorf("oidc client secret is required")
	}

	if err := validateURL(c.Auth.OIDC.IssuerURL, "oidc issuer_url"); err != nil {
		return err
	}

	if err := validateURL(c.Auth.OIDC.RedirectURI, "oidc redirect_url"); err != nil {
		return err
	}

	if len(c.Auth.OIDC.Scopes) == 0 {
		c.Auth.OIDC.Scopes = DefaultOIDCConfig.Scopes
	}

	return nil
}

func (c *Config) validateUploadConfig() error {
	if c.Upload.MaxFileSize <= 0 {
		c.Upload.MaxFileSize = DefaultUploadConfig.MaxFileSize
	}

	if c.Upload.MaxBodySize <= 0 {
		c.Upload.MaxBodySize = DefaultUploadConfig.MaxBodySize
	}

	if c.Upload.MaxBodySize < c.Upload.MaxFileSize {
		return fmt.Errorf("upload.max_body_size (%d) cannot be smaller than upload.max_file_size (%d)", c.Upload.MaxBodySize, c.Upload.MaxFileSize)
	}

	if c.Upload.MaxPages <= 0 {
		c.Upload.MaxPages = DefaultUploadConfig.MaxPages
	}

	if c.Upload.MaxNotesLength <= 0 {
		c.Upload.MaxNotesLength = DefaultUploadConfig.MaxNotesLength
	}

	return nil
}

func (c *Config) validateRateLimitConfig() error {
	if c.RateLimit.Store == "" {
		c.RateLimit.Store = DefaultRateLimitConfig.Store
	}

	switch c.RateLimit.Store {
	case "memory":
	case "redis":
		if c.RateLimit.Enabled && c.Redis == nil {
			return fmt.Errorf("redis configuration must be present to use redis for rate limiting")
		}
	default:
		return fmt.Errorf("invalid rate limit store: %s, must be 'memory' or 'redis'", c.RateLimit.Store)
	}

	if c.RateLimit.Requests <= 0 {
		c.RateLimit.Requests = DefaultRateLimitConfig.Requests
	}

	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = DefaultRateLimitConfig.Window
	} else if c.RateLimit.Window < time.Second {
		return fmt.Errorf("rate_limit.window cannot be less than 1 second")
	}

	return nil
}

func (c *Config) validateRedisConfig() error {
	if c.Redis == nil {
		return fmt.Errorf("redis config is nil")
	}

	if c.Redis.Sentinel == nil {
		if c.Redis.Address == "" {
			return fmt.Errorf("redis address is required")
		}

		if _, _, err := net.SplitHostPort(c.Redis.Address); err != nil {
			return fmt.Errorf("invalid redis address format (expected host:port): %w", err)
		}
	}

	if c.Redis.SessionIndex == 0 && c.Redis.RateLimitIndex == 0 {
		c.Redis.SessionIndex = DefaultRedisConfig.SessionIndex
		c.Redis.RateLimitIndex = DefaultRedisConfig.RateLimitIndex
	}

	if c.Redis.SessionIndex < 0 {
		return fmt.Errorf("redis session_index must be non-negative, got %d", c.Redis.SessionIndex)
	}

	if c.Redis.RateLimitIndex < 0 {
		return fmt.Errorf("redis ratelimit_index must be non-negative, got %d", c.Redis.RateLimitIndex)
	}

	if c.Redis.SessionIndex == c.Redis.RateLimitIndex {
		return fmt.Errorf("redis session_index and ratelimit_index should be different to avoid data collision (both are %d)", c.Redis.SessionIndex)
	}

	const maxRedisDB = 15
	if c.Redis.SessionIndex > maxRedisDB {
		return fmt.Errorf("redis session_index %d exceeds typical maximum of %d", c.Redis.SessionIndex, maxRedisDB)
	}

	if c.Redis.RateLimitIndex > maxRedisDB {
		return fmt.Errorf("redis ratelimit_index %d exceeds typical maximum of %d", c.Redis.RateLimitIndex, maxRedisDB)
	}

	if c.Redis.Sentinel != nil {
		if c.Redis.Sentinel.MasterName == "" {
			return fmt.Errorf("sentinel master_name is required")
		}
		if len(c.Redis.Sentinel.SentinelAddresses) == 0 {
			return fmt.Errorf("at least one sentinel address is required")
		}
	}
	return nil
}

func (c *Config) validateJobsConfig() error {
	if c.Jobs.BackendProbeInterval <= 0 {
		c.Jobs.BackendProbeInterval = DefaultJobsConfig.BackendProbeInterval
	} else if c.Jobs.BackendProbeInterval < 5*time.Second {
		return fmt.Errorf("jobs.backend_probe_interval cannot be less than 5 seconds")
	}

	if c.Jobs.RateLimitSweep <= 0 {
		c.Jobs.RateLimitSweep = DefaultJobsConfig.RateLimitSweep
	}

	return nil
}
