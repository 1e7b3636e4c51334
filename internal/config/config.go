package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Remote  RemoteConfig  `yaml:"remote"`
	Auth    AuthConfig    `yaml:"auth"`
	Journey JourneyConfig `yaml:"journey"`
	Log     LogConfig     `yaml:"log"`
	CORS    CORSConfig    `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StorageConfig holds learner-data persistence settings. DefaultMode is only
// the bootstrap value: once the learner switches modes, the persisted flag in
// the local store wins.
type StorageConfig struct {
	DefaultMode         string `yaml:"default_mode"            env:"STORAGE_DEFAULT_MODE"            env-default:"LOCAL"`
	LocalPath           string `yaml:"local_path"              env:"STORAGE_LOCAL_PATH"              env-default:"./data/trakaido.db"`
	PushOnRemoteToLocal bool   `yaml:"push_on_remote_to_local" env:"STORAGE_PUSH_ON_REMOTE_TO_LOCAL" env-default:"false"`
}

// RemoteConfig holds settings for the remote persistence API.
type RemoteConfig struct {
	BaseURL        string        `yaml:"base_url"        env:"REMOTE_BASE_URL"`
	Token          string        `yaml:"token"           env:"REMOTE_TOKEN"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout" env:"REMOTE_ATTEMPT_TIMEOUT" env-default:"5s"`
	RetryBackoff   time.Duration `yaml:"retry_backoff"   env:"REMOTE_RETRY_BACKOFF"   env-default:"500ms"`
	MaxRetries     uint64        `yaml:"max_retries"     env:"REMOTE_MAX_RETRIES"     env-default:"2"`
}

// AuthConfig holds authentication settings. The app is single-learner, so the
// learner identity is a fixed UUID and the password is a bcrypt hash in
// configuration rather than a user table.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"trakaido"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"720h"`
	PasswordHash   string        `yaml:"password_hash"    env:"AUTH_PASSWORD_HASH"`
	UserID         string        `yaml:"user_id"          env:"AUTH_USER_ID"          env-default:"00000000-0000-0000-0000-000000000001"`
}

// JourneyConfig holds weight-policy tunables for word sampling.
type JourneyConfig struct {
	UnseenWeight   float64       `yaml:"unseen_weight"   env:"JOURNEY_UNSEEN_WEIGHT"   env-default:"10"`
	BaseWeight     float64       `yaml:"base_weight"     env:"JOURNEY_BASE_WEIGHT"     env-default:"4"`
	IncorrectBoost float64       `yaml:"incorrect_boost" env:"JOURNEY_INCORRECT_BOOST" env-default:"3"`
	CorrectDamping float64       `yaml:"correct_damping" env:"JOURNEY_CORRECT_DAMPING" env-default:"1.35"`
	RecencyWindow  time.Duration `yaml:"recency_window"  env:"JOURNEY_RECENCY_WINDOW"  env-default:"24h"`
	StaleBoost     float64       `yaml:"stale_boost"     env:"JOURNEY_STALE_BOOST"     env-default:"1.5"`
	MinWeight      float64       `yaml:"min_weight"      env:"JOURNEY_MIN_WEIGHT"      env-default:"0.25"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
