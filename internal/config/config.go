package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	PubSub      PubSubConfig      `yaml:"pubsub"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Billing     BillingConfig     `yaml:"billing"`
	Notify      NotifyConfig      `yaml:"notify"`
	Auth        AuthConfig        `yaml:"auth"`
	Remediation RemediationConfig `yaml:"remediation"`
	Report      ReportConfig      `yaml:"report"`
	Log         LogConfig         `yaml:"log"`
	CORS        CORSConfig        `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"SERVER_MAX_BODY_BYTES"   env-default:"1048576"`
	RateLimit       int           `yaml:"rate_limit"       env:"SERVER_RATE_LIMIT"       env-default:"300"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// RedisConfig holds Redis settings. An empty Addr disables Redis: version
// writes then serialize in-process and plan lookups are not cached.
type RedisConfig struct {
	Addr          string        `yaml:"addr"            env:"REDIS_ADDR"`
	Password      string        `yaml:"password"        env:"REDIS_PASSWORD"`
	DB            int           `yaml:"db"              env:"REDIS_DB"              env-default:"0"`
	// LockTTL is extended while a holder runs, so it bounds only how long a
	// crashed holder blocks the key.
	LockTTL       time.Duration `yaml:"lock_ttl"        env:"REDIS_LOCK_TTL"        env-default:"10s"`
	LockRetry     time.Duration `yaml:"lock_retry"      env:"REDIS_LOCK_RETRY"      env-default:"50ms"`
	LockWaitLimit time.Duration `yaml:"lock_wait_limit" env:"REDIS_LOCK_WAIT_LIMIT" env-default:"5s"`
}

// Enabled reports whether a Redis address is configured.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// PubSubConfig holds Google Cloud Pub/Sub settings for product-update events.
// CreateMissing creates the topic and subscription on startup (emulator and
// local runs).
type PubSubConfig struct {
	Enabled        bool   `yaml:"enabled"         env:"PUBSUB_ENABLED"         env-default:"false"`
	ProjectID      string `yaml:"project_id"      env:"PUBSUB_PROJECT_ID"`
	TopicID        string `yaml:"topic_id"        env:"PUBSUB_TOPIC_ID"        env-default:"product-updates"`
	SubscriptionID string `yaml:"subscription_id" env:"PUBSUB_SUBSCRIPTION_ID" env-default:"product-updates-compliance"`
	MaxOutstanding int    `yaml:"max_outstanding" env:"PUBSUB_MAX_OUTSTANDING" env-default:"10"`
	CreateMissing  bool   `yaml:"create_missing"  env:"PUBSUB_CREATE_MISSING"  env-default:"false"`
}

// CatalogConfig holds settings for the commerce platform catalog API.
type CatalogConfig struct {
	BaseURL           string        `yaml:"base_url"            env:"CATALOG_BASE_URL"            env-required:"true"`
	Token             string        `yaml:"token"               env:"CATALOG_TOKEN"`
	Timeout           time.Duration `yaml:"timeout"             env:"CATALOG_TIMEOUT"             env-default:"10s"`
	RetryCount        int           `yaml:"retry_count"         env:"CATALOG_RETRY_COUNT"         env-default:"2"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"CATALOG_REQUESTS_PER_SECOND" env-default:"2"`
	Burst             int           `yaml:"burst"               env:"CATALOG_BURST"               env-default:"4"`
}

// BillingConfig holds settings for the plan policy lookup.
type BillingConfig struct {
	BaseURL  string        `yaml:"base_url"  env:"BILLING_BASE_URL"  env-required:"true"`
	Token    string        `yaml:"token"     env:"BILLING_TOKEN"`
	Timeout  time.Duration `yaml:"timeout"   env:"BILLING_TIMEOUT"   env-default:"5s"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"BILLING_CACHE_TTL" env-default:"5m"`
}

// NotifyConfig holds settings for outbound notifications.
type NotifyConfig struct {
	Enabled bool          `yaml:"enabled"  env:"NOTIFY_ENABLED"  env-default:"false"`
	BaseURL string        `yaml:"base_url" env:"NOTIFY_BASE_URL"`
	Token   string        `yaml:"token"    env:"NOTIFY_TOKEN"`
	Timeout time.Duration `yaml:"timeout"  env:"NOTIFY_TIMEOUT"  env-default:"5s"`
}

// AuthConfig holds session token and webhook verification settings.
type AuthConfig struct {
	SessionSecret string        `yaml:"session_secret" env:"AUTH_SESSION_SECRET" env-required:"true"`
	SessionIssuer string        `yaml:"session_issuer" env:"AUTH_SESSION_ISSUER" env-default:"catalog-compliance"`
	SessionTTL    time.Duration `yaml:"session_ttl"    env:"AUTH_SESSION_TTL"    env-default:"1m"`
	WebhookSecret string        `yaml:"webhook_secret" env:"AUTH_WEBHOOK_SECRET" env-required:"true"`
}

// RemediationConfig holds auto-fix settings.
type RemediationConfig struct {
	MutationTimeout      time.Duration `yaml:"mutation_timeout"        env:"REMEDIATION_MUTATION_TIMEOUT"        env-default:"15s"`
	SEODescriptionMinLen int           `yaml:"seo_description_min_len" env:"REMEDIATION_SEO_DESCRIPTION_MIN_LEN" env-default:"120"`
	SEODescriptionMaxLen int           `yaml:"seo_description_max_len" env:"REMEDIATION_SEO_DESCRIPTION_MAX_LEN" env-default:"160"`
}

// ReportConfig holds report aggregation settings.
type ReportConfig struct {
	BatchSize     int `yaml:"batch_size"     env:"REPORT_BATCH_SIZE"     env-default:"500"`
	AtRiskLimit   int `yaml:"at_risk_limit"  env:"REPORT_AT_RISK_LIMIT"  env-default:"10"`
	ImprovedLimit int `yaml:"improved_limit" env:"REPORT_IMPROVED_LIMIT" env-default:"10"`
	HistoryLimit  int `yaml:"history_limit"  env:"REPORT_HISTORY_LIMIT"  env-default:"12"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
