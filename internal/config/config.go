package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
	Cron     CronConfig     `yaml:"cron"`
	LLM      LLMConfig      `yaml:"llm"`
	Congress CongressConfig `yaml:"congress"`
	LegiScan LegiScanConfig `yaml:"legiscan"`
	News     NewsConfig     `yaml:"news"`
	Email    EmailConfig    `yaml:"email"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Identity IdentityConfig `yaml:"identity"`
}

// IdentityConfig controls the subscriber identity cookie. With no secret
// the cookie holds the plain email.
type IdentityConfig struct {
	CookieSecret string        `yaml:"cookie_secret" env:"IDENTITY_COOKIE_SECRET"`
	CookieTTL    time.Duration `yaml:"cookie_ttl"    env:"IDENTITY_COOKIE_TTL"    env-default:"8760h"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Subscriber-Email"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
// WriteTimeout must exceed the longest driver budget served over HTTP.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"300s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	ExploreRPM      int           `yaml:"explore_rpm"      env:"SERVER_EXPLORE_RPM"      env-default:"6"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DATABASE_MIGRATE_ON_START"   env-default:"false"`
	// StatementTimeout is applied per connection; zero leaves the server default.
	StatementTimeout time.Duration `yaml:"statement_timeout" env:"DATABASE_STATEMENT_TIMEOUT" env-default:"30s"`
	ConnectTimeout   time.Duration `yaml:"connect_timeout"   env:"DATABASE_CONNECT_TIMEOUT"   env-default:"5s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
	// MaskEmails hides the local part of subscriber addresses in log records.
	MaskEmails bool `yaml:"mask_emails" env:"LOG_MASK_EMAILS" env-default:"true"`
}

// CronConfig holds the shared secret that guards the cron endpoints.
type CronConfig struct {
	Secret string `yaml:"secret" env:"CRON_SECRET" env-required:"true"`
}

// LLMConfig holds Anthropic settings.
type LLMConfig struct {
	APIKey         string        `yaml:"api_key"          env:"ANTHROPIC_API_KEY"    env-required:"true"`
	BaseURL        string        `yaml:"base_url"         env:"LLM_BASE_URL"`
	Model          string        `yaml:"model"            env:"LLM_MODEL"            env-default:"claude-3-5-haiku-latest"`
	QuickMaxTokens int64         `yaml:"quick_max_tokens" env:"LLM_QUICK_MAX_TOKENS" env-default:"10"`
	FullMaxTokens  int64         `yaml:"full_max_tokens"  env:"LLM_FULL_MAX_TOKENS"  env-default:"600"`
	ArticleTokens  int64         `yaml:"article_tokens"   env:"LLM_ARTICLE_TOKENS"   env-default:"4096"`
	Timeout        time.Duration `yaml:"timeout"          env:"LLM_TIMEOUT"          env-default:"60s"`
	MaxRetries     int           `yaml:"max_retries"      env:"LLM_MAX_RETRIES"      env-default:"2"`
}

// CongressConfig holds Congress.gov API settings.
type CongressConfig struct {
	APIKey  string        `yaml:"api_key"  env:"CONGRESS_API_KEY"`
	BaseURL string        `yaml:"base_url" env:"CONGRESS_BASE_URL" env-default:"https://api.congress.gov/v3"`
	Timeout time.Duration `yaml:"timeout"  env:"CONGRESS_TIMEOUT"  env-default:"30s"`
}

// NewsConfig holds NewsAPI settings. With no api key, synthesis runs
// without news background.
type NewsConfig struct {
	APIKey      string        `yaml:"api_key"      env:"NEWS_API_KEY"`
	BaseURL     string        `yaml:"base_url"     env:"NEWS_BASE_URL"     env-default:"https://newsapi.org/v2"`
	Timeout     time.Duration `yaml:"timeout"      env:"NEWS_TIMEOUT"      env-default:"10s"`
	MaxArticles int           `yaml:"max_articles" env:"NEWS_MAX_ARTICLES" env-default:"3"`
}

// LegiScanConfig holds LegiScan API settings.
type LegiScanConfig struct {
	APIKey    string        `yaml:"api_key"  env:"LEGISCAN_API_KEY"`
	BaseURL   string        `yaml:"base_url" env:"LEGISCAN_BASE_URL" env-default:"https://api.legiscan.com/"`
	StatesRaw string        `yaml:"states"   env:"LEGISCAN_STATES"   env-default:""`
	Timeout   time.Duration `yaml:"timeout"  env:"LEGISCAN_TIMEOUT"  env-default:"30s"`
}

// States returns the configured state codes, uppercased.
func (c LegiScanConfig) States() []string {
	var out []string
	for _, s := range strings.Split(c.StatesRaw, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// EmailConfig holds Resend settings and the alert digest threshold.
type EmailConfig struct {
	APIKey         string        `yaml:"api_key"         env:"RESEND_API_KEY"`
	BaseURL        string        `yaml:"base_url"        env:"RESEND_BASE_URL"        env-default:"https://api.resend.com"`
	From           string        `yaml:"from"            env:"EMAIL_FROM"             env-default:"The Daily Law <alerts@dailylaw.org>"`
	SiteURL        string        `yaml:"site_url"        env:"SITE_URL"               env-default:"https://dailylaw.org"`
	AlertThreshold int           `yaml:"alert_threshold" env:"EMAIL_ALERT_THRESHOLD"  env-default:"70"`
	Timeout        time.Duration `yaml:"timeout"         env:"EMAIL_TIMEOUT"          env-default:"10s"`
	AlertBudget    time.Duration `yaml:"alert_budget"    env:"EMAIL_ALERT_BUDGET"     env-default:"250s"`
}

// ScoringConfig holds relevance thresholds and driver pacing.
type ScoringConfig struct {
	Threshold        int           `yaml:"threshold"          env:"SCORING_THRESHOLD"          env-default:"25"`
	StateThreshold   int           `yaml:"state_threshold"    env:"SCORING_STATE_THRESHOLD"    env-default:"40"`
	RecentWindow     time.Duration `yaml:"recent_window"      env:"SCORING_RECENT_WINDOW"      env-default:"48h"`
	BillDelay        time.Duration `yaml:"bill_delay"         env:"SCORING_BILL_DELAY"         env-default:"2s"`
	SubscriberDelay  time.Duration `yaml:"subscriber_delay"   env:"SCORING_SUBSCRIBER_DELAY"   env-default:"3s"`
	BatchDelay       time.Duration `yaml:"batch_delay"        env:"SCORING_BATCH_DELAY"        env-default:"2s"`
	BatchSize        int           `yaml:"batch_size"         env:"SCORING_BATCH_SIZE"         env-default:"5"`
	NightlyBudget    time.Duration `yaml:"nightly_budget"     env:"SCORING_NIGHTLY_BUDGET"     env-default:"250s"`
	BackfillBudget   time.Duration `yaml:"backfill_budget"    env:"SCORING_BACKFILL_BUDGET"    env-default:"50s"`
	ExploreBudget    time.Duration `yaml:"explore_budget"     env:"SCORING_EXPLORE_BUDGET"     env-default:"50s"`
	ExploreWindow    int           `yaml:"explore_window"     env:"SCORING_EXPLORE_WINDOW"     env-default:"45"`
	ExploreMinScore  int           `yaml:"explore_min_score"  env:"SCORING_EXPLORE_MIN_SCORE"  env-default:"25"`
	ExploreLimit     int           `yaml:"explore_limit"      env:"SCORING_EXPLORE_LIMIT"      env-default:"20"`
	RateLimitBackoff time.Duration `yaml:"rate_limit_backoff" env:"SCORING_RATE_LIMIT_BACKOFF" env-default:"10s"`
}

// IngestConfig holds ingestion sweep settings.
type IngestConfig struct {
	PriorityWindow int           `yaml:"priority_window" env:"INGEST_PRIORITY_WINDOW" env-default:"20"`
	ArchiveBatch   int           `yaml:"archive_batch"   env:"INGEST_ARCHIVE_BATCH"   env-default:"20"`
	MaxPerRun      int           `yaml:"max_per_run"     env:"INGEST_MAX_PER_RUN"     env-default:"5"`
	Budget         time.Duration `yaml:"budget"          env:"INGEST_BUDGET"          env-default:"250s"`
	StatusBudget   time.Duration `yaml:"status_budget"   env:"INGEST_STATUS_BUDGET"   env-default:"250s"`
	MaxTextBytes   int           `yaml:"max_text_bytes"  env:"INGEST_MAX_TEXT_BYTES"  env-default:"60000"`
}
