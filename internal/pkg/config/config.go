package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, upstream credentials), security settings
// - default: Values common across all environments (timeouts, retry budgets), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	CORS     CORSConfig
	Log      LogConfig
	Upstream UpstreamConfig
	Booking  BookingConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Tokyo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

// UpstreamConfig points at the third-party inventory/booking API.
// Credentials are plain key-id/key basic auth; per-step timeouts bound a
// single attempt, not the whole retried call.
type UpstreamConfig struct {
	BaseURL       string        `envconfig:"UPSTREAM_BASE_URL" required:"true"`
	KeyID         string        `envconfig:"UPSTREAM_KEY_ID" required:"true"`
	APIKey        string        `envconfig:"UPSTREAM_API_KEY" required:"true"`
	LockTimeout   time.Duration `envconfig:"UPSTREAM_LOCK_TIMEOUT" default:"20s"`
	FormTimeout   time.Duration `envconfig:"UPSTREAM_FORM_TIMEOUT" default:"15s"`
	SubmitTimeout time.Duration `envconfig:"UPSTREAM_SUBMIT_TIMEOUT" default:"30s"`
	StatusTimeout time.Duration `envconfig:"UPSTREAM_STATUS_TIMEOUT" default:"10s"`
}

type BookingConfig struct {
	MaxRetries       int           `envconfig:"BOOKING_MAX_RETRIES" default:"3"`
	SubmitMaxRetries int           `envconfig:"BOOKING_SUBMIT_MAX_RETRIES" default:"1"`
	InitialDelay     time.Duration `envconfig:"BOOKING_RETRY_INITIAL_DELAY" default:"1s"`
	MaxDelay         time.Duration `envconfig:"BOOKING_RETRY_MAX_DELAY" default:"10s"`
	PollInterval     time.Duration `envconfig:"BOOKING_POLL_INTERVAL" default:"3s"`
	PollTimeout      time.Duration `envconfig:"BOOKING_POLL_TIMEOUT" default:"90s"`
	// Price drift is compared on the first payment option unless this is set,
	// in which case the largest increase across all options is used.
	CompareAllPaymentOptions bool `envconfig:"BOOKING_COMPARE_ALL_PAYMENT_OPTIONS" default:"false"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Idempotency-Key"},
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Tokyo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
		Upstream: UpstreamConfig{
			BaseURL:       "http://localhost:18100",
			KeyID:         "test",
			APIKey:        "test",
			LockTimeout:   2 * time.Second,
			FormTimeout:   2 * time.Second,
			SubmitTimeout: 2 * time.Second,
			StatusTimeout: 2 * time.Second,
		},
		Booking: BookingConfig{
			MaxRetries:       3,
			SubmitMaxRetries: 1,
			InitialDelay:     time.Millisecond,
			MaxDelay:         10 * time.Millisecond,
			PollInterval:     time.Millisecond,
			PollTimeout:      50 * time.Millisecond,
		},
	}
}
