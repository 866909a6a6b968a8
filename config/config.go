package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	TotalsPolicyWarn   = "warn"
	TotalsPolicyStrict = "strict"
)

// Config holds every setting read from the environment.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Timezone    string `env:"APP_TIMEZONE" envDefault:"UTC"`

	DBType            string        `env:"DB_TYPE" envDefault:"postgres"`
	DBURL             string        `env:"DB_URL"`
	DBHost            string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort            string        `env:"DB_PORT" envDefault:"5432"`
	DBUser            string        `env:"DB_USER" envDefault:"postgres"`
	DBPassword        string        `env:"DB_PASSWORD"`
	DBName            string        `env:"DB_NAME" envDefault:"salon"`
	DBSSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	JWTSecret      string `env:"JWT_SECRET"`
	JWTExpiryHours int    `env:"JWT_EXPIRY_HOURS" envDefault:"24"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	PublicDir   string   `env:"PUBLIC_DIR" envDefault:"public"`
	FrontendURL string   `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	TotalsPolicy string `env:"BILLING_TOTALS_POLICY" envDefault:"warn"`
	Workers      int    `env:"WORKERS" envDefault:"4"`

	SalonName    string `env:"SALON_NAME" envDefault:"Salon"`
	SalonAddress string `env:"SALON_ADDRESS" envDefault:"123 Beauty Street, City"`
	SalonPhone   string `env:"SALON_PHONE" envDefault:"+1 234 567 8900"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"no-reply@salon.local"`

	TwilioAccountSID     string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken      string `env:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber    string `env:"TWILIO_PHONE_NUMBER"`
	TwilioWhatsAppNumber string `env:"TWILIO_WHATSAPP_NUMBER"`

	RemindersEnabled bool   `env:"REMINDERS_ENABLED" envDefault:"true"`
	ReminderCron     string `env:"REMINDER_CRON" envDefault:"0 9 * * *"`
	MetricsEnabled   bool   `env:"METRICS_ENABLED" envDefault:"true"`

	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD"`
}

// Load reads an optional .env file and parses the environment into Config.
// The returned bool reports whether a .env file was found.
func Load() (Config, bool, error) {
	found := godotenv.Load() == nil
	cfg, err := Parse()
	return cfg, found, err
}

// Parse builds Config from the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET not set")
	}
	switch c.TotalsPolicy {
	case TotalsPolicyWarn, TotalsPolicyStrict:
	default:
		return fmt.Errorf("unsupported BILLING_TOTALS_POLICY %q", c.TotalsPolicy)
	}
	switch c.DBType {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.DBType)
	}
	if c.JWTExpiryHours <= 0 {
		return errors.New("JWT_EXPIRY_HOURS must be positive")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryHours) * time.Hour
}

// CarouselDir is where uploaded carousel images are stored on disk.
func (c Config) CarouselDir() string {
	return filepath.Join(c.PublicDir, "uploads", "carousel")
}

func (c Config) UploadsDir() string {
	return filepath.Join(c.PublicDir, "uploads")
}
