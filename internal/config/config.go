package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Unknown plan policies.  "deny" resolves an unrecognised plan reference to
// the explicit Unknown tier, which grants nothing.  "basic" keeps the legacy
// behaviour of treating it as the Basic tier.
const (
	UnknownPlanDeny  = "deny"
	UnknownPlanBasic = "basic"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; defaults are declared in the struct tags.
type Config struct {
	Env      string `env:"APP_ENV,default=dev"`
	Port     string `env:"APP_PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	DBUser    string `env:"DB_USER,default=postgres"`
	DBPass    string `env:"DB_PASS"`
	DBHost    string `env:"DB_HOST,default=localhost"`
	DBPort    string `env:"DB_PORT,default=5432"`
	DBName    string `env:"DB_NAME,default=restaurant"`
	DBSSLMode string `env:"DB_SSLMODE,default=disable"`

	RabbitURL string `env:"RABBITMQ_URL"`

	QRSecret  string `env:"QR_SECRET,default=change-me"`
	QRBaseURL string `env:"QR_BASE_URL,default=http://localhost:8080/tables/scan"`

	Timezone          string `env:"RESTAURANT_TIMEZONE,default=UTC"`
	UnknownPlanPolicy string `env:"ENTITLEMENT_UNKNOWN_PLAN,default=deny"`

	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort string `env:"SMTP_PORT,default=587"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASS"`
	MailFrom string `env:"MAIL_FROM,default=reservations@localhost"`

	// Location is derived from Timezone by Load.
	Location *time.Location
}

// Load reads an optional .env file and decodes the environment into a
// Config.  Invalid values are reported as errors so that main can exit
// with a clear message.
func Load() (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	}
	var cfg Config
	if err := decodeEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode env: %w", err)
	}
	return cfg.normalize()
}

// decodeEnv fills target from its env struct tags.
func decodeEnv(target any) error {
	if err := envdecode.Decode(target); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return err
	}
	return nil
}

func (c Config) normalize() (Config, error) {
	c.UnknownPlanPolicy = strings.ToLower(strings.TrimSpace(c.UnknownPlanPolicy))
	switch c.UnknownPlanPolicy {
	case "":
		c.UnknownPlanPolicy = UnknownPlanDeny
	case UnknownPlanDeny, UnknownPlanBasic:
	default:
		return Config{}, fmt.Errorf("invalid ENTITLEMENT_UNKNOWN_PLAN %q (want deny or basic)", c.UnknownPlanPolicy)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return Config{}, fmt.Errorf("invalid RESTAURANT_TIMEZONE %q: %w", c.Timezone, err)
	}
	c.Location = loc
	return c, nil
}

// DSN returns the lib/pq connection string for the configured database.
func (c Config) DSN() string {
	parts := []string{
		"host=" + dsnValue(c.DBHost),
		"port=" + dsnValue(c.DBPort),
		"user=" + dsnValue(c.DBUser),
		"dbname=" + dsnValue(c.DBName),
		"sslmode=" + dsnValue(c.DBSSLMode),
	}
	if c.DBPass != "" {
		parts = append(parts, "password="+dsnValue(c.DBPass))
	}
	return strings.Join(parts, " ")
}

// dsnValue quotes v for a key=value connection string when it is empty or
// holds whitespace, quotes or backslashes.
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\n\r\v\f'\\") {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// SMTPEnabled reports whether outgoing mail should go through SMTP.
func (c Config) SMTPEnabled() bool { return c.SMTPHost != "" }
