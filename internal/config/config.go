// Package config loads application configuration from environment
// variables.  Required values are enforced fail-fast: a missing
// secret or credential aborts startup instead of silently degrading
// to a lesser-privileged mode.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  The types reflect how the
// values are used: strings for identifiers and secrets, ints for
// durations and costs.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing

	QuotaMonthlyLimit uint64         // metered units allowed per user per month
	QuotaLoc          *time.Location // reference timezone for quota windows

	TextgenBaseURL string // generative-text provider endpoint
	TextgenAPIKey  string // bearer credential for the provider (optional)
	TextgenModel   string // model identifier sent with each request
}

// Load reads configuration values from environment variables and
// returns a Config.  Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),

		QuotaMonthlyLimit: envUint("QUOTA_MONTHLY_LIMIT", 500000),
		QuotaLoc:          loadLocation("QUOTA_TZ"),

		TextgenBaseURL: envStr("TEXTGEN_BASE_URL", "https://api.openai.com"),
		TextgenAPIKey:  os.Getenv("TEXTGEN_API_KEY"),
		TextgenModel:   envStr("TEXTGEN_MODEL", "gpt-4o-mini"),
	}
}

// loadLocation resolves an IANA zone name from the environment.  The
// quota windows are anchored to one fixed reference zone; UTC is the
// default and an unknown name is fatal rather than silently wrong.
func loadLocation(key string) *time.Location {
	name := os.Getenv(key)
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Fatalf("invalid timezone for %s: %q", key, name)
	}
	return loc
}

// must retrieves the value of a required environment variable.  If
// the variable is unset or empty, the application logs a fatal error
// and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an
// integer.  If conversion fails, the application logs a fatal error
// and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
