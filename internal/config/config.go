package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds the runtime configuration shared by the users and flights
// services.  Each field corresponds to an environment variable.  Both
// services read the same database because the flights service resolves
// session tokens against the users table.
type Config struct {
	Env         string // application environment (e.g. "dev", "prod")
	UsersPort   string // HTTP port of the users service
	FlightsPort string // HTTP port of the flights service
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
	BcryptCost  int    // bcrypt cost for password hashing
	LogLevel    string // slog level name (debug, info, warn, error)
}

// Load reads configuration values from environment variables and returns a
// Config.  Database coordinates are required and enforced by must(); the
// remaining values fall back to defaults suitable for local development.
func Load() Config {
	return Config{
		Env:         envStr("APP_ENV", "dev"),       // environment (dev/test/prod)
		UsersPort:   envStr("USERS_PORT", "8001"),   // port for the users service
		FlightsPort: envStr("FLIGHTS_PORT", "8002"), // port for the flights service
		DBUser:      must("DB_USER"),                // database user
		DBPass:      os.Getenv("DB_PASS"),           // database password (empty allowed)
		DBHost:      must("DB_HOST"),                // database host
		DBPort:      envStr("DB_PORT", "3306"),      // database port
		DBName:      must("DB_NAME"),                // database name
		BcryptCost:  bcryptCost(),                   // bcrypt cost factor
		LogLevel:    envStr("LOG_LEVEL", "info"),    // log verbosity
	}
}

// IsProduction reports whether the service runs with a production profile.
func (c Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// bcryptCost reads BCRYPT_COST.  An unparsable value is fatal; an unset one
// defaults to 10.
func bcryptCost() int {
	s := os.Getenv("BCRYPT_COST")
	if s == "" {
		return 10
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", "BCRYPT_COST", s)
	}
	return n
}
