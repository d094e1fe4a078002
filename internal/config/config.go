package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all process-wide runtime configuration. It is built once in
// main and passed by value into constructors; business logic never reads the
// environment directly.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	DBUser        string // database username
	DBPass        string // database password (optional)
	DBHost        string // database host address
	DBPort        string // database port number
	DBName        string // database name
	MigrationsDir string // path to the SQL migration files
	JWTSecret     string // secret used to sign access tokens
	JWTAlgorithm  string // HMAC signing algorithm name (HS256/HS384/HS512)
	AccessTTLMin  int    // access token time-to-live in minutes
	BcryptCost    int    // bcrypt cost for password hashing
	PublicBaseURL string // externally visible base URL, used for share links

	ImageHost ImageHostConfig // external image host credentials
}

// ImageHostConfig describes the external image host the photo binaries are
// delegated to. The backend never stores image bytes itself.
type ImageHostConfig struct {
	BaseURL   string // e.g. https://images.example.com
	Space     string // tenant/cloud name within the host
	APIKey    string // upload credential
	APISecret string // upload credential
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values cause
// the process to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		MigrationsDir: envStr("MIGRATIONS_DIR", "migrations"),
		JWTSecret:     must("JWT_SECRET"),
		JWTAlgorithm:  envStr("JWT_ALGORITHM", "HS256"),
		AccessTTLMin:  mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:    mustInt("BCRYPT_COST"),
		PublicBaseURL: envStr("PUBLIC_BASE_URL", "http://localhost:8080"),
		ImageHost: ImageHostConfig{
			BaseURL:   must("IMAGE_HOST_BASE_URL"),
			Space:     must("IMAGE_HOST_SPACE"),
			APIKey:    must("IMAGE_HOST_API_KEY"),
			APISecret: must("IMAGE_HOST_API_SECRET"),
		},
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return d
}
