// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/example/studio-scheduler/internal/logging"
)

// Config captures environment driven configuration values for the calendar service.
type Config struct {
	HTTPPort             int
	SQLiteDSN            string
	BackendURL           string
	BackendToken         string
	BackendTimeout       time.Duration
	BackendRetries       int
	Location             *time.Location
	CacheTTL             time.Duration
	CacheSize            int
	PreviewWarnThreshold int
	LogLevel             slog.Level
}

// EnvFileVariable names the variable that points at an optional .env file.
const EnvFileVariable = "STUDIO_ENV_FILE"

// Load parses configuration values from the current process environment.
//
// Values missing from the environment are looked up in the file named by
// STUDIO_ENV_FILE (default ".env"); a missing file is ignored. Every missing
// or invalid key is reported at once.
func Load() (Config, error) {
	path := strings.TrimSpace(os.Getenv(EnvFileVariable))
	if path == "" {
		path = ".env"
	}
	fileValues, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		fileValues = map[string]string{}
	}

	getenv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return strings.TrimSpace(value)
		}
		return strings.TrimSpace(fileValues[key])
	}
	return parse(getenv)
}

func parse(getenv func(string) string) (Config, error) {
	cfg := Config{
		HTTPPort:             8080,
		SQLiteDSN:            "studiocal.db",
		BackendTimeout:       10 * time.Second,
		BackendRetries:       2,
		CacheTTL:             30 * time.Second,
		CacheSize:            256,
		PreviewWarnThreshold: 100,
		LogLevel:             slog.LevelInfo,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	positiveInt := func(key string, target *int, allowZero bool) {
		value := getenv(key)
		if value == "" {
			return
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || (n == 0 && !allowZero) {
			invalid = append(invalid, key)
			return
		}
		*target = n
	}
	positiveDuration := func(key string, target *time.Duration) {
		value := getenv(key)
		if value == "" {
			return
		}
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			invalid = append(invalid, key)
			return
		}
		*target = d
	}

	positiveInt("STUDIO_HTTP_PORT", &cfg.HTTPPort, false)
	if cfg.HTTPPort > 65535 {
		invalid = append(invalid, "STUDIO_HTTP_PORT")
	}

	if dsn := getenv("STUDIO_SQLITE_DSN"); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if backend := getenv("STUDIO_BACKEND_URL"); backend == "" {
		missing = append(missing, "STUDIO_BACKEND_URL")
	} else if u, err := url.Parse(backend); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		invalid = append(invalid, "STUDIO_BACKEND_URL")
	} else {
		cfg.BackendURL = backend
	}
	cfg.BackendToken = getenv("STUDIO_BACKEND_TOKEN")

	positiveDuration("STUDIO_BACKEND_TIMEOUT", &cfg.BackendTimeout)
	positiveInt("STUDIO_BACKEND_RETRIES", &cfg.BackendRetries, true)

	zone := getenv("STUDIO_TIMEZONE")
	if zone == "" {
		zone = "Asia/Kolkata"
	}
	if loc, err := time.LoadLocation(zone); err != nil {
		invalid = append(invalid, "STUDIO_TIMEZONE")
	} else {
		cfg.Location = loc
	}

	positiveDuration("STUDIO_CACHE_TTL", &cfg.CacheTTL)
	positiveInt("STUDIO_CACHE_SIZE", &cfg.CacheSize, false)
	positiveInt("STUDIO_PREVIEW_WARN_THRESHOLD", &cfg.PreviewWarnThreshold, false)

	if level, err := logging.ParseLevel(getenv("STUDIO_LOG_LEVEL")); err != nil {
		invalid = append(invalid, "STUDIO_LOG_LEVEL")
	} else {
		cfg.LogLevel = level
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("config: missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("config: invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
