package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ffdata/league-sync/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	DBURL string

	ESPNBaseURL               string
	ESPNLeagueID              int64
	ESPNSeason                int
	ESPNSWID                  string
	ESPNS2                    string
	ESPNTimeout               time.Duration
	ESPNMaxRetries            int
	ESPNCircuitEnabled        bool
	ESPNCircuitFailureCount   int
	ESPNCircuitOpenTimeout    time.Duration
	ESPNCircuitHalfOpenMaxReq int

	SyncTotalWeeks     int
	BackfillWorkers    int
	BackfillRatePerSec float64
	ReingestDepth      int

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string

	InternalJobToken string
	LogLevel         logging.Level
}

func Load() (Config, error) {
	_ = godotenv.Load()

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	dbURL := strings.TrimSpace(getEnv("DATABASE_URL", ""))
	if dbURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}

	leagueID, err := getEnvAsInt64("ESPN_LEAGUE_ID", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_LEAGUE_ID: %w", err)
	}
	if leagueID <= 0 {
		return Config{}, fmt.Errorf("ESPN_LEAGUE_ID is required")
	}

	season, err := getEnvAsInt("ESPN_SEASON", time.Now().Year())
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_SEASON: %w", err)
	}

	espnTimeout, err := getEnvAsDuration("ESPN_TIMEOUT", 20*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_TIMEOUT: %w", err)
	}
	espnMaxRetries, err := getEnvAsInt("ESPN_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_MAX_RETRIES: %w", err)
	}
	espnCircuitEnabled, err := strconv.ParseBool(getEnv("ESPN_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_ENABLED: %w", err)
	}
	espnCircuitFailureCount, err := getEnvAsInt("ESPN_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	espnCircuitOpenTimeout, err := getEnvAsDuration("ESPN_CIRCUIT_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	espnCircuitHalfOpenMaxReq, err := getEnvAsInt("ESPN_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	syncTotalWeeks, err := getEnvAsInt("SYNC_TOTAL_WEEKS", 18)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_TOTAL_WEEKS: %w", err)
	}
	backfillWorkers, err := getEnvAsInt("BACKFILL_WORKERS", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse BACKFILL_WORKERS: %w", err)
	}
	backfillRate, err := getEnvAsFloat("BACKFILL_RATE_PER_SEC", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse BACKFILL_RATE_PER_SEC: %w", err)
	}
	reingestDepth, err := getEnvAsInt("REINGEST_DEPTH", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse REINGEST_DEPTH: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}

	readTimeout, err := getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := getEnvAsDuration("HTTP_WRITE_TIMEOUT", 10*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}

	logLevel, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("SERVICE_NAME", "league-sync"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,

		DBURL: dbURL,

		ESPNBaseURL:               strings.TrimSpace(getEnv("ESPN_BASE_URL", "")),
		ESPNLeagueID:              leagueID,
		ESPNSeason:                season,
		ESPNSWID:                  strings.TrimSpace(getEnv("ESPN_SWID", "")),
		ESPNS2:                    strings.TrimSpace(getEnv("ESPN_S2", "")),
		ESPNTimeout:               espnTimeout,
		ESPNMaxRetries:            espnMaxRetries,
		ESPNCircuitEnabled:        espnCircuitEnabled,
		ESPNCircuitFailureCount:   espnCircuitFailureCount,
		ESPNCircuitOpenTimeout:    espnCircuitOpenTimeout,
		ESPNCircuitHalfOpenMaxReq: espnCircuitHalfOpenMaxReq,

		SyncTotalWeeks:     syncTotalWeeks,
		BackfillWorkers:    backfillWorkers,
		BackfillRatePerSec: backfillRate,
		ReingestDepth:      reingestDepth,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAppName:       getEnv("PYROSCOPE_APP_NAME", "league-sync"),
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),

		InternalJobToken: strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		LogLevel:         logLevel,
	}, nil
}

func parseAppEnv(v string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case EnvDev, EnvStage, EnvProd:
		return v, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) (logging.Level, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug, nil
	case "info", "":
		return logging.LevelInfo, nil
	case "warn", "warning":
		return logging.LevelWarn, nil
	case "error":
		return logging.LevelError, nil
	default:
		return logging.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", v)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsInt64(key string, fallback int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}
