package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Planning PlanningConfig
	Exports  ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PlanningConfig carries every tunable the scheduling engine consumes.
// Values are handed to service constructors explicitly; nothing reads
// process-wide state during a generation run.
type PlanningConfig struct {
	// PairSizeAH is the number of academic hours one scheduled pair covers.
	PairSizeAH int
	// ParityBaseDate anchors odd/even week numbering (first even week).
	ParityBaseDate time.Time
	// AnnualTotals halves LoadSpec hour totals before pair conversion.
	AnnualTotals bool
	// MaxPairsPerDay caps pairs per group (and teacher) on a single date.
	MaxPairsPerDay int
	// WindowGapThreshold is the number of free slots between lessons a
	// group may have before the validator raises a warning.
	WindowGapThreshold int
	// GymCapacity is how many parallel entries a gym-kind room accepts.
	GymCapacity int
	// EnableShifts routes groups to morning/afternoon slot tables by course.
	EnableShifts bool
	// ReportCacheTTL bounds cached validation reports in redis.
	ReportCacheTTL time.Duration
}

// ExportsConfig tunes day plan exports.
type ExportsConfig struct {
	Enabled bool
	PDFName string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Planning = PlanningConfig{
		PairSizeAH:         v.GetInt("PLANNING_PAIR_SIZE_AH"),
		ParityBaseDate:     parseDate(v.GetString("PLANNING_PARITY_BASE_DATE"), time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)),
		AnnualTotals:       v.GetBool("PLANNING_ANNUAL_TOTALS"),
		MaxPairsPerDay:     v.GetInt("PLANNING_MAX_PAIRS_PER_DAY"),
		WindowGapThreshold: v.GetInt("PLANNING_WINDOW_GAP_THRESHOLD"),
		GymCapacity:        v.GetInt("PLANNING_GYM_CAPACITY"),
		EnableShifts:       v.GetBool("PLANNING_ENABLE_SHIFTS"),
		ReportCacheTTL:     parseDuration(v.GetString("PLANNING_REPORT_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Exports = ExportsConfig{
		Enabled: v.GetBool("ENABLE_EXPORTS"),
		PDFName: v.GetString("EXPORTS_PDF_NAME"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "college_plan")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PLANNING_PAIR_SIZE_AH", 2)
	v.SetDefault("PLANNING_PARITY_BASE_DATE", "2025-09-01")
	v.SetDefault("PLANNING_ANNUAL_TOTALS", false)
	v.SetDefault("PLANNING_MAX_PAIRS_PER_DAY", 4)
	v.SetDefault("PLANNING_WINDOW_GAP_THRESHOLD", 1)
	v.SetDefault("PLANNING_GYM_CAPACITY", 4)
	v.SetDefault("PLANNING_ENABLE_SHIFTS", true)
	v.SetDefault("PLANNING_REPORT_CACHE_TTL", "5m")

	v.SetDefault("ENABLE_EXPORTS", false)
	v.SetDefault("EXPORTS_PDF_NAME", "day-plan.pdf")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func parseDate(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}

	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
