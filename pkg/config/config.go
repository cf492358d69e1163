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

// Store driver selection for the requisition and activity collections.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Log      LogConfig
	Reports  ReportsConfig
	Realtime RealtimeConfig
}

// StoreConfig selects the persistence backend and degraded-read behaviour.
type StoreConfig struct {
	Driver           string
	DegradedFallback bool
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

// Credential is one fixed username/secret pair resolved to a portal profile.
// Secret may be plaintext (dev) or a bcrypt hash.
type Credential struct {
	Username   string
	Secret     string
	Role       string
	Name       string
	StaffID    string
	Department string
	AvatarURL  string
}

// AuthConfig holds the JWT settings and the fixed credential mapping. The
// portal intentionally has no user registration; identities come from this
// table alone.
type AuthConfig struct {
	JWTSecret   string
	Expiration  time.Duration
	Issuer      string
	Credentials []Credential
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ReportsConfig governs report caching and export storage.
type ReportsConfig struct {
	Enabled         bool
	CacheTTL        time.Duration
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	CleanupInterval time.Duration
}

// RealtimeConfig toggles the websocket change feed.
type RealtimeConfig struct {
	Enabled    bool
	QueueSize  int
	QueueRetry time.Duration
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

	cfg.Store = StoreConfig{
		Driver:           v.GetString("STORE_DRIVER"),
		DegradedFallback: v.GetBool("STORE_DEGRADED_FALLBACK"),
	}

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

	cfg.Auth = AuthConfig{
		JWTSecret:   v.GetString("JWT_SECRET"),
		Expiration:  parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:      v.GetString("JWT_ISSUER"),
		Credentials: loadCredentials(v),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Reports = ReportsConfig{
		Enabled:         v.GetBool("ENABLE_REPORTS"),
		CacheTTL:        parseDuration(v.GetString("REPORTS_CACHE_TTL"), 5*time.Minute),
		StorageDir:      v.GetString("REPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("REPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("REPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		CleanupInterval: parseDuration(v.GetString("REPORTS_CLEANUP_INTERVAL"), time.Hour),
	}

	cfg.Realtime = RealtimeConfig{
		Enabled:    v.GetBool("ENABLE_REALTIME"),
		QueueSize:  v.GetInt("REALTIME_QUEUE_SIZE"),
		QueueRetry: parseDuration(v.GetString("REALTIME_QUEUE_RETRY"), time.Second),
	}

	return cfg, nil
}

// loadCredentials reads the two seeded portal accounts. The defaults mirror
// the demo deployment: an employee profile and the reviewing administrator.
func loadCredentials(v *viper.Viper) []Credential {
	return []Credential{
		{
			Username:   v.GetString("EMPLOYEE_USERNAME"),
			Secret:     v.GetString("EMPLOYEE_SECRET"),
			Role:       "employee",
			Name:       v.GetString("EMPLOYEE_NAME"),
			StaffID:    v.GetString("EMPLOYEE_STAFF_ID"),
			Department: v.GetString("EMPLOYEE_DEPARTMENT"),
			AvatarURL:  v.GetString("EMPLOYEE_AVATAR_URL"),
		},
		{
			Username:   v.GetString("ADMIN_USERNAME"),
			Secret:     v.GetString("ADMIN_SECRET"),
			Role:       "admin",
			Name:       v.GetString("ADMIN_NAME"),
			StaffID:    v.GetString("ADMIN_STAFF_ID"),
			Department: v.GetString("ADMIN_DEPARTMENT"),
			AvatarURL:  v.GetString("ADMIN_AVATAR_URL"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORE_DRIVER", StorePostgres)
	v.SetDefault("STORE_DEGRADED_FALLBACK", true)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "requisition_portal")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "requisition-portal")

	v.SetDefault("EMPLOYEE_USERNAME", "admin")
	v.SetDefault("EMPLOYEE_SECRET", "aci123")
	v.SetDefault("EMPLOYEE_NAME", "Alex Sterling")
	v.SetDefault("EMPLOYEE_STAFF_ID", "EMP-0042")
	v.SetDefault("EMPLOYEE_DEPARTMENT", "Product Engineering")
	v.SetDefault("EMPLOYEE_AVATAR_URL", "https://picsum.photos/200")

	v.SetDefault("ADMIN_USERNAME", "31303")
	v.SetDefault("ADMIN_SECRET", "31303")
	v.SetDefault("ADMIN_NAME", "System Administrator")
	v.SetDefault("ADMIN_STAFF_ID", "ADM-31303")
	v.SetDefault("ADMIN_DEPARTMENT", "IT Operations")
	v.SetDefault("ADMIN_AVATAR_URL", "https://ui-avatars.com/api/?name=Admin+User")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_REPORTS", true)
	v.SetDefault("REPORTS_CACHE_TTL", "5m")
	v.SetDefault("REPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("REPORTS_SIGNED_URL_SECRET", "dev_reports_secret")
	v.SetDefault("REPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("REPORTS_CLEANUP_INTERVAL", "1h")

	v.SetDefault("ENABLE_REALTIME", true)
	v.SetDefault("REALTIME_QUEUE_SIZE", 64)
	v.SetDefault("REALTIME_QUEUE_RETRY", "1s")
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
