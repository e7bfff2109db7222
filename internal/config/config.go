package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration
	ShutdownTimeout         time.Duration

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	BcryptCost         int

	CORSOrigins    []string
	CookieSecure   bool
	CookieSameSite string
	CookieDomain   string

	RateLimitRPM     int
	AuthRateLimitRPM int

	MaxBodySize       int64
	MaxUploadSize     int64
	UploadTempDir     string
	MaxImageDimension int
	MaxPostImages     int
	StaticDir         string

	LeaderboardDefaultRange int
	LeaderboardMaxRange     int

	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string
	S3KeyPrefix     string
	S3UsePathStyle  bool

	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:              getEnv("PORT", "3000"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:         getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:  int32(getInt("DB_MIN_CONNS", 1)),

		AccessTokenSecret:  strings.TrimSpace(os.Getenv("ACCESS_TOKEN_SECRET")),
		RefreshTokenSecret: strings.TrimSpace(os.Getenv("REFRESH_TOKEN_SECRET")),
		AccessTokenTTL:     getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:    getDuration("REFRESH_TOKEN_TTL", 240*time.Hour),
		BcryptCost:         getInt("BCRYPT_COST", 10),

		CORSOrigins:    splitCSV(getEnv("CORS_ORIGIN", "http://localhost:5173")),
		CookieSecure:   getBool("COOKIE_SECURE", true),
		CookieSameSite: strings.ToLower(getEnv("COOKIE_SAME_SITE", "none")),
		CookieDomain:   strings.TrimSpace(os.Getenv("COOKIE_DOMAIN")),

		RateLimitRPM:     getInt("RATE_LIMIT_RPM", 120),
		AuthRateLimitRPM: getInt("AUTH_RATE_LIMIT_RPM", 20),

		MaxBodySize:       getInt64("MAX_BODY_SIZE", 32*1024),
		MaxUploadSize:     getInt64("MAX_UPLOAD_SIZE", 10*1024*1024),
		UploadTempDir:     getEnv("UPLOAD_TEMP_DIR", os.TempDir()),
		MaxImageDimension: getInt("MAX_IMAGE_DIMENSION", 1600),
		MaxPostImages:     getInt("MAX_POST_IMAGES", 10),
		StaticDir:         getEnv("STATIC_DIR", "./public"),

		LeaderboardDefaultRange: getInt("LEADERBOARD_DEFAULT_RANGE", 5),
		LeaderboardMaxRange:     getInt("LEADERBOARD_MAX_RANGE", 50),

		S3Bucket:        strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:      strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		S3AccessKey:     strings.TrimSpace(os.Getenv("S3_ACCESS_KEY")),
		S3SecretKey:     strings.TrimSpace(os.Getenv("S3_SECRET_KEY")),
		S3PublicBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("S3_PUBLIC_BASE_URL")), "/"),
		S3KeyPrefix:     strings.Trim(getEnv("S3_KEY_PREFIX", "uploads"), "/"),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "pretty")),
	}
	cfg.S3UsePathStyle = getBool("S3_USE_PATH_STYLE", cfg.S3Endpoint != "")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS/DB_MAX_CONNS are inconsistent (%d/%d)", c.DBMinConns, c.DBMaxConns)
	}

	if c.AccessTokenSecret == "" {
		return fmt.Errorf("ACCESS_TOKEN_SECRET is required")
	}

	if c.RefreshTokenSecret == "" {
		return fmt.Errorf("REFRESH_TOKEN_SECRET is required")
	}

	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}

	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}

	if c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("REFRESH_TOKEN_TTL must be positive")
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	if len(c.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGIN cannot be empty")
	}

	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGIN cannot be '*' because credentials are allowed")
		}
	}

	switch c.CookieSameSite {
	case "none", "lax", "strict":
	default:
		return fmt.Errorf("COOKIE_SAME_SITE must be one of none, lax, strict")
	}

	if c.CookieSameSite == "none" && !c.CookieSecure {
		return fmt.Errorf("COOKIE_SAME_SITE=none requires COOKIE_SECURE=true")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.MaxBodySize <= 0 {
		return fmt.Errorf("MAX_BODY_SIZE must be positive")
	}

	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}

	if c.MaxImageDimension <= 0 {
		return fmt.Errorf("MAX_IMAGE_DIMENSION must be positive")
	}

	if c.MaxPostImages <= 0 {
		return fmt.Errorf("MAX_POST_IMAGES must be positive")
	}

	if strings.TrimSpace(c.UploadTempDir) == "" {
		return fmt.Errorf("UPLOAD_TEMP_DIR cannot be empty")
	}

	if c.LeaderboardDefaultRange <= 0 || c.LeaderboardMaxRange < c.LeaderboardDefaultRange {
		return fmt.Errorf("LEADERBOARD_DEFAULT_RANGE must be positive and not exceed LEADERBOARD_MAX_RANGE")
	}

	if c.S3Bucket != "" && (c.S3AccessKey == "") != (c.S3SecretKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY must be set together")
	}

	switch c.LogFormat {
	case "pretty", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be pretty or json")
	}

	return nil
}

// UploadsEnabled reports whether an object store is configured.
func (c *Config) UploadsEnabled() bool {
	return c.S3Bucket != ""
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getInt64(key string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}

	return v
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimRight(strings.TrimSpace(part), "/")
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
