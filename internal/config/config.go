package config

import (
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション設定を表す
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Worker   WorkerConfig
	Metrics  MetricsConfig
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig はデータベース設定
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig はRedis設定
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// AuthConfig は認証設定
// トークンは外部のIDプロバイダーが発行し、ここでは検証用の鍵のみ持つ
type AuthConfig struct {
	JWTSecret string
}

// WorkerConfig はバックグラウンドワーカー設定
type WorkerConfig struct {
	PromotionSweepInterval time.Duration
}

// MetricsConfig はメトリクスエンドポイントの設定
type MetricsConfig struct {
	Username string
	Password string
}

// Load は環境変数から設定を読み込む
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ticket_booking"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-secret"),
		},
		Worker: WorkerConfig{
			PromotionSweepInterval: getDurationEnv("PROMOTION_SWEEP_INTERVAL", 10*time.Minute),
		},
		Metrics: MetricsConfig{
			Username: getEnv("METRICS_USERNAME", "admin"),
			Password: getEnv("METRICS_PASSWORD", "admin"),
		},
	}
}

// DSN はPostgreSQL接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
