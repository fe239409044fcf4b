// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// サーバー設定
	Port     string
	GinMode  string
	LogLevel string

	// CORS許可オリジン（カンマ区切り）
	CORSAllowedOrigins string

	// データベース設定
	DBDriver   string // "mysql" または "sqlite"
	DBUser     string
	DBPass     string
	DBHost     string
	DBPort     string
	DBName     string
	SQLitePath string

	// 認証設定
	JWTSecret  string
	JWTIssuer  string
	JWTTTL     time.Duration
	BcryptCost int

	// キャッシュ設定（REDIS_ADDR が空ならキャッシュ無効）
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TodoCacheTTL  time.Duration
}

// Load は環境変数から設定を読み込みます。
// .env.local / .env ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	loadEnvFile()

	p := &envParser{}
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),

		DBDriver:   getEnv("DB_DRIVER", DriverMySQL),
		DBUser:     getEnv("DB_USER", ""),
		DBPass:     getEnv("DB_PASS", ""),
		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBName:     getEnv("DB_NAME", ""),
		SQLitePath: getEnv("SQLITE_PATH", "./data/todo.db"),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		JWTIssuer:  getEnv("JWT_ISSUER", "demo app"),
		JWTTTL:     p.asDuration("JWT_TTL", 24*time.Hour),
		BcryptCost: p.asInt("BCRYPT_COST", bcrypt.DefaultCost),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       p.asInt("REDIS_DB", 0),
		TodoCacheTTL:  p.asDuration("TODO_CACHE_TTL", 5*time.Minute),
	}
	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFile() {
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err == nil {
			return
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}
	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}
	_ = godotenv.Load(filepath.Join(parent, ".env"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	// 署名鍵はどのモードでもハードコードしない
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTIssuer == "" {
		return errors.New("JWT_ISSUER must not be empty")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}

	switch c.DBDriver {
	case DriverMySQL:
		if c.DBUser == "" || c.DBName == "" {
			return errors.New("DB_USER and DB_NAME are required for the mysql driver")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// CacheEnabled は Redis キャッシュが設定されているかを返します。
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// envParser は数値や期間の環境変数を読み、解析できなかった値をエラーとして集めます。
type envParser struct {
	errs []error
}

// asInt は環境変数を整数として取得します。
func (p *envParser) asInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s must be an integer, got %q", key, valueStr))
		return defaultValue
	}
	return value
}

// asDuration は環境変数を time.Duration として取得します（例: "24h"）。
func (p *envParser) asDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s must be a duration such as \"24h\", got %q", key, valueStr))
		return defaultValue
	}
	return value
}
