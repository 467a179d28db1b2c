package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultPort はPORTが無効な場合に使うポート番号
const DefaultPort = 8080

// アセットの読み込み元
const (
	SourceDir   = "dir"   // OSのディレクトリから読み込む
	SourceEmbed = "embed" // バイナリに埋め込まれたコピーから読み込む
)

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server    ServerConfig
	Assets    AssetsConfig
	API       APIConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
	LogLevel  string
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string // リッスンするホスト
	Port int    // リッスンするポート番号

	// タイムアウト設定
	ReadTimeout     time.Duration // 読み込みタイムアウト
	WriteTimeout    time.Duration // 書き込みタイムアウト
	ShutdownTimeout time.Duration // グレースフルシャットダウンの猶予
}

// AssetsConfig は起動時にキャッシュするアセットの設定
type AssetsConfig struct {
	Source string // "dir" または "embed"
	Dir    string // Source=dir のときの読み込み元ディレクトリ
	Root   string // テーブルのキーに付くプレフィックス (例: site)
}

// APIConfig は予約済みAPI名前空間の設定
type APIConfig struct {
	Prefix       string // 例: /api
	MaxBodyBytes int64  // バッファするリクエストボディの上限
}

// RateLimitConfig はクライアント毎のレート制限。RPS=0 で無効
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// MetricsConfig はPrometheusエンドポイントの設定
type MetricsConfig struct {
	Enabled bool
}

// Load は環境変数 (.env があればそれも) から設定を読み込む
func Load() (*Config, error) {
	// .env が無くてもエラーにはしない
	_ = godotenv.Load()

	rps, err := strconv.ParseFloat(getEnvOrDefault("RATE_LIMIT_RPS", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("無効なRATE_LIMIT_RPS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			Port:            ParsePort(os.Getenv("PORT")),
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Assets: AssetsConfig{
			Source: getEnvOrDefault("ASSET_SOURCE", SourceDir),
			Dir:    getEnvOrDefault("ASSET_DIR", "site"),
			Root:   getEnvOrDefault("ASSET_ROOT", "site"),
		},
		API: APIConfig{
			Prefix:       getEnvOrDefault("API_PREFIX", "/api"),
			MaxBodyBytes: int64(getEnvAsIntOrDefault("MAX_BODY_BYTES", 1<<20)),
		},
		RateLimit: RateLimitConfig{
			RPS:   rps,
			Burst: getEnvAsIntOrDefault("RATE_LIMIT_BURST", 0),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBoolOrDefault("METRICS_ENABLED", true),
		},
		LogLevel: strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
	}

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// ParsePort はPORTの値を解釈する。前後の空白を除いた全体が [0, 65536) の整数でなければ
// DefaultPort になる ("3000abc" のような数字で始まる値も受け付けない)
func ParsePort(value string) int {
	port, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || port < 0 || port >= 65536 {
		return DefaultPort
	}
	return port
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("無効なポート番号: %d", c.Server.Port)
	}

	switch c.Assets.Source {
	case SourceDir:
		if c.Assets.Dir == "" {
			return fmt.Errorf("ASSET_DIR が空です")
		}
	case SourceEmbed:
	default:
		return fmt.Errorf("無効なASSET_SOURCE: %q", c.Assets.Source)
	}

	if c.Assets.Root == "" || strings.HasSuffix(c.Assets.Root, "/") {
		return fmt.Errorf("無効なASSET_ROOT: %q", c.Assets.Root)
	}

	if !strings.HasPrefix(c.API.Prefix, "/") {
		return fmt.Errorf("API_PREFIX は / で始まる必要があります: %q", c.API.Prefix)
	}
	if c.API.MaxBodyBytes <= 0 {
		return fmt.Errorf("無効なMAX_BODY_BYTES: %d", c.API.MaxBodyBytes)
	}

	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("レート制限の値が負です: rps=%v burst=%d", c.RateLimit.RPS, c.RateLimit.Burst)
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
