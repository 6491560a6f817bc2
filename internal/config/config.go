// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// サーバー設定
	Port    string // APIサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り）

	// Redis設定（ジョブストアとキューで共用）
	RedisURL string // Redis接続URL

	// アップロード設定
	UploadDir   string // 入力/出力ファイルの保存先ルート
	MaxFileSize int64  // 単一ファイルの最大サイズ（バイト）
	MaxFiles    int    // 1リクエストあたりの最大ファイル数

	// ジョブ設定
	JobTTLMinutes       int // ジョブレコードの保持期限（分、0で無期限）
	PollIntervalSeconds int // ステータス配信のポーリング間隔（秒）

	// 変換処理設定
	LibreOfficePath string // LibreOffice実行ファイルのパス（Word文書変換用）
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	loadEnvFile()

	config := &Config{
		// サーバー設定
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		// CORS設定
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		// Redis設定
		RedisURL: getEnv("REDIS_URL", "redis://127.0.0.1:6379/0"),

		// アップロード設定
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 50*1024*1024), // 50MB
		MaxFiles:    getEnvAsInt("MAX_FILES", 10),

		// ジョブ設定
		JobTTLMinutes:       getEnvAsInt("JOB_TTL_MINUTES", 0),
		PollIntervalSeconds: getEnvAsInt("STATUS_POLL_INTERVAL_SECONDS", 2),

		// 変換処理設定
		LibreOfficePath: getEnv("LIBREOFFICE_PATH", "soffice"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	if c.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR is required")
	}
	if c.PollIntervalSeconds <= 0 {
		return fmt.Errorf("STATUS_POLL_INTERVAL_SECONDS must be positive")
	}
	if c.GinMode == "release" && c.LibreOfficePath == "" {
		return fmt.Errorf("LIBREOFFICE_PATH is required in release mode")
	}
	return nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsInt64 は環境変数を64ビット整数として取得します。
func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
