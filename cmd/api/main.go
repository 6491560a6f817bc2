// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"

	"github.com/yourusername/dono-pdf/internal/api"
	"github.com/yourusername/dono-pdf/internal/config"
	"github.com/yourusername/dono-pdf/internal/download"
	"github.com/yourusername/dono-pdf/internal/job"
	"github.com/yourusername/dono-pdf/internal/queue"
	"github.com/yourusername/dono-pdf/internal/upload"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	logger := log.Default()

	// ジョブストア（Redis）
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse redis url: %v", err)
	}
	rdb := redis.NewClient(opt)
	store := job.NewStore(rdb, time.Duration(cfg.JobTTLMinutes)*time.Minute)

	// キューブローカー。接続はここで開き、終了時に閉じる。
	broker, err := queue.NewBroker(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect queue broker: %v", err)
	}
	defer broker.Close()

	producer := job.NewProducer(store, broker, logger)
	saver := upload.NewSaver(cfg.UploadDir, cfg.MaxFileSize, cfg.MaxFiles)
	downloads := download.NewService(store, logger)

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxFileSize

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	setupRoutes(router, cfg, store, producer, saver, downloads, logger)

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting API server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "dono-pdf-api",
		"version": "0.1.0",
	})
}

// setupRoutes は API グループの配線を行います。
func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	store *job.Store,
	producer *job.Producer,
	saver *upload.Saver,
	downloads *download.Service,
	logger *log.Logger,
) {
	router.GET("/health", handleHealth)

	pollInterval := time.Duration(cfg.PollIntervalSeconds) * time.Second

	jobRoutes := router.Group("/api/job")
	{
		jobRoutes.POST("/convert", api.CreateJobHandler(job.OperationConvert, saver, producer))
		jobRoutes.POST("/merge", api.CreateJobHandler(job.OperationMerge, saver, producer))
		jobRoutes.POST("/split", api.CreateJobHandler(job.OperationSplit, saver, producer))
		jobRoutes.GET("/stream/:id", api.StreamHandler(store, pollInterval))
		jobRoutes.GET("/download/:jobId", api.DownloadAllHandler(downloads, logger))
		jobRoutes.GET("/download/:jobId/:fileIndex", api.DownloadFileHandler(downloads))
		jobRoutes.GET("/:id", api.JobStatusHandler(store))
	}
}
