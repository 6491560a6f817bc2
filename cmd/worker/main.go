// Package main は操作ワーカーのエントリーポイントです。
// 1プロセスが1つの操作キューを購読し、同時に1件ずつ処理します。
// スループットを上げる場合は同じ操作のワーカーを複数プロセス起動します。
package main

import (
	"flag"
	"log"
	"time"

	"github.com/hibiken/asynq"
	redis "github.com/redis/go-redis/v9"

	"github.com/yourusername/dono-pdf/internal/config"
	"github.com/yourusername/dono-pdf/internal/job"
	"github.com/yourusername/dono-pdf/internal/pdf"
	"github.com/yourusername/dono-pdf/internal/queue"
	"github.com/yourusername/dono-pdf/internal/worker"
)

func main() {
	opFlag := flag.String("operation", "", "処理する操作 (convert | merge | split)")
	flag.Parse()

	operation, err := job.ParseOperation(*opFlag)
	if err != nil {
		log.Fatalf("Invalid -operation: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := log.Default()

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse redis url: %v", err)
	}
	rdb := redis.NewClient(opt)
	store := job.NewStore(rdb, time.Duration(cfg.JobTTLMinutes)*time.Minute)

	var transform worker.Transform
	switch operation {
	case job.OperationConvert:
		transform = &worker.ConvertTransform{
			Converter: &pdf.Converter{LibreOfficePath: cfg.LibreOfficePath},
			Logger:    logger,
		}
	case job.OperationMerge:
		transform = worker.MergeTransform{}
	case job.OperationSplit:
		transform = worker.SplitTransform{}
	}

	w := worker.New(operation, store, transform, logger)

	server, err := queue.NewServer(cfg.RedisURL, operation)
	if err != nil {
		log.Fatalf("Failed to create worker server: %v", err)
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskType(operation), w.ProcessTask)

	log.Printf("Worker listening on %s", queue.QueueName(operation))
	if err := server.Run(mux); err != nil {
		log.Fatalf("Worker stopped with error: %v", err)
	}
}
