// Package queue は操作ごとの永続キューへのジョブ投入と購読を提供します。
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/yourusername/dono-pdf/internal/job"
)

// メッセージは少なくとも1回配送される。ハンドラーがエラーを返した場合に
// 再配送される最大回数。
const maxRetry = 3

// TaskType は操作に対応するタスク種別名を返します。
func TaskType(op job.Operation) string {
	return "pdf:" + string(op)
}

// QueueName は操作に対応するキュー名を返します。操作ごとに専用キューを持ちます。
func QueueName(op job.Operation) string {
	return "pdf_" + string(op) + "_queue"
}

// Broker はキューへの接続を所有し、メッセージの投入を提供します。
// プロセス全体で共有されるグローバルなハンドルではなく、明示的に生成して
// 利用側へ注入し、終了時に Close します。
type Broker struct {
	client *asynq.Client
}

// NewBroker は Redis 接続URLから Broker を作成します。
func NewBroker(redisURL string) (*Broker, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return &Broker{client: asynq.NewClient(opt)}, nil
}

// Enqueue はメッセージを操作専用キューへ永続投入します。
// ブローカーに到達できない場合は同期的にエラーを返します。
func (b *Broker) Enqueue(ctx context.Context, msg job.Message) error {
	if msg.JobID == "" {
		return fmt.Errorf("message jobId is required")
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TaskType(msg.Operation), body, asynq.Queue(QueueName(msg.Operation)))
	if _, err := b.client.EnqueueContext(ctx, task, asynq.MaxRetry(maxRetry)); err != nil {
		return err
	}
	return nil
}

// Close はブローカー接続を閉じます。
func (b *Broker) Close() error {
	return b.client.Close()
}

// DecodeMessage はタスクのペイロードからキューメッセージを復元します。
func DecodeMessage(task *asynq.Task) (job.Message, error) {
	var msg job.Message
	if err := json.Unmarshal(task.Payload(), &msg); err != nil {
		return job.Message{}, fmt.Errorf("failed to unmarshal task payload: %w", err)
	}
	if msg.JobID == "" {
		return job.Message{}, fmt.Errorf("missing jobId in payload")
	}
	return msg, nil
}

// NewServer は1操作専用のワーカーサーバーを作成します。Concurrency 1 と
// 単一キューの組み合わせで、ワーカーインスタンスあたり同時に1メッセージ
// だけが配送されます（prefetch=1 相当）。ハンドラーが nil を返すと ack、
// エラーを返すとメッセージは未確認のまま残り再配送されます。
func NewServer(redisURL string, op job.Operation) (*asynq.Server, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	server := asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				QueueName(op): 1,
			},
		},
	)
	return server, nil
}
