// Package worker はキューからジョブを1件ずつ取り出して実行するワーカーを提供します。
package worker

import (
	"context"
	"errors"
	"log"

	"github.com/hibiken/asynq"

	"github.com/yourusername/dono-pdf/internal/job"
	"github.com/yourusername/dono-pdf/internal/queue"
)

// Store はワーカーが必要とするジョブストア操作です。
type Store interface {
	Get(ctx context.Context, jobID string) (*job.Record, error)
	UpdateStatus(ctx context.Context, jobID string, status job.Status, outputPaths []string, errorMessage string) error
}

// Transform は操作固有の変換処理です。成功した場合は生成した出力ファイルの
// パス一覧を返します。
type Transform interface {
	Execute(ctx context.Context, msg job.Message) ([]string, error)
}

// Worker は1つの操作キューを購読するワーカーです。共通の骨格
// （processing への遷移 → 変換 → 終端状態のコミット → ack）を実装し、
// 変換内容だけが Transform によって差し替わります。
type Worker struct {
	op        job.Operation
	store     Store
	transform Transform
	logger    *log.Logger
}

// New は Worker を作成します。
func New(op job.Operation, store Store, transform Transform, logger *log.Logger) *Worker {
	if logger == nil {
		logger = log.Default()
	}
	return &Worker{
		op:        op,
		store:     store,
		transform: transform,
		logger:    logger,
	}
}

// ProcessTask はキューメッセージを1件処理します。nil を返すとメッセージは
// ack され、エラーを返すと未確認のまま残り再配送されます。ストア更新の
// 失敗はエラーとして返し（ack しない）、変換の失敗はジョブの終端状態に
// 集約した上で ack します。
func (w *Worker) ProcessTask(ctx context.Context, task *asynq.Task) error {
	msg, err := queue.DecodeMessage(task)
	if err != nil {
		return err
	}

	current, err := w.store.Get(ctx, msg.JobID)
	if err != nil {
		var jobErr *job.Error
		if errors.As(err, &jobErr) && jobErr.Code == "JOB_NOT_FOUND" {
			// レコードの無いジョブは再配送しても完了できない。
			w.logger.Printf("job %s not found, dropping message", msg.JobID)
			return nil
		}
		return err
	}
	if current.Status.Terminal() {
		// クラッシュ後の再配送。結果はコミット済みなので ack だけ行う。
		w.logger.Printf("job %s already %s, dropping redelivered message", msg.JobID, current.Status)
		return nil
	}

	if err := w.store.UpdateStatus(ctx, msg.JobID, job.StatusProcessing, nil, ""); err != nil {
		return err
	}
	w.logger.Printf("job %s processing (%s)", msg.JobID, w.op)

	outputPaths, execErr := w.transform.Execute(ctx, msg)
	if execErr != nil {
		w.logger.Printf("job %s transform failed: %v", msg.JobID, execErr)
		if err := w.store.UpdateStatus(ctx, msg.JobID, job.StatusFailed, nil, userMessage(execErr)); err != nil {
			return err
		}
		return nil
	}

	if err := w.store.UpdateStatus(ctx, msg.JobID, job.StatusCompleted, outputPaths, ""); err != nil {
		return err
	}
	w.logger.Printf("job %s completed with %d output file(s)", msg.JobID, len(outputPaths))
	return nil
}

// userMessage はクライアントへ保存するエラーメッセージを組み立てます。
// 内部エラーの詳細はそのまま relaying せず、コード付きエラーのメッセージ
// だけを使います。
func userMessage(err error) string {
	var jobErr *job.Error
	if errors.As(err, &jobErr) {
		return jobErr.Message
	}
	return "変換処理中にエラーが発生しました。"
}
