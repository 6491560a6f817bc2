package job

import (
	"context"
	"log"
)

// Enqueuer はジョブ実行メッセージをキューへ投入します。
type Enqueuer interface {
	Enqueue(ctx context.Context, msg Message) error
}

// Producer はジョブレコードの作成とキュー投入を担います。
type Producer struct {
	store    *Store
	enqueuer Enqueuer
	logger   *log.Logger
}

// NewProducer は Producer を作成します。
func NewProducer(store *Store, enqueuer Enqueuer, logger *log.Logger) *Producer {
	if logger == nil {
		logger = log.Default()
	}
	return &Producer{
		store:    store,
		enqueuer: enqueuer,
		logger:   logger,
	}
}

// Submit はジョブを pending 状態で作成し、対応するキューへメッセージを投入します。
// キュー投入に失敗した場合はジョブを failed に遷移させてからエラーを返します。
// レコードが作成済みであれば、エラー時でも返り値のレコードは非nilです。
func (p *Producer) Submit(ctx context.Context, draft *Draft) (*Record, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	record, err := p.store.Create(ctx, draft)
	if err != nil {
		return nil, err
	}

	if err := p.enqueuer.Enqueue(ctx, NewMessage(record)); err != nil {
		p.logger.Printf("enqueue failed for job %s: %v", record.ID, err)

		// pending のまま放置しない。キューにメッセージが無いジョブは failed にする。
		const reason = "ジョブのキュー投入に失敗しました。"
		if updateErr := p.store.UpdateStatus(ctx, record.ID, StatusFailed, nil, reason); updateErr != nil {
			p.logger.Printf("failed to mark job %s as failed: %v", record.ID, updateErr)
		} else {
			record.Status = StatusFailed
			record.ErrorMessage = reason
		}
		return record, NewError("QUEUE_UNAVAILABLE", reason, err)
	}

	p.logger.Printf("job %s queued for %s", record.ID, record.Operation)
	return record, nil
}
