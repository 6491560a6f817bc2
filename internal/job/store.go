package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const jobKeyPrefix = "job:"

// Store はジョブ状態を Redis に保存します。
// 1ジョブ = 1キーのJSONとして保持するため、読み手が status と outputPaths の
// 中途半端な組み合わせを観測することはありません。
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore は Store を作成します。ttl が 0 の場合レコードは無期限に保持されます。
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{
		rdb: rdb,
		ttl: ttl,
	}
}

// Create はジョブレコードを pending 状態で作成し、IDを採番して返します。
func (s *Store) Create(ctx context.Context, draft *Draft) (*Record, error) {
	if draft == nil {
		return nil, fmt.Errorf("draft is nil")
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &Record{
		ID:                uuid.NewString(),
		OwnerID:           draft.OwnerID,
		Operation:         draft.Operation,
		InputPaths:        append([]string(nil), draft.InputPaths...),
		OriginalFileNames: append([]string(nil), draft.OriginalFileNames...),
		SplitRange:        draft.SplitRange,
		Status:            StatusPending,
		OutputPaths:       []string{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	if err := s.rdb.Set(ctx, jobKey(record.ID), payload, s.ttl).Err(); err != nil {
		return nil, err
	}
	return record, nil
}

// Get はジョブ情報を取得します。存在しない場合は JOB_NOT_FOUND を返します。
func (s *Store) Get(ctx context.Context, jobID string) (*Record, error) {
	if jobID == "" {
		return nil, NewError("INVALID_INPUT", "jobId を指定してください。", nil)
	}
	data, err := s.rdb.Get(ctx, jobKey(jobID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, notFound(jobID)
		}
		return nil, err
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateStatus はジョブの状態を遷移させます。遷移は一方向のみで、終端状態からの
// 遷移は拒否されます。outputPaths は completed のときだけ保存され、
// errorMessage は failed のときだけ保存されます。
func (s *Store) UpdateStatus(ctx context.Context, jobID string, status Status, outputPaths []string, errorMessage string) error {
	if status == StatusCompleted && len(outputPaths) == 0 {
		return NewError("ILLEGAL_TRANSITION", "completed には出力ファイルが必要です。", nil)
	}
	return s.updatePartial(ctx, jobID, func(record *Record) error {
		if !canTransition(record.Status, status) {
			return NewError("ILLEGAL_TRANSITION",
				fmt.Sprintf("%s から %s への遷移はできません。", record.Status, status), nil)
		}
		record.Status = status
		switch status {
		case StatusCompleted:
			record.OutputPaths = append([]string(nil), outputPaths...)
			record.ErrorMessage = ""
		case StatusFailed:
			record.OutputPaths = []string{}
			record.ErrorMessage = errorMessage
		default:
			record.OutputPaths = []string{}
			record.ErrorMessage = ""
		}
		return nil
	})
}

// updatePartial は Watch による楽観ロックでレコードを読み書きします。
// 競合した場合は読み直して再試行します。
func (s *Store) updatePartial(ctx context.Context, jobID string, mutate func(*Record) error) error {
	key := jobKey(jobID)
	for {
		err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				if err == redis.Nil {
					return notFound(jobID)
				}
				return err
			}
			var record Record
			if err := json.Unmarshal(data, &record); err != nil {
				return err
			}
			if err := mutate(&record); err != nil {
				return err
			}
			record.UpdatedAt = time.Now().UTC()
			payload, err := json.Marshal(&record)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, payload, s.ttl)
				return nil
			})
			return err
		}, key)
		if err == redis.TxFailedErr {
			continue
		}
		return err
	}
}

func notFound(jobID string) *Error {
	return NewError("JOB_NOT_FOUND", fmt.Sprintf("指定されたジョブは存在しません: %s", jobID), nil)
}

func jobKey(id string) string {
	return jobKeyPrefix + id
}
