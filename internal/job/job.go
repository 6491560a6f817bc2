// Package job はドキュメント変換ジョブのモデルと永続化を提供します。
package job

import (
	"fmt"
	"time"
)

// Operation は変換処理の種別を表します。
type Operation string

const (
	OperationConvert Operation = "convert"
	OperationMerge   Operation = "merge"
	OperationSplit   Operation = "split"
)

// ParseOperation は文字列を Operation に変換します。
func ParseOperation(s string) (Operation, error) {
	switch Operation(s) {
	case OperationConvert, OperationMerge, OperationSplit:
		return Operation(s), nil
	default:
		return "", NewError("INVALID_INPUT", fmt.Sprintf("未対応の操作です: %s", s), nil)
	}
}

// Status はジョブの実行状態を表します。
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal は終端状態（completed / failed）かどうかを返します。
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// canTransition は状態遷移の可否を判定します。
// 遷移は pending → processing → {completed, failed} の一方向のみです。
// processing → processing は再配送されたメッセージの再実行のために許可します。
func canTransition(from, to Status) bool {
	switch to {
	case StatusProcessing:
		return from == StatusPending || from == StatusProcessing
	case StatusCompleted:
		return from == StatusProcessing
	case StatusFailed:
		return from == StatusPending || from == StatusProcessing
	default:
		return false
	}
}

// SplitRange は分割対象のページ範囲を表します（Start/Endは1-based, End>=Start）。
type SplitRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Record はジョブの現在状態を表します。
type Record struct {
	ID                string      `json:"id"`
	OwnerID           string      `json:"ownerId"`
	Operation         Operation   `json:"operation"`
	InputPaths        []string    `json:"inputPaths"`
	OriginalFileNames []string    `json:"originalFileNames"`
	SplitRange        *SplitRange `json:"splitRange,omitempty"`
	Status            Status      `json:"status"`
	OutputPaths       []string    `json:"outputPaths"`
	ErrorMessage      string      `json:"errorMessage,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// Draft はジョブ作成リクエストを表します。
type Draft struct {
	OwnerID           string
	Operation         Operation
	InputPaths        []string
	OriginalFileNames []string
	SplitRange        *SplitRange
}

// Validate はジョブ作成前の入力検証を行います。
func (d *Draft) Validate() error {
	if d.OwnerID == "" {
		return NewError("INVALID_INPUT", "ownerId を指定してください。", nil)
	}
	if _, err := ParseOperation(string(d.Operation)); err != nil {
		return err
	}
	if len(d.InputPaths) == 0 {
		return NewError("INVALID_INPUT", "入力ファイルが指定されていません。", nil)
	}
	if len(d.InputPaths) != len(d.OriginalFileNames) {
		return NewError("INVALID_INPUT", "入力ファイルと元ファイル名の数が一致していません。", nil)
	}
	if d.Operation == OperationSplit {
		if d.SplitRange == nil {
			return NewError("INVALID_INPUT", "分割するページ範囲を指定してください。", nil)
		}
		if d.SplitRange.Start <= 0 || d.SplitRange.End < d.SplitRange.Start {
			return NewError("INVALID_INPUT", "ページ範囲が正しくありません。開始は1以上、終了は開始以上で指定してください。", nil)
		}
		if len(d.InputPaths) != 1 {
			return NewError("INVALID_INPUT", "分割処理の入力ファイルは1つだけ指定できます。", nil)
		}
	}
	return nil
}

// Message はワーカーへ渡すキューメッセージです。ジョブのスナップショットを
// 保持し、ワーカーがストアを読み直さずに処理を開始できるようにします。
type Message struct {
	JobID             string      `json:"jobId"`
	OwnerID           string      `json:"ownerId"`
	Operation         Operation   `json:"operation"`
	InputPaths        []string    `json:"inputPaths"`
	OriginalFileNames []string    `json:"originalFileNames"`
	Status            Status      `json:"status"`
	SplitRange        *SplitRange `json:"splitRange,omitempty"`
}

// NewMessage はジョブレコードからキューメッセージを生成します。
func NewMessage(record *Record) Message {
	return Message{
		JobID:             record.ID,
		OwnerID:           record.OwnerID,
		Operation:         record.Operation,
		InputPaths:        record.InputPaths,
		OriginalFileNames: record.OriginalFileNames,
		Status:            record.Status,
		SplitRange:        record.SplitRange,
	}
}
