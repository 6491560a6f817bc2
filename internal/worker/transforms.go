package worker

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/yourusername/dono-pdf/internal/job"
	"github.com/yourusername/dono-pdf/internal/pdf"
)

// ConvertTransform は入力ファイルごとに種別を判定してPDFへ変換します。
type ConvertTransform struct {
	Converter *pdf.Converter
	Logger    *log.Logger
}

// Execute は全入力の変換を試みます。個々の失敗は残りの入力の処理を止めず、
// 最後に集約します。1つでも失敗した場合はジョブ全体を失敗として扱い、
// 出力は公開しません。
func (t *ConvertTransform) Execute(ctx context.Context, msg job.Message) ([]string, error) {
	outputPaths := make([]string, 0, len(msg.InputPaths))
	var failed []string

	for i, inputPath := range msg.InputPaths {
		outputPath := pdf.OutputPathFor(inputPath)
		if err := t.Converter.Convert(ctx, inputPath, outputPath); err != nil {
			if t.Logger != nil {
				t.Logger.Printf("job %s input %q: %v", msg.JobID, filepath.Base(inputPath), err)
			}
			failed = append(failed, displayName(msg, i))
			continue
		}
		outputPaths = append(outputPaths, outputPath)
	}

	if len(failed) > 0 {
		return nil, job.NewError("TRANSFORM_FAILED",
			fmt.Sprintf("次のファイルを変換できませんでした: %s", strings.Join(failed, ", ")), nil)
	}
	return outputPaths, nil
}

// MergeTransform は全入力PDFを入力順に1つへ結合します。
type MergeTransform struct{}

func (MergeTransform) Execute(ctx context.Context, msg job.Message) ([]string, error) {
	// ジョブIDに基づく決定的な出力名。再実行時は同じファイルを上書きする。
	outputPath := filepath.Join(filepath.Dir(msg.InputPaths[0]), "merged-"+msg.JobID+".pdf")
	if err := pdf.MergeFiles(ctx, msg.InputPaths, outputPath); err != nil {
		return nil, err
	}
	return []string{outputPath}, nil
}

// SplitTransform は単一入力PDFから指定ページ範囲を抽出します。
type SplitTransform struct{}

func (SplitTransform) Execute(ctx context.Context, msg job.Message) ([]string, error) {
	if msg.SplitRange == nil {
		return nil, job.NewError("INVALID_INPUT", "分割するページ範囲が指定されていません。", nil)
	}
	inputPath := msg.InputPaths[0]
	outputPath := filepath.Join(filepath.Dir(inputPath), "split-"+msg.JobID+".pdf")
	if err := pdf.ExtractRange(ctx, inputPath, outputPath, *msg.SplitRange); err != nil {
		return nil, err
	}
	return []string{outputPath}, nil
}

func displayName(msg job.Message, index int) string {
	if index < len(msg.OriginalFileNames) && msg.OriginalFileNames[index] != "" {
		return msg.OriginalFileNames[index]
	}
	return filepath.Base(msg.InputPaths[index])
}
