package pdf

import (
	"context"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/yourusername/dono-pdf/internal/job"
)

// MergeFiles は複数のPDFを入力順に連結して1つのPDFへ書き出します。
func MergeFiles(ctx context.Context, inputPaths []string, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := pdfapi.MergeCreateFile(inputPaths, outputPath, false, nil); err != nil {
		return job.NewError("TRANSFORM_FAILED",
			"PDFの結合に失敗しました。ファイルが破損していないか確認してください。", err)
	}
	return nil
}
