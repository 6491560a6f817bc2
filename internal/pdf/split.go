package pdf

import (
	"context"
	"fmt"
	"strconv"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/yourusername/dono-pdf/internal/job"
)

// PageCount はPDFのページ数を返します。
func PageCount(inputPath string) (int, error) {
	count, err := pdfapi.PageCountFile(inputPath)
	if err != nil {
		return 0, job.NewError("TRANSFORM_FAILED",
			"PDFのページ数取得に失敗しました。ファイルが破損していないか確認してください。", err)
	}
	return count, nil
}

// planRange は要求されたページ範囲を実際のページ数に合わせて正規化します。
// 終了ページは最終ページへ切り詰め、切り詰め後に開始が終了を超える場合は
// エラーになります。
func planRange(requested job.SplitRange, totalPages int) (job.SplitRange, error) {
	if requested.Start <= 0 {
		return job.SplitRange{}, job.NewError("INVALID_INPUT",
			"開始ページは1以上で指定してください。", nil)
	}
	end := requested.End
	if end > totalPages {
		end = totalPages
	}
	if requested.Start > end {
		return job.SplitRange{}, job.NewError("INVALID_INPUT",
			fmt.Sprintf("開始ページ %d が終了ページ %d を超えています（全%dページ）。",
				requested.Start, end, totalPages), nil)
	}
	return job.SplitRange{Start: requested.Start, End: end}, nil
}

// ExtractRange は指定ページ範囲（1-based、両端含む）を抽出して1つのPDFへ
// 書き出します。
func ExtractRange(ctx context.Context, inputPath, outputPath string, requested job.SplitRange) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	totalPages, err := PageCount(inputPath)
	if err != nil {
		return err
	}
	rng, err := planRange(requested, totalPages)
	if err != nil {
		return err
	}

	if err := pdfapi.CollectFile(inputPath, outputPath, buildPageSelection(rng), nil); err != nil {
		return job.NewError("TRANSFORM_FAILED",
			fmt.Sprintf("ページ範囲 %d-%d の抽出に失敗しました。", rng.Start, rng.End), err)
	}
	return nil
}

func buildPageSelection(rng job.SplitRange) []string {
	pages := make([]string, 0, rng.End-rng.Start+1)
	for p := rng.Start; p <= rng.End; p++ {
		pages = append(pages, strconv.Itoa(p))
	}
	return pages
}
