package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/yourusername/dono-pdf/internal/job"
)

// Converter は単一入力ファイルのPDF変換を行います。
type Converter struct {
	// LibreOfficePath はWord文書変換に使用する実行ファイルのパスです。
	LibreOfficePath string
}

// Convert は入力ファイルを種別に応じてPDFへ変換し、outputPath に書き出します。
// 未対応の種別は UNSUPPORTED_FORMAT エラーになります。
func (c *Converter) Convert(ctx context.Context, inputPath, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch KindForPath(inputPath) {
	case KindWord:
		return c.convertWord(ctx, inputPath, outputPath)
	case KindText:
		return convertText(inputPath, outputPath)
	case KindImage:
		return convertImage(inputPath, outputPath)
	default:
		return job.NewError("UNSUPPORTED_FORMAT",
			fmt.Sprintf("未対応のファイル形式です: %s", filepath.Base(inputPath)), nil)
	}
}

// convertWord は LibreOffice を起動してWord文書をPDFへ変換します。
// LibreOffice は出力先ディレクトリと入力ファイル名から出力名を決めるため、
// 変換後に期待するパスへ揃えます。
func (c *Converter) convertWord(ctx context.Context, inputPath, outputPath string) error {
	outDir := filepath.Dir(outputPath)
	cmd := exec.CommandContext(ctx, c.LibreOfficePath,
		"--headless",
		"--convert-to", "pdf",
		"--outdir", outDir,
		inputPath,
	)
	var stderr bytes.Buffer
	cmd.Stdout = &stderr
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return job.NewError("TRANSFORM_FAILED",
			fmt.Sprintf("LibreOfficeによる変換に失敗しました: %s", stderr.String()), err)
	}

	produced := filepath.Join(outDir, baseWithoutExt(inputPath)+".pdf")
	if produced != outputPath {
		if err := os.Rename(produced, outputPath); err != nil {
			return fmt.Errorf("変換結果の配置に失敗しました: %w", err)
		}
	}
	if _, err := os.Stat(outputPath); err != nil {
		return job.NewError("TRANSFORM_FAILED", "PDFファイルが生成されませんでした。", err)
	}
	return nil
}

// convertText はプレーンテキストをPDFへ描画します。
func convertText(inputPath, outputPath string) error {
	content, err := os.ReadFile(inputPath)
	if err != nil {
		return job.NewError("TRANSFORM_FAILED", "入力テキストの読み込みに失敗しました。", err)
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetFont("Times", "", 12)
	doc.AddPage()
	doc.MultiCell(0, 6, string(content), "", "L", false)

	if err := doc.OutputFileAndClose(outputPath); err != nil {
		return job.NewError("TRANSFORM_FAILED", "テキストのPDF変換に失敗しました。", err)
	}
	return nil
}

// convertImage は画像を1ページのPDFとして取り込みます。
func convertImage(inputPath, outputPath string) error {
	if err := pdfapi.ImportImagesFile([]string{inputPath}, outputPath, nil, nil); err != nil {
		return job.NewError("TRANSFORM_FAILED", "画像のPDF変換に失敗しました。", err)
	}
	return nil
}

func baseWithoutExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPathFor は入力ファイルに対する決定的な出力パスを返します。
// 入力と同じディレクトリに、拡張子を .pdf に置き換えた名前で出力します。
// 決定的であるため、再配送されたメッセージの再実行は同じファイルを上書きします。
func OutputPathFor(inputPath string) string {
	return filepath.Join(filepath.Dir(inputPath), baseWithoutExt(inputPath)+".pdf")
}
