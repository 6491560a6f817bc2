// Package download は完了したジョブの成果物をダウンロード可能なストリームへ
// 解決します。
package download

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/yourusername/dono-pdf/internal/job"
)

// Getter はジョブレコードの読み取りです。
type Getter interface {
	Get(ctx context.Context, jobID string) (*job.Record, error)
}

// Service は成果物の解決を行います。ジョブストアを読むだけで変更はしません。
type Service struct {
	store  Getter
	logger *log.Logger
}

// NewService は Service を作成します。
func NewService(store Getter, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		store:  store,
		logger: logger,
	}
}

// FileResult は単一ファイルのダウンロード情報です。
type FileResult struct {
	Path        string
	Filename    string
	ContentType string
	Size        int64
}

// Resolve はジョブを取得し、ダウンロード可能な状態か検証します。
// 存在しない場合は JOB_NOT_FOUND、completed 以外は JOB_NOT_READY、
// 出力が無い場合は NO_OUTPUT を返します。
func (s *Service) Resolve(ctx context.Context, jobID string) (*job.Record, error) {
	record, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if record.Status != job.StatusCompleted {
		return nil, job.NewError("JOB_NOT_READY",
			fmt.Sprintf("ジョブはまだ完了していません（現在: %s）。", record.Status), nil)
	}
	if len(record.OutputPaths) == 0 {
		return nil, job.NewError("NO_OUTPUT", "ダウンロード可能なファイルがありません。", nil)
	}
	return record, nil
}

// OpenFile は指定インデックスの成果物ファイルを開き、ダウンロード情報と
// ファイルハンドルを返します。呼び出し側がクローズします。
func (s *Service) OpenFile(ctx context.Context, jobID string, fileIndex int) (*FileResult, *os.File, error) {
	record, err := s.Resolve(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	if fileIndex < 0 || fileIndex >= len(record.OutputPaths) {
		return nil, nil, job.NewError("FILE_MISSING",
			fmt.Sprintf("指定されたファイル番号は存在しません: %d", fileIndex), nil)
	}

	path := record.OutputPaths[fileIndex]
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, job.NewError("FILE_MISSING", "ファイルがサーバー上に見つかりません。", err)
		}
		return nil, nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, err
	}

	filename := filepath.Base(path)
	result := &FileResult{
		Path:        path,
		Filename:    filename,
		ContentType: ContentTypeFor(filename),
		Size:        info.Size(),
	}
	return result, file, nil
}

// Archive は複数成果物をまとめたZIPストリームです。
type Archive struct {
	Name  string
	paths []string

	logger *log.Logger
}

// BuildArchive はジョブの全成果物のうちディスク上に残っているものから
// アーカイブを組み立てます。消えたファイルは警告の上スキップし、
// 1つも残っていない場合は NO_OUTPUT を返します。
func (s *Service) BuildArchive(ctx context.Context, jobID string) (*Archive, error) {
	record, err := s.Resolve(ctx, jobID)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(record.OutputPaths))
	for _, p := range record.OutputPaths {
		if _, err := os.Stat(p); err != nil {
			s.logger.Printf("job %s: output file missing, skipping: %s", jobID, p)
			continue
		}
		paths = append(paths, p)
	}
	if len(paths) == 0 {
		return nil, job.NewError("NO_OUTPUT", "ダウンロード可能なファイルがありません。", nil)
	}

	return &Archive{
		Name:   fmt.Sprintf("%s_%s.zip", record.Operation, record.ID),
		paths:  paths,
		logger: s.logger,
	}, nil
}

// WriteTo はアーカイブをZIP形式（Deflate圧縮）で書き出します。
// エントリー名は各成果物のベース名で、成果物の並び順どおりに格納します。
func (a *Archive) WriteTo(w io.Writer) error {
	zipWriter := zip.NewWriter(w)

	for _, path := range a.paths {
		if err := addZipEntry(zipWriter, path); err != nil {
			// ストリーム書き込み開始後はエラーをヘッダーで返せない。
			// 組み立て時に存在確認済みのため、ここでの失敗は中断する。
			zipWriter.Close()
			return err
		}
	}
	return zipWriter.Close()
}

func addZipEntry(zipWriter *zip.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("zip入力ファイルのオープンに失敗しました: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("zip入力ファイルの情報取得に失敗しました: %w", err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("zipヘッダーの生成に失敗しました: %w", err)
	}
	header.Name = filepath.Base(path)
	header.Method = zip.Deflate

	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("zipヘッダーの書き込みに失敗しました: %w", err)
	}
	if _, err := io.Copy(writer, file); err != nil {
		return fmt.Errorf("zipへの書き込みに失敗しました: %w", err)
	}
	return nil
}
