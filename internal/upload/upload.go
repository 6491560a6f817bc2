// Package upload はアップロードされたファイルを所有者ごとの保存領域へ
// 永続化します。ジョブ作成前の入力ファイル準備を担う協調コンポーネントで、
// ジョブパイプライン本体には含まれません。
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/yourusername/dono-pdf/internal/job"
)

// 受け付けるMIMEタイプ。拡張子ではなく内容のシグネチャで検証します。
var allowedMIMEs = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
	"image/jpeg",
	"image/png",
}

// Saver はアップロードファイルの保存を行います。
type Saver struct {
	dir         string
	maxFileSize int64
	maxFiles    int
}

// NewSaver は Saver を作成します。dir は保存先ルートディレクトリです。
func NewSaver(dir string, maxFileSize int64, maxFiles int) *Saver {
	return &Saver{
		dir:         dir,
		maxFileSize: maxFileSize,
		maxFiles:    maxFiles,
	}
}

// Save はアップロードされた全ファイルを所有者のディレクトリへ保存し、
// 保存先パスと元ファイル名を同じ順序で返します。途中で失敗した場合は
// 保存済みのファイルを削除してからエラーを返します。
func (s *Saver) Save(ownerID string, files []*multipart.FileHeader) (paths []string, names []string, err error) {
	if ownerID == "" {
		return nil, nil, job.NewError("INVALID_INPUT", "ownerId を指定してください。", nil)
	}
	if len(files) == 0 {
		return nil, nil, job.NewError("INVALID_INPUT", "アップロードされたファイルが見つかりません。", nil)
	}
	if s.maxFiles > 0 && len(files) > s.maxFiles {
		return nil, nil, job.NewError("LIMIT_EXCEEDED",
			fmt.Sprintf("一度にアップロードできるファイルは%d件までです。", s.maxFiles), nil)
	}

	ownerDir := filepath.Join(s.dir, ownerID)
	if err := os.MkdirAll(ownerDir, 0o750); err != nil {
		return nil, nil, fmt.Errorf("保存先ディレクトリの作成に失敗しました: %w", err)
	}

	defer func() {
		if err != nil {
			Cleanup(paths)
			paths, names = nil, nil
		}
	}()

	for _, fh := range files {
		if s.maxFileSize > 0 && fh.Size > s.maxFileSize {
			return paths, names, job.NewError("LIMIT_EXCEEDED",
				fmt.Sprintf("ファイルサイズが上限を超えています: %s", fh.Filename), nil)
		}

		storedPath := filepath.Join(ownerDir, storedName(fh.Filename))
		if err := saveFile(fh, storedPath); err != nil {
			return paths, names, err
		}
		paths = append(paths, storedPath)
		names = append(names, fh.Filename)

		if err := validateContent(storedPath, fh.Filename); err != nil {
			return paths, names, err
		}
	}

	return paths, names, nil
}

// Cleanup は保存済みファイルを削除します。存在しないファイルは無視します。
func Cleanup(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}

// storedName は元ファイル名にUUIDを付与した一意な保存名を返します。
func storedName(originalName string) string {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(originalName), ext)
	return fmt.Sprintf("%s-%s%s", base, uuid.NewString(), ext)
}

func saveFile(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("アップロードファイルのオープンに失敗しました: %w", err)
	}
	defer src.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return fmt.Errorf("保存先ファイルの作成に失敗しました: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("ファイルの保存に失敗しました: %w", err)
	}
	return nil
}

func validateContent(path, originalName string) error {
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("ファイル内容の判定に失敗しました: %w", err)
	}
	for _, allowed := range allowedMIMEs {
		if detected.Is(allowed) {
			return nil
		}
	}
	return job.NewError("INVALID_INPUT",
		fmt.Sprintf("対応していないファイル形式です: %s (%s)", originalName, detected.String()), nil)
}
