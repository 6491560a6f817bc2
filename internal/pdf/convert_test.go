package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yourusername/dono-pdf/internal/job"
)

func TestConvertText(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(input, []byte("hello world\nsecond line"), 0o640); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	converter := &Converter{}
	output := OutputPathFor(input)
	if err := converter.Convert(context.Background(), input, output); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}

	count, err := PageCount(output)
	if err != nil {
		t.Fatalf("PageCount returned error: %v", err)
	}
	if count < 1 {
		t.Fatalf("converted PDF has %d pages", count)
	}
}

func TestConvertUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "slides.pptx")
	if err := os.WriteFile(input, []byte("not really a pptx"), 0o640); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	converter := &Converter{}
	err := converter.Convert(context.Background(), input, OutputPathFor(input))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	var jobErr *job.Error
	if !errors.As(err, &jobErr) || jobErr.Code != "UNSUPPORTED_FORMAT" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOutputPathFor(t *testing.T) {
	cases := map[string]string{
		"/data/user-1/report.docx":  "/data/user-1/report.pdf",
		"/data/user-1/notes.txt":    "/data/user-1/notes.pdf",
		"/data/user-1/photo.a.jpeg": "/data/user-1/photo.a.pdf",
		"/data/user-1/already.pdf":  "/data/user-1/already.pdf",
	}
	for input, want := range cases {
		if got := OutputPathFor(input); got != want {
			t.Fatalf("OutputPathFor(%q) = %q, want %q", input, got, want)
		}
	}

	// 同じ入力からは常に同じ出力パスが得られる
	if OutputPathFor("/data/a.txt") != OutputPathFor("/data/a.txt") {
		t.Fatal("OutputPathFor is not deterministic")
	}
}
