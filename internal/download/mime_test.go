package download

import "testing"

func TestContentTypeFor(t *testing.T) {
	cases := map[string]string{
		"merged-abc.pdf": "application/pdf",
		"report.docx":    "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"legacy.doc":     "application/msword",
		"notes.TXT":      "text/plain",
		"photo.jpeg":     "image/jpeg",
		"diagram.png":    "image/png",
		"unknown.bin":    "application/octet-stream",
		"noextension":    "application/octet-stream",
	}
	for filename, want := range cases {
		if got := ContentTypeFor(filename); got != want {
			t.Fatalf("ContentTypeFor(%q) = %q, want %q", filename, got, want)
		}
	}
}
