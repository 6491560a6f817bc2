package job

import (
	"errors"
	"testing"
)

func TestParseOperation(t *testing.T) {
	for _, valid := range []string{"convert", "merge", "split"} {
		op, err := ParseOperation(valid)
		if err != nil {
			t.Fatalf("ParseOperation(%q) returned error: %v", valid, err)
		}
		if string(op) != valid {
			t.Fatalf("ParseOperation(%q) = %q", valid, op)
		}
	}

	if _, err := ParseOperation("rotate"); err == nil {
		t.Fatal("expected error for unknown operation")
	}
}

func TestStatusTerminal(t *testing.T) {
	cases := map[Status]bool{
		StatusPending:    false,
		StatusProcessing: false,
		StatusCompleted:  true,
		StatusFailed:     true,
	}
	for status, want := range cases {
		if got := status.Terminal(); got != want {
			t.Fatalf("Terminal(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusProcessing},
		{StatusPending, StatusFailed},
		{StatusProcessing, StatusProcessing},
		{StatusProcessing, StatusCompleted},
		{StatusProcessing, StatusFailed},
	}
	for _, tc := range allowed {
		if !canTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to Status }{
		{StatusCompleted, StatusFailed},
		{StatusCompleted, StatusProcessing},
		{StatusFailed, StatusCompleted},
		{StatusFailed, StatusProcessing},
		{StatusProcessing, StatusPending},
		{StatusPending, StatusCompleted},
	}
	for _, tc := range denied {
		if canTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}

func TestDraftValidate(t *testing.T) {
	valid := Draft{
		OwnerID:           "user-1",
		Operation:         OperationConvert,
		InputPaths:        []string{"/data/user-1/a.docx"},
		OriginalFileNames: []string{"a.docx"},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid draft rejected: %v", err)
	}

	cases := []struct {
		name  string
		draft Draft
	}{
		{
			name: "missing owner",
			draft: Draft{
				Operation:         OperationConvert,
				InputPaths:        []string{"/data/a.docx"},
				OriginalFileNames: []string{"a.docx"},
			},
		},
		{
			name:  "empty inputs",
			draft: Draft{OwnerID: "user-1", Operation: OperationMerge},
		},
		{
			name: "mismatched names",
			draft: Draft{
				OwnerID:           "user-1",
				Operation:         OperationMerge,
				InputPaths:        []string{"/data/a.pdf", "/data/b.pdf"},
				OriginalFileNames: []string{"a.pdf"},
			},
		},
		{
			name: "split without range",
			draft: Draft{
				OwnerID:           "user-1",
				Operation:         OperationSplit,
				InputPaths:        []string{"/data/a.pdf"},
				OriginalFileNames: []string{"a.pdf"},
			},
		},
		{
			name: "split with non-positive start",
			draft: Draft{
				OwnerID:           "user-1",
				Operation:         OperationSplit,
				InputPaths:        []string{"/data/a.pdf"},
				OriginalFileNames: []string{"a.pdf"},
				SplitRange:        &SplitRange{Start: 0, End: 3},
			},
		},
		{
			name: "split with end before start",
			draft: Draft{
				OwnerID:           "user-1",
				Operation:         OperationSplit,
				InputPaths:        []string{"/data/a.pdf"},
				OriginalFileNames: []string{"a.pdf"},
				SplitRange:        &SplitRange{Start: 5, End: 2},
			},
		},
	}

	for _, tc := range cases {
		err := tc.draft.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		var jobErr *Error
		if !errors.As(err, &jobErr) || jobErr.Code != "INVALID_INPUT" {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
	}
}

func TestNewMessage(t *testing.T) {
	record := &Record{
		ID:                "job-1",
		OwnerID:           "user-1",
		Operation:         OperationSplit,
		InputPaths:        []string{"/data/a.pdf"},
		OriginalFileNames: []string{"a.pdf"},
		SplitRange:        &SplitRange{Start: 2, End: 4},
		Status:            StatusPending,
	}

	msg := NewMessage(record)
	if msg.JobID != "job-1" || msg.Operation != OperationSplit || msg.Status != StatusPending {
		t.Fatalf("unexpected message: %#v", msg)
	}
	if msg.SplitRange == nil || msg.SplitRange.Start != 2 || msg.SplitRange.End != 4 {
		t.Fatalf("split range not carried over: %#v", msg.SplitRange)
	}
}
