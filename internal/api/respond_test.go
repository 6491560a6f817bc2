package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/dono-pdf/internal/job"
)

func TestRespondWithError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid input", job.NewError("INVALID_INPUT", "入力が不正です。", nil), http.StatusBadRequest, "INVALID_INPUT"},
		{"job not ready", job.NewError("JOB_NOT_READY", "ジョブはまだ完了していません。", nil), http.StatusBadRequest, "JOB_NOT_READY"},
		{"job not found", job.NewError("JOB_NOT_FOUND", "ジョブが存在しません。", nil), http.StatusNotFound, "JOB_NOT_FOUND"},
		{"file missing", job.NewError("FILE_MISSING", "ファイルが見つかりません。", nil), http.StatusNotFound, "FILE_MISSING"},
		{"limit exceeded", job.NewError("LIMIT_EXCEEDED", "上限を超えています。", nil), http.StatusRequestEntityTooLarge, "LIMIT_EXCEEDED"},
		{"queue unavailable", job.NewError("QUEUE_UNAVAILABLE", "キューに接続できません。", nil), http.StatusInternalServerError, "QUEUE_UNAVAILABLE"},
		{"canceled request", context.Canceled, http.StatusRequestTimeout, "REQUEST_CANCELED"},
		{"unknown error", errors.New("something broke"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondWithError(c, tc.err)

		if w.Code != tc.wantStatus {
			t.Fatalf("%s: status = %d, want %d", tc.name, w.Code, tc.wantStatus)
		}
		payload := decodeBody(t, w)
		if payload["code"] != tc.wantCode {
			t.Fatalf("%s: code = %v, want %s", tc.name, payload["code"], tc.wantCode)
		}
	}
}
