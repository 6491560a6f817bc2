// Package api はジョブパイプラインのHTTPハンドラーを提供します。
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/dono-pdf/internal/job"
)

// respondWithError はコード付きエラーをHTTPレスポンスへ変換します。
// 内部エラーの詳細はクライアントへそのまま返しません。
func respondWithError(c *gin.Context, err error) {
	var jobErr *job.Error
	switch {
	case errors.As(err, &jobErr):
		c.JSON(statusForCode(jobErr.Code), gin.H{
			"code":    jobErr.Code,
			"message": jobErr.Message,
		})
	case errors.Is(err, context.Canceled):
		c.JSON(http.StatusRequestTimeout, gin.H{
			"code":    "REQUEST_CANCELED",
			"message": "リクエストがキャンセルされました。",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "サーバー内部でエラーが発生しました。",
		})
	}
}

func statusForCode(code string) int {
	switch code {
	case "INVALID_INPUT", "UNSUPPORTED_FORMAT", "JOB_NOT_READY":
		return http.StatusBadRequest
	case "JOB_NOT_FOUND", "FILE_MISSING", "NO_OUTPUT":
		return http.StatusNotFound
	case "LIMIT_EXCEEDED":
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
