package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/dono-pdf/internal/job"
)

// StreamHandler は GET /api/job/stream/:id のハンドラーを返します。
// Server-Sent Events でジョブの現在状態を一定間隔で配信し、終端状態の
// 配信後またはクライアント切断時に接続を閉じます。ストアを読むだけの
// ベストエフォートなミラーで、中間状態の取りこぼしは許容します。
func StreamHandler(store Getter, interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := strings.TrimSpace(c.Param("id"))
		if jobID == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "jobId を指定してください。",
			})
			return
		}

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")

		ctx := c.Request.Context()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			record, err := store.Get(ctx, jobID)
			if err != nil {
				c.SSEvent("error", gin.H{"error": errorPayload(err)})
				c.Writer.Flush()
				return
			}

			c.SSEvent("status", gin.H{
				"status":      record.Status,
				"outputPaths": record.OutputPaths,
			})
			c.Writer.Flush()

			if record.Status.Terminal() {
				return
			}

			select {
			case <-ctx.Done():
				// クライアント切断。ポーリングを止めて接続を解放する。
				return
			case <-ticker.C:
			}
		}
	}
}

func errorPayload(err error) string {
	var jobErr *job.Error
	if errors.As(err, &jobErr) {
		return jobErr.Message
	}
	return "ジョブ情報の取得に失敗しました。"
}
