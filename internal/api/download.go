package api

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/dono-pdf/internal/download"
)

// DownloadFileHandler は GET /api/job/download/:jobId/:fileIndex のハンドラーを
// 返します。完了したジョブの成果物を1件ストリーム返却します。
func DownloadFileHandler(svc *download.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := strings.TrimSpace(c.Param("jobId"))
		if jobID == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "jobId を指定してください。",
			})
			return
		}

		fileIndex, err := strconv.Atoi(c.Param("fileIndex"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "fileIndex は整数で指定してください。",
			})
			return
		}

		result, file, err := svc.OpenFile(c.Request.Context(), jobID, fileIndex)
		if err != nil {
			respondWithError(c, err)
			return
		}
		defer file.Close()

		streamFile(c, result, file)
	}
}

// DownloadAllHandler は GET /api/job/download/:jobId のハンドラーを返します。
// 成果物が1件ならそのままストリームし、複数件ならZIPアーカイブを動的に
// 組み立ててストリームします。
func DownloadAllHandler(svc *download.Service, logger *log.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = log.Default()
	}
	return func(c *gin.Context) {
		jobID := strings.TrimSpace(c.Param("jobId"))
		if jobID == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "jobId を指定してください。",
			})
			return
		}

		record, err := svc.Resolve(c.Request.Context(), jobID)
		if err != nil {
			respondWithError(c, err)
			return
		}

		if len(record.OutputPaths) == 1 {
			result, file, err := svc.OpenFile(c.Request.Context(), jobID, 0)
			if err != nil {
				respondWithError(c, err)
				return
			}
			defer file.Close()
			streamFile(c, result, file)
			return
		}

		archive, err := svc.BuildArchive(c.Request.Context(), jobID)
		if err != nil {
			respondWithError(c, err)
			return
		}

		c.Header("Content-Type", "application/zip")
		c.Header("Content-Disposition", attachmentDisposition(archive.Name))
		c.Header("Cache-Control", "no-store")
		c.Status(http.StatusOK)

		if err := archive.WriteTo(c.Writer); err != nil {
			// ヘッダー送信後のためレスポンスコードは変えられない
			logger.Printf("job %s: archive stream failed: %v", jobID, err)
		}
	}
}

func streamFile(c *gin.Context, result *download.FileResult, file *os.File) {
	c.Header("Content-Disposition", attachmentDisposition(result.Filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, result.Size, result.ContentType, file, nil)
}

func attachmentDisposition(filename string) string {
	encodedName := url.PathEscape(filename)
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s", filename, encodedName)
}
