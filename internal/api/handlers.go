package api

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/dono-pdf/internal/job"
	"github.com/yourusername/dono-pdf/internal/upload"
)

// Submitter はジョブの作成とキュー投入を行います。
type Submitter interface {
	Submit(ctx context.Context, draft *job.Draft) (*job.Record, error)
}

// Getter はジョブレコードの読み取りです。
type Getter interface {
	Get(ctx context.Context, jobID string) (*job.Record, error)
}

// Uploader は入力ファイルを所有者ごとの保存領域へ永続化します。
type Uploader interface {
	Save(ownerID string, files []*multipart.FileHeader) ([]string, []string, error)
}

// CreateJobHandler は POST /api/job/{operation} のハンドラーを返します。
// アップロードされたファイルを保存してからジョブを作成・投入します。
func CreateJobHandler(op job.Operation, uploader Uploader, submitter Submitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "multipart/form-data でファイルを送信してください。",
			})
			return
		}
		defer form.RemoveAll()

		files := form.File["files"]
		if len(files) == 0 {
			files = form.File["files[]"]
		}
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "アップロードされたファイルが見つかりません。",
			})
			return
		}

		ownerID := strings.TrimSpace(c.PostForm("ownerId"))

		var splitRange *job.SplitRange
		if op == job.OperationSplit {
			splitRange, err = parseSplitRange(c)
			if err != nil {
				respondWithError(c, err)
				return
			}
		}

		inputPaths, originalNames, err := uploader.Save(ownerID, files)
		if err != nil {
			respondWithError(c, err)
			return
		}

		record, err := submitter.Submit(c.Request.Context(), &job.Draft{
			OwnerID:           ownerID,
			Operation:         op,
			InputPaths:        inputPaths,
			OriginalFileNames: originalNames,
			SplitRange:        splitRange,
		})
		if err != nil {
			upload.Cleanup(inputPaths)
			if record != nil {
				// レコードは作成済みで failed に遷移している
				c.JSON(http.StatusInternalServerError, gin.H{
					"code":    "QUEUE_UNAVAILABLE",
					"message": "ジョブのキュー投入に失敗しました。",
					"jobId":   record.ID,
				})
				return
			}
			respondWithError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"jobId":  record.ID,
			"status": record.Status,
		})
	}
}

// JobStatusHandler は GET /api/job/:id のハンドラーを返します。
func JobStatusHandler(store Getter) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := strings.TrimSpace(c.Param("id"))
		if jobID == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "jobId を指定してください。",
			})
			return
		}

		record, err := store.Get(c.Request.Context(), jobID)
		if err != nil {
			respondWithError(c, err)
			return
		}

		payload := gin.H{
			"jobId":             record.ID,
			"operation":         record.Operation,
			"status":            record.Status,
			"outputPaths":       record.OutputPaths,
			"originalFileNames": record.OriginalFileNames,
			"createdAt":         record.CreatedAt,
			"updatedAt":         record.UpdatedAt,
		}
		if record.ErrorMessage != "" {
			payload["errorMessage"] = record.ErrorMessage
		}
		c.JSON(http.StatusOK, payload)
	}
}

func parseSplitRange(c *gin.Context) (*job.SplitRange, error) {
	startRaw := strings.TrimSpace(c.PostForm("splitStart"))
	endRaw := strings.TrimSpace(c.PostForm("splitEnd"))
	if startRaw == "" || endRaw == "" {
		return nil, job.NewError("INVALID_INPUT", "splitStart と splitEnd を指定してください。", nil)
	}
	start, err := strconv.Atoi(startRaw)
	if err != nil {
		return nil, job.NewError("INVALID_INPUT", "splitStart は整数で指定してください。", nil)
	}
	end, err := strconv.Atoi(endRaw)
	if err != nil {
		return nil, job.NewError("INVALID_INPUT", "splitEnd は整数で指定してください。", nil)
	}
	return &job.SplitRange{Start: start, End: end}, nil
}
