package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/sitegauge/batch"
	"github.com/use-agent/sitegauge/config"
	"github.com/use-agent/sitegauge/models"
	"github.com/use-agent/sitegauge/webhook"
)

// batchStore holds all in-flight and completed batch jobs.
var batchStore sync.Map

// jobMu guards mutation of individual job records; GetBatch reads them
// while the background driver is still appending results.
var jobMu sync.Mutex

func init() {
	// Background goroutine to expire batch jobs older than 1 hour.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-1 * time.Hour).Unix()
			batchStore.Range(func(key, value any) bool {
				job := value.(*models.BatchJob)
				if job.CreatedAt < cutoff {
					batchStore.Delete(key)
				}
				return true
			})
		}
	}()
}

// PostBatch returns a handler for POST /api/v1/batch/rate.
// It validates the request, creates a batch job, and launches one
// background goroutine that rates the URLs strictly in order. The rating
// service tolerates one submission at a time, so batches never fan out.
func PostBatch(d *batch.Driver, webhookCfg config.WebhookConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		if len(req.URLs) > 100 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "maximum 100 URLs per batch",
				},
			})
			return
		}

		jobID := "batch-" + randomID()
		job := &models.BatchJob{
			ID:        jobID,
			Status:    "processing",
			Total:     len(req.URLs),
			CreatedAt: time.Now().Unix(),
		}
		batchStore.Store(jobID, job)

		go runBatch(d, job, req, webhookCfg)

		c.JSON(http.StatusOK, models.BatchResponse{
			ID:     jobID,
			Status: "processing",
			Total:  len(req.URLs),
		})
	}
}

// GetBatch returns a handler for GET /api/v1/batch/:id.
func GetBatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("id")
		val, ok := batchStore.Load(jobID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "batch job not found",
				},
			})
			return
		}

		job := val.(*models.BatchJob)
		jobMu.Lock()
		resp := models.BatchStatusResponse{
			ID:        job.ID,
			Status:    job.Status,
			Completed: job.Completed,
			Total:     job.Total,
			Results:   append([]*models.RateResult(nil), job.Results...),
		}
		jobMu.Unlock()
		c.JSON(http.StatusOK, resp)
	}
}

// runBatch drives a job through the sequential batch driver and fires the
// completion webhook if one is configured.
func runBatch(d *batch.Driver, job *models.BatchJob, req models.BatchRequest, webhookCfg config.WebhookConfig) {
	results := d.Run(context.Background(), req.URLs, req.Options, func(result *models.RateResult, completed int) {
		jobMu.Lock()
		job.Results = append(job.Results, result)
		job.Completed = completed
		jobMu.Unlock()
	})

	failed := 0
	for _, r := range results {
		if r.Status == models.StatusError {
			failed++
		}
	}

	jobMu.Lock()
	switch {
	case len(results) > 0 && failed == len(results):
		job.Status = "failed"
	case failed > 0:
		job.Status = "partial"
	default:
		job.Status = "completed"
	}
	job.Results = results
	job.Completed = len(results)
	status := job.Status
	jobMu.Unlock()

	slog.Info("batch job finished",
		"id", job.ID,
		"status", status,
		"completed", len(results)-failed,
		"failed", failed,
		"total", job.Total,
	)

	if webhookCfg.URL != "" {
		webhook.DeliverAsync(webhookCfg.URL, webhookCfg.Secret, &webhook.Event{
			Type:      "batch." + status,
			JobID:     job.ID,
			Timestamp: time.Now().Unix(),
			Data: models.BatchStatusResponse{
				ID:        job.ID,
				Status:    status,
				Completed: len(results),
				Total:     job.Total,
				Results:   results,
			},
		})
	}
}

// randomID generates a short random hex string for job IDs.
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
