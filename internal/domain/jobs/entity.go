package jobs

import (
	"encoding/json"
	"time"
)

// Type enum
type Type string

const (
	TypeImageOptimization   Type = "image_optimization"
	TypePerformanceFix      Type = "performance_fix"
	TypeTemplateGeneration  Type = "template_generation"
	TypeSEOGeneration       Type = "seo_generation"
	TypePerformanceAnalysis Type = "performance_analysis"
	TypeLinkScan            Type = "link_scan"
	TypeUXAnalysis          Type = "ux_analysis"
	TypeAccessibilityAudit  Type = "accessibility_audit"
	TypePricingAnalysis     Type = "pricing_analysis"
	TypeProductAnalysis     Type = "product_analysis"
	TypeReviewImport        Type = "review_import"
)

// Status enum
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// OptimizationJob tracks the progress of a delegated backend task.
type OptimizationJob struct {
	ID             string          `json:"id"`
	StoreID        string          `json:"store_id"`
	Owner          string          `json:"created_by"`
	JobType        Type            `json:"job_type"`
	Title          string          `json:"title"`
	Status         Status          `json:"status"`
	Progress       int             `json:"progress"`
	ItemsTotal     int             `json:"items_total"`
	ItemsProcessed int             `json:"items_processed"`
	Results        json.RawMessage `json:"results,omitempty"`
	ErrorMessage   string          `json:"error_message,omitempty"`
	StartedAt      time.Time       `json:"started_at"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	CreatedAt      time.Time       `json:"created_date"`
}

// Advance records processed items and derives progress from them.
// The job completes once every item is processed.
func (j *OptimizationJob) Advance(processed int, now time.Time) {
	if processed < 0 {
		processed = 0
	}
	if j.ItemsTotal > 0 && processed > j.ItemsTotal {
		processed = j.ItemsTotal
	}
	j.ItemsProcessed = processed
	j.Progress = Progress(processed, j.ItemsTotal)
	if j.ItemsTotal > 0 && processed == j.ItemsTotal {
		j.Status = StatusCompleted
		j.CompletedAt = &now
		return
	}
	j.Status = StatusProcessing
}

// Complete marks every item processed and stores the results.
func (j *OptimizationJob) Complete(results json.RawMessage, now time.Time) {
	if len(results) > 0 {
		j.Results = results
	}
	j.ItemsProcessed = j.ItemsTotal
	j.Progress = 100
	j.Status = StatusCompleted
	j.CompletedAt = &now
}

// Fail marks the job failed, keeping whatever progress it reached.
func (j *OptimizationJob) Fail(err error, now time.Time) {
	j.Status = StatusFailed
	if err != nil {
		j.ErrorMessage = err.Error()
	}
	j.CompletedAt = &now
}

// Progress is floor(processed/total*100), bounded to 0..100.
func Progress(processed, total int) int {
	if total <= 0 || processed <= 0 {
		return 0
	}
	if processed >= total {
		return 100
	}
	return processed * 100 / total
}

// Filter for listing jobs.
type Filter struct {
	StoreID string
	Owner   string
	JobType Type
	Limit   int
}
