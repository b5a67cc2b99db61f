package audit

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind of audit entry.
type Kind string

const (
	KindScan         Kind = "scan"
	KindOptimization Kind = "optimization"
)

// Entry is one line of the merged activity log.
type Entry struct {
	ID             string          `json:"id"`
	Type           Kind            `json:"type"`
	Title          string          `json:"title"`
	Status         string          `json:"status"`
	Progress       int             `json:"progress,omitempty"`
	CreatedAt      time.Time       `json:"created_date"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	JobType        string          `json:"job_type,omitempty"`
	ItemsTotal     int             `json:"items_total,omitempty"`
	ItemsProcessed int             `json:"items_processed,omitempty"`
	Results        json.RawMessage `json:"results,omitempty"`
	ErrorMessage   string          `json:"error_message,omitempty"`
	ScanType       string          `json:"scan_type,omitempty"`
	IssuesFound    int             `json:"issues_found,omitempty"`
	PagesScanned   int             `json:"pages_scanned,omitempty"`
}

// Details is the one-line summary used by the CSV export.
func (e Entry) Details() string {
	if e.Type == KindScan {
		return fmt.Sprintf("%d issues found", e.IssuesFound)
	}
	return fmt.Sprintf("%d/%d items", e.ItemsProcessed, e.ItemsTotal)
}

type Filter struct {
	Type   string
	Status string
	Search string
}

func (f Filter) Apply(in []Entry) []Entry {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Entry, 0, len(in))
	for _, e := range in {
		if f.Type != "" && f.Type != "all" && string(e.Type) != f.Type {
			continue
		}
		if f.Status != "" && f.Status != "all" && e.Status != f.Status {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(e.Title), q) {
			continue
		}
		out = append(out, e)
	}
	return out
}
