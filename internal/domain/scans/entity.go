package scans

import (
	"errors"
	"time"
)

// ErrScanInProgress is returned when a store already has a running scan.
var ErrScanInProgress = errors.New("a scan is already running for this store")

// Status enum
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Done reports whether the scan reached a terminal state.
func (s Status) Done() bool { return s == StatusCompleted || s == StatusFailed }

// IssueType enum
type IssueType string

const (
	TypePerformance   IssueType = "performance"
	TypeSEO           IssueType = "seo"
	TypeAccessibility IssueType = "accessibility"
	TypeContent       IssueType = "content"
	TypeBloat         IssueType = "bloat"
)

// Impact enum
type Impact string

const (
	ImpactCritical Impact = "critical"
	ImpactHigh     Impact = "high"
	ImpactMedium   Impact = "medium"
	ImpactLow      Impact = "low"
)

// IssueStatus enum
type IssueStatus string

const (
	IssueOpen    IssueStatus = "open"
	IssueFixed   IssueStatus = "fixed"
	IssueIgnored IssueStatus = "ignored"
)

// Counts value object
type Counts struct {
	IssuesFound int `json:"issues_found"`
	Critical    int `json:"critical_issues"`
	High        int `json:"high_issues"`
	Medium      int `json:"medium_issues"`
	Low         int `json:"low_issues"`
}

// Aggregate Root: ScanResult
type ScanResult struct {
	ID       string `json:"id"`
	StoreID  string `json:"store_id"`
	Owner    string `json:"created_by"`
	ScanType string `json:"scan_type"`
	Status   Status `json:"status"`
	Counts
	PagesScanned    int        `json:"pages_scanned"`
	Recommendations []string   `json:"recommendations,omitempty"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_date"`
}

// Issue is a single problem surfaced by a scan.
type Issue struct {
	ID              string      `json:"id"`
	ScanID          string      `json:"scan_id"`
	StoreID         string      `json:"store_id"`
	Type            IssueType   `json:"type"`
	Impact          Impact      `json:"impact"`
	Status          IssueStatus `json:"status"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	FixInstructions string      `json:"fix_instructions,omitempty"`
	FixCode         string      `json:"fix_code,omitempty"`
	PageURL         string      `json:"page_url,omitempty"`
	AutoFixable     bool        `json:"auto_fixable"`
	FixedAt         *time.Time  `json:"fixed_at,omitempty"`
	CreatedAt       time.Time   `json:"created_date"`
}
