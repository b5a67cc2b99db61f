package backups

import "time"

// ThemeBackup is a versioned snapshot of a store's theme.
type ThemeBackup struct {
	ID          string    `json:"id"`
	StoreID     string    `json:"store_id"`
	Owner       string    `json:"created_by"`
	ThemeID     string    `json:"theme_id"`
	ThemeName   string    `json:"theme_name"`
	Notes       string    `json:"notes,omitempty"`
	Version     int       `json:"version"`
	ArtifactURL string    `json:"artifact_url,omitempty"`
	ArtifactKey string    `json:"artifact_key,omitempty"`
	SizeBytes   int64     `json:"size_bytes,omitempty"`
	CreatedAt   time.Time `json:"created_date"`
}

// NextVersion is one past the highest existing version, starting at 1.
func NextVersion(existing []*ThemeBackup) int {
	max := 0
	for _, b := range existing {
		if b.Version > max {
			max = b.Version
		}
	}
	return max + 1
}
