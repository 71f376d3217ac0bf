// Package model defines database models
package model

// Stats is the single-row usage ledger. The incremental counters are bumped on
// every accepted presign request and may drift from the bucket until the next
// resync, which recounts from a live listing and overwrites them.
type Stats struct {
	ID             uint        `gorm:"primaryKey" json:"-"`
	ObjectCount    int64       `json:"objectCount"`
	BytesStored    int64       `json:"bytesStored"`
	BytesRequested int64       `json:"bytesRequested"`
	Contributors   StringSlice `gorm:"type:text" json:"contributors"`
	// Unix second timestamps
	LastUpdated  int64 `json:"lastUpdated"`
	LastSyncedAt int64 `json:"lastSyncedAt"`
}
