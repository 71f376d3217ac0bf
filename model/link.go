package model

// Link is one accepted upload recorded locally. When gallery.source is set to
// "ledger" these rows are the gallery's source of truth instead of the live
// bucket listing.
type Link struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Key         string `gorm:"uniqueIndex" json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Contributor string `json:"-"`
	// Unix millisecond timestamp
	CreatedAt int64 `gorm:"not null" json:"created_at"`
}
