package service

import (
	"context"
	"net/http"
	"time"

	"bitwise74/gallery-api/model"
	"bitwise74/gallery-api/util"
	"bitwise74/gallery-api/validators"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Grant is a successful admission response. PublicURL is a prediction of
// where the object will live once the client finishes its PUT, the object
// doesn't exist yet when the grant is issued.
type Grant struct {
	URL              string `json:"url"`
	Key              string `json:"key"`
	ExpiresInSeconds int    `json:"expiresInSeconds"`
	PublicURL        string `json:"publicUrl,omitempty"`
}

// Admission validates upload requests against policy and mints write
// credentials for them
type Admission struct {
	Store ObjectStore
	Stats *StatsService
	DB    *gorm.DB
	// Ledger makes accepted requests also create a Link row, which feeds the
	// gallery when the ledger source is active
	Ledger     bool
	PublicBase string
	Expiry     time.Duration
}

// Admit checks the declared type and size against policy, mints a unique key
// and returns a PUT URL scoped to it. The returned status code is 0 on
// success, otherwise it maps the failure for the HTTP layer.
func (a *Admission) Admit(ctx context.Context, filename, contentType string, size int64, contributor string) (*Grant, int, error) {
	if code, err := validators.PresignValidator(contentType, size); err != nil {
		return nil, code, err
	}

	key := util.NewObjectKey(filename, contentType)

	u, err := a.Store.PresignPut(ctx, key, contentType, a.Expiry)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	g := &Grant{
		URL:              u,
		Key:              key,
		ExpiresInSeconds: int(a.Expiry.Seconds()),
	}

	if a.PublicBase != "" {
		p := &PublicResolver{Base: a.PublicBase}
		g.PublicURL, _ = p.Resolve(ctx, key)
	}

	// Bookkeeping must never block or fail the grant
	go a.record(key, contentType, size, contributor)

	return g, 0, nil
}

func (a *Admission) record(key, contentType string, size int64, contributor string) {
	if a.Stats != nil {
		if err := a.Stats.RecordPresign(size, contributor); err != nil {
			zap.L().Error("Failed to record presign stats", zap.Error(err))
		}
	}

	if a.Ledger && a.DB != nil {
		err := a.DB.
			Create(&model.Link{
				Key:         key,
				ContentType: contentType,
				Size:        size,
				Contributor: contributor,
				CreatedAt:   time.Now().UnixMilli(),
			}).
			Error
		if err != nil {
			zap.L().Error("Failed to record link in ledger", zap.Error(err))
		}
	}
}
