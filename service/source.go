// Package service holds the core logic behind the endpoints: gallery
// projection, upload admission, the stats ledger and admin sessions
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bitwise74/gallery-api/model"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"gorm.io/gorm"
)

// ObjectStore is the part of the storage backend the services need. The R2
// client implements it, tests swap in fakes.
type ObjectStore interface {
	List(ctx context.Context, maxKeys int32) ([]types.Object, error)
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

// Entry is one raw gallery candidate before projection. Name is optional and
// falls back to the key's final path segment.
type Entry struct {
	Key          string
	Name         string
	Size         int64
	LastModified time.Time
}

// Source lists raw gallery entries. Which source is active is decided once at
// startup, never per request.
type Source interface {
	List(ctx context.Context) ([]Entry, error)
}

// BucketSource reads the live bucket listing. This is the default source and
// means a finished upload shows up without any registration step.
type BucketSource struct {
	Store   ObjectStore
	MaxKeys int32
}

func (s *BucketSource) List(ctx context.Context) ([]Entry, error) {
	objs, err := s.Store.List(ctx, s.MaxKeys)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(objs))

	for _, o := range objs {
		var e Entry

		if o.Key != nil {
			e.Key = *o.Key
		}
		if o.Size != nil {
			e.Size = *o.Size
		}
		if o.LastModified != nil {
			e.LastModified = *o.LastModified
		}

		entries = append(entries, e)
	}

	return entries, nil
}

// LedgerSource reads the local link ledger instead of the bucket. Rows are
// written when a presign request is accepted, so entries can exist for
// uploads that never completed.
type LedgerSource struct {
	DB *gorm.DB
}

func (s *LedgerSource) List(ctx context.Context) ([]Entry, error) {
	var links []model.Link

	err := s.DB.
		WithContext(ctx).
		Order("created_at desc").
		Find(&links).
		Error
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(links))

	for _, l := range links {
		entries = append(entries, Entry{
			Key:          l.Key,
			Size:         l.Size,
			LastModified: time.UnixMilli(l.CreatedAt),
		})
	}

	return entries, nil
}

// DriveSource lists a shared drive folder through its REST API. The folder
// endpoint answers {"files": [{id, name, size, modifiedTime}]}.
type DriveSource struct {
	FolderURL string
	APIKey    string
	Client    *http.Client
}

func NewDriveSource(folderURL, apiKey string) *DriveSource {
	return &DriveSource{
		FolderURL: folderURL,
		APIKey:    apiKey,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type driveFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modifiedTime"`
}

func (s *DriveSource) List(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.FolderURL, nil)
	if err != nil {
		return nil, err
	}

	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("folder listing returned status %d", resp.StatusCode)
	}

	var data struct {
		Files []driveFile `json:"files"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(data.Files))

	for _, f := range data.Files {
		// Unparseable timestamps become the zero time and sort last
		mod, _ := time.Parse(time.RFC3339, f.ModifiedTime)

		entries = append(entries, Entry{
			Key:          f.ID,
			Name:         f.Name,
			Size:         f.Size,
			LastModified: mod,
		})
	}

	return entries, nil
}
