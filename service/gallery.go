package service

import (
	"context"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// GalleryItem is what the frontend renders. Items are built fresh on every
// listing request and never cached beyond it since signed URLs expire.
type GalleryItem struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
	URL          string    `json:"url"`
}

// URLResolver turns a key into something a browser can open. Exactly one
// strategy is active per deployment, picked at startup.
type URLResolver interface {
	Resolve(ctx context.Context, key string) (string, error)
}

// PublicResolver joins a public bucket base URL with the escaped key. No
// network call, no expiry.
type PublicResolver struct {
	Base string
}

func (p *PublicResolver) Resolve(_ context.Context, key string) (string, error) {
	segs := strings.Split(key, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}

	return p.Base + "/" + strings.Join(segs, "/"), nil
}

// SignedResolver mints a fresh time limited GET URL per item. These URLs must
// not be persisted or reused past their expiry.
type SignedResolver struct {
	Store  ObjectStore
	Expiry time.Duration
}

func (r *SignedResolver) Resolve(ctx context.Context, key string) (string, error) {
	return r.Store.PresignGet(ctx, key, r.Expiry)
}

// Projector turns raw source entries into the ordered gallery listing
type Projector struct {
	Source   Source
	Resolver URLResolver
	// Display cap, not a pagination cursor. Older items past it stay
	// invisible until newer ones are removed.
	MaxItems int
}

// Project lists the active source, orders entries newest first, caps them and
// resolves a URL for each. The gallery is best effort: on any failure the
// result is an empty listing, never an error, so the page rendering it can't
// break.
func (p *Projector) Project(ctx context.Context) ([]GalleryItem, int) {
	entries, err := p.Source.List(ctx)
	if err != nil {
		zap.L().Error("Failed to list gallery source", zap.Error(err))
		return []GalleryItem{}, 0
	}

	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Key != "" {
			kept = append(kept, e)
		}
	}

	// Zero timestamps naturally end up last in descending order
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].LastModified.After(kept[j].LastModified)
	})

	if p.MaxItems > 0 && len(kept) > p.MaxItems {
		kept = kept[:p.MaxItems]
	}

	items := make([]GalleryItem, len(kept))
	errChan := make(chan error, len(kept))

	var wg sync.WaitGroup

	// Signing calls are independent, so run them concurrently. Writing into
	// a fixed slot keeps the sorted order no matter which call finishes first.
	for i, e := range kept {
		wg.Add(1)

		go func(i int, e Entry) {
			defer wg.Done()

			u, err := p.Resolver.Resolve(ctx, e.Key)
			if err != nil {
				errChan <- err
				return
			}

			name := e.Name
			if name == "" {
				name = path.Base(e.Key)
			}

			items[i] = GalleryItem{
				Key:          e.Key,
				Name:         name,
				Size:         e.Size,
				LastModified: e.LastModified,
				URL:          u,
			}

			errChan <- nil
		}(i, e)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			zap.L().Error("Failed to resolve gallery item URL", zap.Error(err))
			return []GalleryItem{}, 0
		}
	}

	return items, len(items)
}
