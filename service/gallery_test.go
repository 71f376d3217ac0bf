package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu        sync.Mutex
	objects   []types.Object
	listErr   error
	getErr    error
	putErr    error
	deleteErr error
	putKeys   []string
	deleted   []string
}

func (f *fakeStore) List(_ context.Context, _ int32) ([]types.Object, error) {
	return f.objects, f.listErr
}

func (f *fakeStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return "https://signed.example/" + key, nil
}

func (f *fakeStore) PresignPut(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}

	f.mu.Lock()
	f.putKeys = append(f.putKeys, key)
	f.mu.Unlock()

	return "https://put.example/" + key, nil
}

func (f *fakeStore) DeleteObject(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}

	f.mu.Lock()
	f.deleted = append(f.deleted, key)
	f.mu.Unlock()

	return nil
}

type sourceFunc func(ctx context.Context) ([]Entry, error)

func (f sourceFunc) List(ctx context.Context) ([]Entry, error) { return f(ctx) }

type resolverFunc func(ctx context.Context, key string) (string, error)

func (f resolverFunc) Resolve(ctx context.Context, key string) (string, error) { return f(ctx, key) }

func staticSource(entries ...Entry) Source {
	return sourceFunc(func(context.Context) ([]Entry, error) { return entries, nil })
}

func signedFake() URLResolver {
	return resolverFunc(func(_ context.Context, key string) (string, error) {
		return "https://signed.example/" + key, nil
	})
}

func TestProject_OrdersNewestFirst(t *testing.T) {
	now := time.Now()

	p := &Projector{
		Source: staticSource(
			Entry{Key: "middle.mp4", LastModified: now.Add(-time.Hour)},
			Entry{Key: "newest.mp4", LastModified: now},
			Entry{Key: "oldest.mp4", LastModified: now.Add(-2 * time.Hour)},
		),
		Resolver: signedFake(),
		MaxItems: 100,
	}

	items, count := p.Project(context.Background())

	require.Equal(t, 3, count)
	assert.Equal(t, "newest.mp4", items[0].Key)
	assert.Equal(t, "middle.mp4", items[1].Key)
	assert.Equal(t, "oldest.mp4", items[2].Key)

	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].LastModified.After(items[i-1].LastModified))
	}
}

func TestProject_ZeroTimestampsSortLast(t *testing.T) {
	now := time.Now()

	p := &Projector{
		Source: staticSource(
			Entry{Key: "no-time.mp4"},
			Entry{Key: "old.mp4", LastModified: now.Add(-24 * time.Hour)},
			Entry{Key: "new.mp4", LastModified: now},
		),
		Resolver: signedFake(),
		MaxItems: 100,
	}

	items, count := p.Project(context.Background())

	require.Equal(t, 3, count)
	assert.Equal(t, "no-time.mp4", items[2].Key)
}

func TestProject_CapsAtMaxItems(t *testing.T) {
	now := time.Now()

	p := &Projector{
		Source: staticSource(
			Entry{Key: "e1.mp4", LastModified: now.Add(-1 * time.Minute)},
			Entry{Key: "e2.mp4", LastModified: now.Add(-2 * time.Minute)},
			Entry{Key: "e3.mp4", LastModified: now.Add(-3 * time.Minute)},
			Entry{Key: "e4.mp4", LastModified: now.Add(-4 * time.Minute)},
			Entry{Key: "e5.mp4", LastModified: now.Add(-5 * time.Minute)},
		),
		Resolver: signedFake(),
		MaxItems: 3,
	}

	items, count := p.Project(context.Background())

	require.Equal(t, 3, count)
	assert.Equal(t, "e1.mp4", items[0].Key)
	assert.Equal(t, "e3.mp4", items[2].Key)
}

func TestProject_EmptySourceIsNotAnError(t *testing.T) {
	p := &Projector{
		Source:   staticSource(),
		Resolver: signedFake(),
		MaxItems: 100,
	}

	items, count := p.Project(context.Background())

	require.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, 0, count)
}

func TestProject_SourceErrorDegradesToEmpty(t *testing.T) {
	p := &Projector{
		Source: sourceFunc(func(context.Context) ([]Entry, error) {
			return nil, errors.New("backend offline")
		}),
		Resolver: signedFake(),
		MaxItems: 100,
	}

	items, count := p.Project(context.Background())

	require.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, 0, count)
}

func TestProject_ResolverErrorDegradesToEmpty(t *testing.T) {
	p := &Projector{
		Source: staticSource(Entry{Key: "a.mp4", LastModified: time.Now()}),
		Resolver: resolverFunc(func(context.Context, string) (string, error) {
			return "", errors.New("signing failed")
		}),
		MaxItems: 100,
	}

	items, count := p.Project(context.Background())

	assert.Empty(t, items)
	assert.Equal(t, 0, count)
}

func TestProject_DropsEntriesWithoutKeys(t *testing.T) {
	p := &Projector{
		Source: staticSource(
			Entry{Key: "", LastModified: time.Now()},
			Entry{Key: "kept.mp4", LastModified: time.Now()},
		),
		Resolver: signedFake(),
		MaxItems: 100,
	}

	items, count := p.Project(context.Background())

	require.Equal(t, 1, count)
	assert.Equal(t, "kept.mp4", items[0].Key)
}

func TestProject_NameFallsBackToKeyBase(t *testing.T) {
	p := &Projector{
		Source: staticSource(
			Entry{Key: "2024/06/clip.mp4", LastModified: time.Now()},
			Entry{Key: "drive-id-123", Name: "holiday.mp4", LastModified: time.Now().Add(-time.Minute)},
		),
		Resolver: signedFake(),
		MaxItems: 100,
	}

	items, count := p.Project(context.Background())

	require.Equal(t, 2, count)
	assert.Equal(t, "clip.mp4", items[0].Name)
	assert.Equal(t, "holiday.mp4", items[1].Name)
}

func TestPublicResolver_EscapesKeySegments(t *testing.T) {
	r := &PublicResolver{Base: "https://pub.example"}

	u, err := r.Resolve(context.Background(), "2024/a clip?.mp4")

	require.NoError(t, err)
	assert.Equal(t, "https://pub.example/2024/a%20clip%3F.mp4", u)
}

func TestSignedResolver_DelegatesToStore(t *testing.T) {
	r := &SignedResolver{Store: &fakeStore{}, Expiry: time.Hour}

	u, err := r.Resolve(context.Background(), "clip.mp4")

	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/clip.mp4", u)
}
