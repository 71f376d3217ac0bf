package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"bitwise74/gallery-api/validators"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdmission(store *fakeStore) *Admission {
	viper.Set("upload.max_size", int64(500<<20))

	return &Admission{
		Store:  store,
		Expiry: 15 * time.Minute,
	}
}

func TestAdmit_GrantsWriteCredential(t *testing.T) {
	store := &fakeStore{}
	a := newAdmission(store)

	grant, code, err := a.Admit(context.Background(), "clip.mp4", "video/mp4", 1<<20, "")

	require.NoError(t, err)
	require.Equal(t, 0, code)
	assert.Equal(t, "https://put.example/"+grant.Key, grant.URL)
	assert.Equal(t, int((15 * time.Minute).Seconds()), grant.ExpiresInSeconds)
	assert.True(t, strings.HasSuffix(grant.Key, "clip.mp4"))
	assert.Empty(t, grant.PublicURL)
}

func TestAdmit_SameFilenameTwiceGetsDistinctKeys(t *testing.T) {
	a := newAdmission(&fakeStore{})

	g1, _, err := a.Admit(context.Background(), "clip.mp4", "video/mp4", 100, "")
	require.NoError(t, err)

	g2, _, err := a.Admit(context.Background(), "clip.mp4", "video/mp4", 100, "")
	require.NoError(t, err)

	assert.NotEqual(t, g1.Key, g2.Key)
}

func TestAdmit_PredictsPublicURL(t *testing.T) {
	a := newAdmission(&fakeStore{})
	a.PublicBase = "https://pub.example"

	grant, code, err := a.Admit(context.Background(), "clip.mp4", "video/mp4", 100, "")

	require.NoError(t, err)
	require.Equal(t, 0, code)
	assert.Equal(t, "https://pub.example/"+grant.Key, grant.PublicURL)
}

func TestAdmit_RejectsUnsupportedFormat(t *testing.T) {
	a := newAdmission(&fakeStore{})

	grant, code, err := a.Admit(context.Background(), "photo.heic", "image/heic", 100, "")

	assert.Nil(t, grant)
	assert.Equal(t, http.StatusUnsupportedMediaType, code)
	require.ErrorIs(t, err, validators.ErrFormatUnsupported)

	// The one error class a user can fix on their own needs to tell them how
	assert.Contains(t, err.Error(), "Most Compatible")
}

func TestAdmit_RejectsTypeOutsideAllowList(t *testing.T) {
	a := newAdmission(&fakeStore{})

	grant, code, err := a.Admit(context.Background(), "archive.zip", "application/zip", 100, "")

	assert.Nil(t, grant)
	assert.Equal(t, http.StatusUnsupportedMediaType, code)
	assert.ErrorIs(t, err, validators.ErrTypeNotAllowed)
}

func TestAdmit_RejectsOversizedUpload(t *testing.T) {
	a := newAdmission(&fakeStore{})

	grant, code, err := a.Admit(context.Background(), "movie.mp4", "video/mp4", 600<<20, "")

	assert.Nil(t, grant)
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	assert.ErrorIs(t, err, validators.ErrFileTooLarge)
}

func TestAdmit_RejectsNonPositiveSize(t *testing.T) {
	a := newAdmission(&fakeStore{})

	for _, size := range []int64{0, -1} {
		grant, code, err := a.Admit(context.Background(), "clip.mp4", "video/mp4", size, "")

		assert.Nil(t, grant)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.ErrorIs(t, err, validators.ErrInvalidSize)
	}
}

func TestAdmit_SigningFailureIsAServerError(t *testing.T) {
	a := newAdmission(&fakeStore{putErr: errors.New("credentials rejected")})

	grant, code, err := a.Admit(context.Background(), "clip.mp4", "video/mp4", 100, "")

	assert.Nil(t, grant)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Error(t, err)
}
