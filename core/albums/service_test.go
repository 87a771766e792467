package albums

import (
	"context"
	"io"
	"strings"
	"testing"

	"openmusic-api/core/domain"
	apperrors "openmusic-api/core/errors"
	"openmusic-api/pkg/featureflags"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc    *Service
	store  *mockStore
	blobs  *mockBlobs
	likes  *mockInvalidator
	colors *mockColors
	flags  *featureflags.StaticManager
}

func newFixture() *fixture {
	f := &fixture{
		store:  newMockStore(),
		blobs:  &mockBlobs{},
		likes:  &mockInvalidator{},
		colors: &mockColors{color: &domain.RGBColor{R: 1, G: 2, B: 3}},
		flags:  featureflags.NewStaticManager(map[featureflags.FeatureFlag]bool{featureflags.CoverColorEnabled: true}),
	}
	f.svc = NewService(f.store, f.blobs, f.likes, f.colors, f.flags, nopLogger{}, Config{
		PublicBaseURL: "http://localhost:5000/",
		CoverMaxBytes: 16,
	})
	return f
}

func (f *fixture) seed(t *testing.T) *domain.Album {
	t.Helper()
	album, err := f.svc.Create(context.Background(), "Ghost Stories", 2014)
	require.NoError(t, err)
	return album
}

func TestNewService_Defaults(t *testing.T) {
	svc := NewService(newMockStore(), &mockBlobs{}, &mockInvalidator{}, nil, featureflags.NewStaticManager(nil), nopLogger{}, Config{})

	assert.Equal(t, int64(DefaultCoverMaxBytes), svc.CoverMaxBytes())
}

func TestService_Create(t *testing.T) {
	f := newFixture()

	album, err := f.svc.Create(context.Background(), "Ghost Stories", 2014)
	require.NoError(t, err)
	assert.Contains(t, f.store.albums, album.ID)

	_, err = f.svc.Create(context.Background(), "", 2014)
	assert.True(t, apperrors.IsValidation(err))
	assert.Len(t, f.store.albums, 1)
}

func TestService_GetIncludesSongs(t *testing.T) {
	f := newFixture()
	album := f.seed(t)
	songs := []domain.SongSummary{{ID: "song-1", Title: "Magic", Performer: "Coldplay"}}
	f.store.songs[album.ID] = songs

	got, err := f.svc.Get(context.Background(), album.ID)
	require.NoError(t, err)
	assert.Equal(t, songs, got.Songs)

	_, err = f.svc.Get(context.Background(), "album-missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestService_GetSongsFailure(t *testing.T) {
	f := newFixture()
	album := f.seed(t)
	f.store.songsErr = errBoom

	_, err := f.svc.Get(context.Background(), album.ID)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}

func TestService_Update(t *testing.T) {
	f := newFixture()
	album := f.seed(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Update(ctx, album.ID, "A Head Full of Dreams", 2015))
	assert.Equal(t, "A Head Full of Dreams", f.store.albums[album.ID].Name)

	assert.True(t, apperrors.IsValidation(f.svc.Update(ctx, album.ID, "x", 1800)))
	assert.True(t, apperrors.IsNotFound(f.svc.Update(ctx, "album-missing", "x", 2015)))
}

func TestService_DeleteInvalidatesCounter(t *testing.T) {
	f := newFixture()
	album := f.seed(t)
	f.likes.stale = true

	res, err := f.svc.Delete(context.Background(), album.ID)
	require.NoError(t, err)
	assert.True(t, res.CacheStale)
	assert.Equal(t, []string{album.ID}, f.likes.invalidated)

	_, err = f.svc.Delete(context.Background(), album.ID)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Len(t, f.likes.invalidated, 1, "a failed delete leaves the counter alone")
}

func TestService_UploadCover(t *testing.T) {
	f := newFixture()
	album := f.seed(t)

	url, err := f.svc.UploadCover(context.Background(), CoverUpload{
		AlbumID:     album.ID,
		FileName:    "cover.png",
		ContentType: "image/png",
		Body:        strings.NewReader("png-data"),
	})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000/albums/covers/1-cover.png", url)
	assert.Equal(t, url, f.store.albums[album.ID].CoverURL)
	assert.Equal(t, &domain.RGBColor{R: 1, G: 2, B: 3}, f.store.albums[album.ID].CoverColor)
	assert.Equal(t, []byte("png-data"), f.blobs.objects["1-cover.png"])

	rc, contentType, err := f.svc.OpenCover(context.Background(), "1-cover.png")
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "png-data", string(body))
	assert.Equal(t, "image/png", contentType)
}

func TestService_UploadCoverRejections(t *testing.T) {
	tests := []struct {
		name     string
		albumID  string
		ctype    string
		body     string
		wantKind apperrors.Kind
	}{
		{"not an image", "", "text/plain", "hello", apperrors.KindInvariant},
		{"svg not accepted", "", "image/svg+xml", "<svg/>", apperrors.KindInvariant},
		{"over the limit", "", "image/png", strings.Repeat("x", 17), apperrors.KindPayloadTooLarge},
		{"unknown album", "album-missing", "image/jpeg", "jpg", apperrors.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			album := f.seed(t)
			albumID := album.ID
			if tt.albumID != "" {
				albumID = tt.albumID
			}

			_, err := f.svc.UploadCover(context.Background(), CoverUpload{
				AlbumID:     albumID,
				FileName:    "cover",
				ContentType: tt.ctype,
				Body:        strings.NewReader(tt.body),
			})

			assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
			assert.Empty(t, f.blobs.objects)
			assert.Empty(t, f.store.albums[album.ID].CoverURL)
		})
	}
}

func TestService_UploadCoverExactLimitAndParams(t *testing.T) {
	f := newFixture()
	album := f.seed(t)

	_, err := f.svc.UploadCover(context.Background(), CoverUpload{
		AlbumID:     album.ID,
		FileName:    "cover.webp",
		ContentType: "Image/WebP; charset=binary",
		Body:        strings.NewReader(strings.Repeat("x", 16)),
	})

	assert.NoError(t, err)
}

func TestService_UploadCoverColor(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		colorErr  error
		wantColor bool
		wantCalls int
	}{
		{"enabled", true, nil, true, 1},
		{"disabled", false, nil, false, 0},
		{"extraction fails", true, errBoom, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			album := f.seed(t)
			f.flags.SetEnabled(featureflags.CoverColorEnabled, tt.enabled)
			f.colors.err = tt.colorErr

			_, err := f.svc.UploadCover(context.Background(), CoverUpload{
				AlbumID: album.ID, FileName: "c.png", ContentType: "image/png", Body: strings.NewReader("p"),
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantCalls, f.colors.calls)
			assert.Equal(t, tt.wantColor, f.store.albums[album.ID].CoverColor != nil)
		})
	}
}

func TestService_UploadCoverStorageFailure(t *testing.T) {
	f := newFixture()
	album := f.seed(t)
	f.blobs.putErr = errBoom

	_, err := f.svc.UploadCover(context.Background(), CoverUpload{
		AlbumID: album.ID, FileName: "c.png", ContentType: "image/png", Body: strings.NewReader("p"),
	})

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}
