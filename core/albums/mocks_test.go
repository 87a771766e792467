package albums

import (
	"bytes"
	"context"
	"errors"
	"io"

	"openmusic-api/core/domain"
	apperrors "openmusic-api/core/errors"
)

// mockStore keeps albums in a map and records cover writes
type mockStore struct {
	albums map[string]*domain.Album
	songs  map[string][]domain.SongSummary

	songsErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		albums: make(map[string]*domain.Album),
		songs:  make(map[string][]domain.SongSummary),
	}
}

func (m *mockStore) CreateAlbum(ctx context.Context, album *domain.Album) error {
	m.albums[album.ID] = album
	return nil
}

func (m *mockStore) ListAlbums(ctx context.Context) ([]*domain.Album, error) {
	out := make([]*domain.Album, 0, len(m.albums))
	for _, a := range m.albums {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockStore) GetAlbum(ctx context.Context, id string) (*domain.Album, error) {
	a, ok := m.albums[id]
	if !ok {
		return nil, &apperrors.NotFoundError{Resource: "album", ID: id}
	}
	cp := *a
	return &cp, nil
}

func (m *mockStore) UpdateAlbum(ctx context.Context, id, name string, year int) error {
	a, ok := m.albums[id]
	if !ok {
		return &apperrors.NotFoundError{Resource: "album", ID: id}
	}
	a.Name, a.Year = name, year
	return nil
}

func (m *mockStore) DeleteAlbum(ctx context.Context, id string) error {
	if _, ok := m.albums[id]; !ok {
		return &apperrors.NotFoundError{Resource: "album", ID: id}
	}
	delete(m.albums, id)
	return nil
}

func (m *mockStore) SetAlbumCover(ctx context.Context, id, coverURL string, color *domain.RGBColor) error {
	a, ok := m.albums[id]
	if !ok {
		return &apperrors.NotFoundError{Resource: "album", ID: id}
	}
	a.CoverURL, a.CoverColor = coverURL, color
	return nil
}

func (m *mockStore) SongsByAlbum(ctx context.Context, albumID string) ([]domain.SongSummary, error) {
	if m.songsErr != nil {
		return nil, m.songsErr
	}
	return m.songs[albumID], nil
}

// mockBlobs stores objects in memory under the file name
type mockBlobs struct {
	objects map[string][]byte
	putErr  error
}

func (m *mockBlobs) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	if m.putErr != nil {
		return "", m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	key := "1-" + name
	m.objects[key] = data
	return key, nil
}

func (m *mockBlobs) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, "", &apperrors.NotFoundError{Resource: "cover", ID: key}
	}
	return io.NopCloser(bytes.NewReader(data)), "image/png", nil
}

type mockInvalidator struct {
	invalidated []string
	stale       bool
}

func (m *mockInvalidator) InvalidateAlbum(ctx context.Context, albumID string) domain.MutationResult {
	m.invalidated = append(m.invalidated, albumID)
	return domain.MutationResult{CacheStale: m.stale}
}

type mockColors struct {
	color *domain.RGBColor
	err   error
	calls int
}

func (m *mockColors) Extract(ctx context.Context, data []byte) (*domain.RGBColor, error) {
	m.calls++
	return m.color, m.err
}

var errBoom = errors.New("boom")

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
