package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"openmusic-api/api"
	"openmusic-api/api/response"
	"openmusic-api/core/albums"
	"openmusic-api/core/interfaces"
	"openmusic-api/core/likes"
	"openmusic-api/core/services"
	"openmusic-api/core/songs"
	"openmusic-api/infrastructure/auth/jwt"
	"openmusic-api/infrastructure/cache/memory"
	memstore "openmusic-api/infrastructure/database/memory"
	"openmusic-api/infrastructure/storage/local"
	"openmusic-api/pkg/featureflags"

	"github.com/stretchr/testify/require"
)

const (
	testBaseURL  = "http://music.test"
	testCoverMax = 256
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

// flakyCache wraps a real cache and fails chosen operations
type flakyCache struct {
	interfaces.Cache
	deleteErr error
	pingErr   error
}

func (c *flakyCache) Delete(ctx context.Context, key string) error {
	if c.deleteErr != nil {
		return c.deleteErr
	}
	return c.Cache.Delete(ctx, key)
}

func (c *flakyCache) Ping(ctx context.Context) error {
	if c.pingErr != nil {
		return c.pingErr
	}
	return c.Cache.Ping(ctx)
}

// flakyStore wraps the memory store and fails Ping on demand
type flakyStore struct {
	*memstore.Store
	pingErr error
}

func (s *flakyStore) Ping(ctx context.Context) error {
	if s.pingErr != nil {
		return s.pingErr
	}
	return s.Store.Ping(ctx)
}

type testServer struct {
	router http.Handler
	store  *flakyStore
	cache  *flakyCache
	tokens *jwt.Manager
	flags  *featureflags.StaticManager
}

var errCacheDown = errors.New("cache is down")

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := nopLogger{}

	store := &flakyStore{Store: memstore.NewStore()}
	cache := &flakyCache{Cache: memory.NewMemoryCache(time.Minute)}
	t.Cleanup(func() { _ = cache.Close() })

	blobs, err := local.NewStorage(t.TempDir())
	require.NoError(t, err)

	flags := featureflags.NewStaticManager(map[featureflags.FeatureFlag]bool{
		featureflags.CoverColorEnabled:   true,
		featureflags.FailEnvelopeRewrite: true,
	})
	tokens := jwt.NewManager("test-secret", time.Hour)

	likeService := likes.NewService(store, cache, logger, likes.DefaultConfig())
	albumService := albums.NewService(store, blobs, likeService, services.NewCoverColorService(logger), flags, logger, albums.Config{
		PublicBaseURL: testBaseURL,
		CoverMaxBytes: testCoverMax,
	})

	normalizer := response.NewNormalizer(logger, "")
	humaAPI, router := api.NewAPI(api.APIConfig{
		Logger:     logger,
		Normalizer: normalizer,
		Flags:      flags,
	})

	albumHandler := NewAlbumHandler(albumService, normalizer)
	albumHandler.RegisterRoutes(humaAPI)
	albumHandler.RegisterRawRoutes(router)
	NewSongHandler(songs.NewService(store), normalizer).RegisterRoutes(humaAPI)
	NewLikeHandler(likeService, tokens, normalizer).RegisterRoutes(humaAPI)
	NewHealthHandler(store, cache, normalizer).RegisterRoutes(humaAPI)

	return &testServer{router: router, store: store, cache: cache, tokens: tokens, flags: flags}
}

// wireBody is the union of the three envelopes
type wireBody struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, wireBody) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return s.serve(t, req)
}

func (s *testServer) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, wireBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var body wireBody
	if bytes.HasPrefix(bytes.TrimSpace(rec.Body.Bytes()), []byte("{")) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec, body
}

func (s *testServer) bearer(t *testing.T, userID string) []string {
	t.Helper()
	token, err := s.tokens.Issue(context.Background(), userID)
	require.NoError(t, err)
	return []string{"Authorization", "Bearer " + token}
}

func (s *testServer) createAlbum(t *testing.T, name string, year int) string {
	t.Helper()
	rec, body := s.do(t, http.MethodPost, "/albums", map[string]any{"name": name, "year": year})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var data struct {
		AlbumID string `json:"albumId"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	return data.AlbumID
}

func decodeData(t *testing.T, body wireBody, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body.Data, v))
}

// coverRequest builds a multipart upload with one file field
func coverRequest(t *testing.T, albumID, field, contentType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="cover.png"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/albums/"+albumID+"/covers", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
