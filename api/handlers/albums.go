// ABOUTME: Album handlers for the Huma API and the raw cover routes
// ABOUTME: Cover uploads are streamed multipart bodies and bypass huma

package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"openmusic-api/api/dto/mappers"
	"openmusic-api/api/dto/requests"
	"openmusic-api/api/dto/responses"
	"openmusic-api/api/response"
	"openmusic-api/core/albums"
	"openmusic-api/core/domain"
	apperrors "openmusic-api/core/errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
)

// multipartOverhead is the room left for boundaries and part headers on top of the cover limit
const multipartOverhead = 16 << 10

// AlbumService defines the methods needed from the album service
type AlbumService interface {
	Create(ctx context.Context, name string, year int) (*domain.Album, error)
	List(ctx context.Context) ([]*domain.Album, error)
	Get(ctx context.Context, id string) (*domain.Album, error)
	Update(ctx context.Context, id, name string, year int) error
	Delete(ctx context.Context, id string) (domain.MutationResult, error)
	UploadCover(ctx context.Context, upload albums.CoverUpload) (string, error)
	OpenCover(ctx context.Context, key string) (io.ReadCloser, string, error)
	CoverMaxBytes() int64
}

// AlbumHandler handles album-related HTTP requests
type AlbumHandler struct {
	svc  AlbumService
	errs ErrorMapper
}

// NewAlbumHandler creates a new album handler
func NewAlbumHandler(svc AlbumService, errs ErrorMapper) *AlbumHandler {
	return &AlbumHandler{svc: svc, errs: errs}
}

// RegisterRoutes registers the JSON album routes
func (h *AlbumHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "createAlbum",
		Method:        http.MethodPost,
		Path:          "/albums",
		Summary:       "Create an album",
		Tags:          []string{"Albums"},
		DefaultStatus: http.StatusCreated,
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "listAlbums",
		Method:      http.MethodGet,
		Path:        "/albums",
		Summary:     "List albums",
		Tags:        []string{"Albums"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "getAlbum",
		Method:      http.MethodGet,
		Path:        "/albums/{id}",
		Summary:     "Get an album with its songs",
		Tags:        []string{"Albums"},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "updateAlbum",
		Method:      http.MethodPut,
		Path:        "/albums/{id}",
		Summary:     "Update an album",
		Tags:        []string{"Albums"},
	}, h.Update)

	huma.Register(api, huma.Operation{
		OperationID: "deleteAlbum",
		Method:      http.MethodDelete,
		Path:        "/albums/{id}",
		Summary:     "Delete an album",
		Tags:        []string{"Albums"},
	}, h.Delete)
}

// RegisterRawRoutes registers the cover routes that huma does not model
func (h *AlbumHandler) RegisterRawRoutes(router chi.Router) {
	router.Post("/albums/{id}/covers", h.UploadCover)
	router.Get("/albums/covers/{key}", h.ServeCover)
}

type AlbumBodyInput struct {
	Body requests.AlbumRequest
}

type AlbumIDInput struct {
	ID string `path:"id"`
}

type UpdateAlbumInput struct {
	ID   string `path:"id"`
	Body requests.AlbumRequest
}

type CreateAlbumOutput struct {
	Body response.MessageData[responses.AlbumCreated]
}

type ListAlbumsOutput struct {
	Body response.Data[responses.AlbumList]
}

type GetAlbumOutput struct {
	Body response.Data[responses.AlbumEnvelope]
}

type MessageOutput struct {
	Body response.Message
}

type DeleteAlbumOutput struct {
	CacheStale string `header:"X-Cache-Stale"`
	Body       response.Message
}

// Create handles POST /albums
func (h *AlbumHandler) Create(ctx context.Context, input *AlbumBodyInput) (*CreateAlbumOutput, error) {
	album, err := h.svc.Create(ctx, input.Body.Name, input.Body.Year)
	if err != nil {
		return nil, h.errs.Error(ctx, err)
	}
	return &CreateAlbumOutput{
		Body: response.Created("Album added", responses.AlbumCreated{AlbumID: album.ID}),
	}, nil
}

// List handles GET /albums
func (h *AlbumHandler) List(ctx context.Context, _ *struct{}) (*ListAlbumsOutput, error) {
	list, err := h.svc.List(ctx)
	if err != nil {
		return nil, h.errs.Error(ctx, err)
	}
	return &ListAlbumsOutput{
		Body: response.OK(responses.AlbumList{Albums: mappers.ToAlbumSummaries(list)}),
	}, nil
}

// Get handles GET /albums/{id}
func (h *AlbumHandler) Get(ctx context.Context, input *AlbumIDInput) (*GetAlbumOutput, error) {
	album, err := h.svc.Get(ctx, input.ID)
	if err != nil {
		return nil, h.errs.Error(ctx, err)
	}
	return &GetAlbumOutput{
		Body: response.OK(responses.AlbumEnvelope{Album: mappers.ToAlbumDetail(album)}),
	}, nil
}

// Update handles PUT /albums/{id}
func (h *AlbumHandler) Update(ctx context.Context, input *UpdateAlbumInput) (*MessageOutput, error) {
	if err := h.svc.Update(ctx, input.ID, input.Body.Name, input.Body.Year); err != nil {
		return nil, h.errs.Error(ctx, err)
	}
	return &MessageOutput{Body: response.Text("Album updated")}, nil
}

// Delete handles DELETE /albums/{id}
func (h *AlbumHandler) Delete(ctx context.Context, input *AlbumIDInput) (*DeleteAlbumOutput, error) {
	res, err := h.svc.Delete(ctx, input.ID)
	if err != nil {
		return nil, h.errs.Error(ctx, err)
	}
	return &DeleteAlbumOutput{
		CacheStale: staleHeader(res),
		Body:       response.Text("Album deleted"),
	}, nil
}

// UploadCover handles POST /albums/{id}/covers with a multipart "cover" field
func (h *AlbumHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	limit := h.svc.CoverMaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		h.errs.WriteError(w, r, &apperrors.ValidationError{Field: "cover", Message: "request must be multipart/form-data"})
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			h.errs.WriteError(w, r, &apperrors.ValidationError{Field: "cover", Message: "cover is required"})
			return
		}
		if err != nil {
			h.errs.WriteError(w, r, bodyError(err, limit))
			return
		}
		if part.FormName() != "cover" {
			part.Close()
			continue
		}

		coverURL, err := h.svc.UploadCover(r.Context(), albums.CoverUpload{
			AlbumID:     chi.URLParam(r, "id"),
			FileName:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Body:        part,
		})
		part.Close()
		if err != nil {
			h.errs.WriteError(w, r, bodyError(err, limit))
			return
		}

		writeJSON(w, http.StatusCreated, response.Created("Cover uploaded", struct {
			CoverURL string `json:"coverUrl"`
		}{coverURL}))
		return
	}
}

// ServeCover handles GET /albums/covers/{key}
func (h *AlbumHandler) ServeCover(w http.ResponseWriter, r *http.Request) {
	rc, contentType, err := h.svc.OpenCover(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}

// bodyError reports an oversized request body as PayloadTooLarge
func bodyError(err error, limit int64) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return &apperrors.PayloadTooLargeError{Limit: limit}
	}
	return err
}

func staleHeader(res domain.MutationResult) string {
	if res.CacheStale {
		return "true"
	}
	return ""
}
