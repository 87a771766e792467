// ABOUTME: Song handlers for the Huma API
// ABOUTME: Listing supports case-insensitive title and performer filters

package handlers

import (
	"context"
	"net/http"

	"openmusic-api/api/dto/mappers"
	"openmusic-api/api/dto/requests"
	"openmusic-api/api/dto/responses"
	"openmusic-api/api/response"
	"openmusic-api/core/domain"
	"openmusic-api/core/songs"

	"github.com/danielgtaylor/huma/v2"
)

// SongService defines the methods needed from the song service
type SongService interface {
	Create(ctx context.Context, in songs.Input) (*domain.Song, error)
	List(ctx context.Context, filter domain.SongFilter) ([]domain.SongSummary, error)
	Get(ctx context.Context, id string) (*domain.Song, error)
	Update(ctx context.Context, id string, in songs.Input) error
	Delete(ctx context.Context, id string) error
}

// SongHandler handles song-related HTTP requests
type SongHandler struct {
	svc  SongService
	errs ErrorMapper
}

// NewSongHandler creates a new song handler
func NewSongHandler(svc SongService, errs ErrorMapper) *SongHandler {
	return &SongHandler{svc: svc, errs: errs}
}

// RegisterRoutes registers all song routes
func (h *SongHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "createSong",
		Method:        http.MethodPost,
		Path:          "/songs",
		Summary:       "Create a song",
		Tags:          []string{"Songs"},
		DefaultStatus: http.StatusCreated,
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "listSongs",
		Method:      http.MethodGet,
		Path:        "/songs",
		Summary:     "List songs",
		Tags:        []string{"Songs"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "getSong",
		Method:      http.MethodGet,
		Path:        "/songs/{id}",
		Summary:     "Get a song",
		Tags:        []string{"Songs"},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "updateSong",
		Method:      http.MethodPut,
		Path:        "/songs/{id}",
		Summary:     "Update a song",
		Tags:        []string{"Songs"},
	}, h.Update)

	huma.Register(api, huma.Operation{
		OperationID: "deleteSong",
		Method:      http.MethodDelete,
		Path:        "/songs/{id}",
		Summary:     "Delete a song",
		Tags:        []string{"Songs"},
	}, h.Delete)
}

type SongBodyInput struct {
	Body requests.SongRequest
}

type SongIDInput struct {
	ID string `path:"id"`
}

type UpdateSongInput struct {
	ID   string `path:"id"`
	Body requests.SongRequest
}

type ListSongsInput struct {
	requests.SongQuery
}

type CreateSongOutput struct {
	Body response.MessageData[responses.SongCreated]
}

type ListSongsOutput struct {
	Body response.Data[responses.SongList]
}

type GetSongOutput struct {
	Body response.Data[responses.SongEnvelope]
}

// Create handles POST /songs
func (h *SongHandler) Create(ctx context.Context, input *SongBodyInput) (*CreateSongOutput, error) {
	song, err := h.svc.Create(ctx, songInput(input.Body))
	if err != nil {
		return nil, h.errs.Error(ctx, err)
	}
	return &CreateSongOutput{
		Body: response.Created("Song added", responses.SongCreated{SongID: song.ID}),
	}, nil
}

// List handles GET /songs
func (h *SongHandler) List(ctx context.Context, input *ListSongsInput) (*ListSongsOutput, error) {
	list, err := h.svc.List(ctx, domain.SongFilter{Title: input.Title, Performer: input.Performer})
	if err != nil {
		return nil, h.errs.Error(ctx, err)
	}
	return &ListSongsOutput{
		Body: response.OK(responses.SongList{Songs: mappers.ToSongSummaries(list)}),
	}, nil
}

// Get handles GET /songs/{id}
func (h *SongHandler) Get(ctx context.Context, input *SongIDInput) (*GetSongOutput, error) {
	song, err := h.svc.Get(ctx, input.ID)
	if err != nil {
		return nil, h.errs.Error(ctx, err)
	}
	return &GetSongOutput{
		Body: response.OK(responses.SongEnvelope{Song: mappers.ToSongDetail(song)}),
	}, nil
}

// Update handles PUT /songs/{id}
func (h *SongHandler) Update(ctx context.Context, input *UpdateSongInput) (*MessageOutput, error) {
	if err := h.svc.Update(ctx, input.ID, songInput(input.Body)); err != nil {
		return nil, h.errs.Error(ctx, err)
	}
	return &MessageOutput{Body: response.Text("Song updated")}, nil
}

// Delete handles DELETE /songs/{id}
func (h *SongHandler) Delete(ctx context.Context, input *SongIDInput) (*MessageOutput, error) {
	if err := h.svc.Delete(ctx, input.ID); err != nil {
		return nil, h.errs.Error(ctx, err)
	}
	return &MessageOutput{Body: response.Text("Song deleted")}, nil
}

func songInput(req requests.SongRequest) songs.Input {
	return songs.Input{
		Title:     req.Title,
		Year:      req.Year,
		Performer: req.Performer,
		Genre:     req.Genre,
		Duration:  req.Duration,
		AlbumID:   req.AlbumID,
	}
}
