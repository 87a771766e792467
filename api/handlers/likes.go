// ABOUTME: Album like handlers for the Huma API
// ABOUTME: Counts report their origin through the X-Data-Source header

package handlers

import (
	"context"
	"net/http"

	"openmusic-api/api/dto/responses"
	"openmusic-api/api/middleware"
	"openmusic-api/api/response"
	"openmusic-api/core/domain"
	"openmusic-api/core/interfaces"

	"github.com/danielgtaylor/huma/v2"
)

// LikeService defines the methods needed from the likes service
type LikeService interface {
	GetCount(ctx context.Context, albumID string) (domain.AggregationResult, error)
	Like(ctx context.Context, albumID, userID string) (domain.MutationResult, error)
	Unlike(ctx context.Context, albumID, userID string) (domain.MutationResult, error)
}

// LikeHandler handles album like requests
type LikeHandler struct {
	svc    LikeService
	tokens interfaces.TokenManager
	errs   ErrorMapper
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(svc LikeService, tokens interfaces.TokenManager, errs ErrorMapper) *LikeHandler {
	return &LikeHandler{svc: svc, tokens: tokens, errs: errs}
}

// RegisterRoutes registers all like routes. Mutations require a bearer token.
func (h *LikeHandler) RegisterRoutes(api huma.API) {
	requireUser := huma.Middlewares{middleware.RequireUser(api, h.tokens)}

	huma.Register(api, huma.Operation{
		OperationID:   "likeAlbum",
		Method:        http.MethodPost,
		Path:          "/albums/{id}/likes",
		Summary:       "Like an album",
		Tags:          []string{"Likes"},
		DefaultStatus: http.StatusCreated,
		Security:      bearerSecurity,
		Middlewares:   requireUser,
	}, h.Like)

	huma.Register(api, huma.Operation{
		OperationID: "getAlbumLikes",
		Method:      http.MethodGet,
		Path:        "/albums/{id}/likes",
		Summary:     "Count the likes of an album",
		Description: "X-Data-Source tells whether the count was served from the cache or recomputed",
		Tags:        []string{"Likes"},
	}, h.Count)

	huma.Register(api, huma.Operation{
		OperationID: "unlikeAlbum",
		Method:      http.MethodDelete,
		Path:        "/albums/{id}/likes",
		Summary:     "Remove a like from an album",
		Tags:        []string{"Likes"},
		Security:    bearerSecurity,
		Middlewares: requireUser,
	}, h.Unlike)
}

type LikeCountOutput struct {
	DataSource string `header:"X-Data-Source"`
	Body       response.Data[responses.LikeCount]
}

type LikeMutationOutput struct {
	CacheStale string `header:"X-Cache-Stale"`
	Body       response.Message
}

// Like handles POST /albums/{id}/likes
func (h *LikeHandler) Like(ctx context.Context, input *AlbumIDInput) (*LikeMutationOutput, error) {
	res, err := h.svc.Like(ctx, input.ID, middleware.UserIDFromContext(ctx))
	if err != nil {
		return nil, h.errs.Error(ctx, err)
	}
	return &LikeMutationOutput{
		CacheStale: staleHeader(res),
		Body:       response.Text("Album liked"),
	}, nil
}

// Count handles GET /albums/{id}/likes
func (h *LikeHandler) Count(ctx context.Context, input *AlbumIDInput) (*LikeCountOutput, error) {
	res, err := h.svc.GetCount(ctx, input.ID)
	if err != nil {
		return nil, h.errs.Error(ctx, err)
	}
	return &LikeCountOutput{
		DataSource: string(res.Origin),
		Body:       response.OK(responses.LikeCount{Likes: res.Count}),
	}, nil
}

// Unlike handles DELETE /albums/{id}/likes
func (h *LikeHandler) Unlike(ctx context.Context, input *AlbumIDInput) (*LikeMutationOutput, error) {
	res, err := h.svc.Unlike(ctx, input.ID, middleware.UserIDFromContext(ctx))
	if err != nil {
		return nil, h.errs.Error(ctx, err)
	}
	return &LikeMutationOutput{
		CacheStale: staleHeader(res),
		Body:       response.Text("Album like removed"),
	}, nil
}
