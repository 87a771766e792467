// ABOUTME: Cover color extraction for uploaded album art
// ABOUTME: Uses K-means clustering to find the most prominent color of an image

package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"openmusic-api/core/domain"
	"openmusic-api/core/interfaces"

	"github.com/EdlinOrg/prominentcolor"
	_ "golang.org/x/image/webp" // WebP support
)

// CoverColorService extracts the prominent color of cover images
type CoverColorService struct {
	logger interfaces.Logger
}

// NewCoverColorService creates a new cover color service
func NewCoverColorService(logger interfaces.Logger) *CoverColorService {
	return &CoverColorService{logger: logger}
}

// Extract decodes data and returns its most prominent color.
// Formats without a registered decoder (AVIF) fail with an error.
func (s *CoverColorService) Extract(ctx context.Context, data []byte) (color *domain.RGBColor, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Debug("Recovered from panic in color extraction", map[string]interface{}{
				"panic": fmt.Sprintf("%v", rec),
			})
			color = nil
			err = fmt.Errorf("panic recovered: %v", rec)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("image has empty bounds")
	}

	imgNRGBA := image.NewNRGBA(bounds)
	draw.Draw(imgNRGBA, bounds, img, bounds.Min, draw.Src)

	colors, err := prominentcolor.KmeansWithAll(
		prominentcolor.ArgumentDefault,
		imgNRGBA,
		prominentcolor.DefaultK,
		1,
		prominentcolor.GetDefaultMasks(),
	)

	// Covers that are mostly black or white leave nothing after masking
	if err != nil || len(colors) == 0 {
		s.logger.Debug("Retrying color extraction without masks", map[string]interface{}{
			"format": format,
			"error":  err,
		})

		colors, err = prominentcolor.KmeansWithAll(
			prominentcolor.ArgumentDefault,
			imgNRGBA,
			prominentcolor.DefaultK,
			1,
			nil,
		)
		if err != nil || len(colors) == 0 {
			return nil, fmt.Errorf("no colors extracted from image")
		}
	}

	return &domain.RGBColor{
		R: uint8(colors[0].Color.R),
		G: uint8(colors[0].Color.G),
		B: uint8(colors[0].Color.B),
	}, nil
}
