package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"math"
	"path"
	"time"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"go-social-api/internal/storage"
	"go-social-api/internal/util"
	"go-social-api/pkg/apierror"
)

const (
	jpegQuality = 90

	// defaultMaxPixels bounds the decoded canvas, checked from the image
	// header before any pixel data is read.
	defaultMaxPixels = 40_000_000
)

// MediaService normalizes uploaded images to JPEG and pushes them to the
// object store through a local staging file.
type MediaService struct {
	store     storage.ObjectStore
	staging   *storage.Staging
	prefix    string
	maxDim    int
	maxPixels int
	now       func() time.Time
}

func NewMediaService(store storage.ObjectStore, staging *storage.Staging, keyPrefix string, maxDimension int) *MediaService {
	return &MediaService{
		store:     store,
		staging:   staging,
		prefix:    keyPrefix,
		maxDim:    maxDimension,
		maxPixels: defaultMaxPixels,
		now:       time.Now,
	}
}

// Store processes one image and returns its public URL. The staged file is
// always removed, whatever the outcome.
func (s *MediaService) Store(ctx context.Context, r io.Reader, folder string) (string, error) {
	mimeType, body, err := util.SniffMIME(r)
	if err != nil {
		return "", apierror.Validation("cannot read uploaded file", err.Error())
	}
	if !util.IsImageMIME(mimeType) || !util.IsDecodableImageMIME(mimeType) {
		return "", apierror.Validation("uploaded file must be an image", mimeType)
	}

	var header bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(body, &header))
	if err != nil {
		return "", apierror.Validation("cannot decode image", err.Error())
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return "", apierror.Validation("invalid image dimensions", "")
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(s.maxPixels) {
		return "", apierror.Validation("image is too large", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))
	}

	src, _, err := image.Decode(io.MultiReader(&header, body))
	if err != nil {
		return "", apierror.Validation("cannot decode image", err.Error())
	}

	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return "", apierror.Validation("invalid image dimensions", "")
	}

	staged, err := s.staging.Create(".jpg")
	if err != nil {
		return "", err
	}
	defer func() {
		if removeErr := s.staging.Remove(staged.Name()); removeErr != nil {
			slog.Warn("failed to remove staged media", "path", staged.Name(), "error", removeErr)
		}
	}()

	encodeErr := jpeg.Encode(staged, s.normalize(src), &jpeg.Options{Quality: jpegQuality})
	closeErr := staged.Close()
	if encodeErr != nil {
		return "", encodeErr
	}
	if closeErr != nil {
		return "", closeErr
	}

	key := storage.NewKey(path.Join(s.prefix, folder), s.now(), ".jpg")
	url, err := s.store.Put(ctx, key, "image/jpeg", staged.Name())
	if errors.Is(err, storage.ErrStorageDisabled) {
		return "", apierror.Upstream("media uploads are not configured", "")
	}
	if err != nil {
		slog.Error("media upload failed", "key", key, "error", err)
		return "", apierror.Upstream("media upload failed", "")
	}

	return url, nil
}

// Upload is Store with the null-on-failure contract: any failure is logged
// and reported as an empty URL.
func (s *MediaService) Upload(ctx context.Context, r io.Reader, folder string) string {
	url, err := s.Store(ctx, r, folder)
	if err != nil {
		slog.Warn("media upload skipped", "folder", folder, "error", err)
		return ""
	}
	return url
}

// Remove deletes objects best-effort. Empty URLs are ignored.
func (s *MediaService) Remove(ctx context.Context, urls ...string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := s.store.Delete(ctx, url); err != nil {
			slog.Warn("failed to delete media object", "url", url, "error", err)
		}
	}
}

// normalize scales src down to fit maxDim and flattens transparency onto
// white.
func (s *MediaService) normalize(src image.Image) image.Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	scale := 1.0
	if longest := max(width, height); s.maxDim > 0 && longest > s.maxDim {
		scale = float64(s.maxDim) / float64(longest)
	}

	targetWidth := max(int(math.Round(float64(width)*scale)), 1)
	targetHeight := max(int(math.Round(float64(height)*scale)), 1)

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
