package service

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-social-api/internal/storage"
	"go-social-api/pkg/apierror"
)

func pngBytes(t *testing.T, width int, height int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.NRGBA{R: 255, A: 255})
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// pngHeader returns a PNG that declares width x height in its IHDR chunk
// and carries no pixel data.
func pngHeader(width uint32, height uint32) []byte {
	ihdr := make([]byte, 0, 17)
	ihdr = append(ihdr, "IHDR"...)
	ihdr = binary.BigEndian.AppendUint32(ihdr, width)
	ihdr = binary.BigEndian.AppendUint32(ihdr, height)
	ihdr = append(ihdr, 8, 2, 0, 0, 0)

	out := []byte("\x89PNG\r\n\x1a\n")
	out = binary.BigEndian.AppendUint32(out, 13)
	out = append(out, ihdr...)
	return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(ihdr))
}

func newTestMedia(t *testing.T, store storage.ObjectStore, maxDim int) (*MediaService, *storage.Staging) {
	t.Helper()

	staging, err := storage.NewStaging(t.TempDir())
	require.NoError(t, err)
	return NewMediaService(store, staging, "social", maxDim), staging
}

func stagedFiles(t *testing.T, staging *storage.Staging) []os.DirEntry {
	t.Helper()

	entries, err := os.ReadDir(staging.RootAbs())
	require.NoError(t, err)
	return entries
}

func TestMediaService_Store(t *testing.T) {
	t.Run("normalizes to bounded jpeg and cleans the staged file", func(t *testing.T) {
		store := new(storage.MockObjectStore)
		media, staging := newTestMedia(t, store, 64)

		var uploaded image.Config
		store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "social/posts/") && strings.HasSuffix(key, ".jpg")
		}), "image/jpeg", mock.Anything).
			Run(func(args mock.Arguments) {
				data, err := os.ReadFile(args.String(3))
				require.NoError(t, err)
				uploaded, err = jpeg.DecodeConfig(bytes.NewReader(data))
				require.NoError(t, err)
			}).
			Return("https://cdn.example.com/social/posts/x.jpg", nil)

		url, err := media.Store(context.Background(), bytes.NewReader(pngBytes(t, 200, 100)), "posts")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/social/posts/x.jpg", url)
		assert.Equal(t, 64, uploaded.Width)
		assert.Equal(t, 32, uploaded.Height)
		assert.Empty(t, stagedFiles(t, staging))
		store.AssertExpectations(t)
	})

	t.Run("non-image is rejected before upload", func(t *testing.T) {
		store := new(storage.MockObjectStore)
		media, _ := newTestMedia(t, store, 64)

		_, err := media.Store(context.Background(), strings.NewReader("plain text"), "posts")
		var apiErr *apierror.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, apierror.CodeValidation, apiErr.Code)
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("oversized canvas is rejected from its header", func(t *testing.T) {
		store := new(storage.MockObjectStore)
		media, staging := newTestMedia(t, store, 64)

		_, err := media.Store(context.Background(), bytes.NewReader(pngHeader(50_000, 50_000)), "posts")
		var apiErr *apierror.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, apierror.CodeValidation, apiErr.Code)
		assert.Equal(t, "image is too large", apiErr.Message)
		assert.Empty(t, stagedFiles(t, staging))
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("pixel budget applies to real images", func(t *testing.T) {
		store := new(storage.MockObjectStore)
		media, _ := newTestMedia(t, store, 64)
		media.maxPixels = 200*100 - 1

		_, err := media.Store(context.Background(), bytes.NewReader(pngBytes(t, 200, 100)), "posts")
		var apiErr *apierror.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "200x100", apiErr.Details)

		media.maxPixels = 200 * 100
		store.On("Put", mock.Anything, mock.Anything, "image/jpeg", mock.Anything).Return("https://cdn.example.com/p.jpg", nil)
		url, err := media.Store(context.Background(), bytes.NewReader(pngBytes(t, 200, 100)), "posts")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/p.jpg", url)
	})

	t.Run("upload failure still removes the staged file", func(t *testing.T) {
		store := new(storage.MockObjectStore)
		media, staging := newTestMedia(t, store, 64)
		store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("s3 down"))

		_, err := media.Store(context.Background(), bytes.NewReader(pngBytes(t, 10, 10)), "avatars")
		var apiErr *apierror.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, apierror.CodeUpstream, apiErr.Code)
		assert.Empty(t, stagedFiles(t, staging))
	})
}

func TestMediaService_UploadReturnsEmptyOnFailure(t *testing.T) {
	media, _ := newTestMedia(t, storage.Disabled{}, 64)

	url := media.Upload(context.Background(), bytes.NewReader(pngBytes(t, 10, 10)), "avatars")
	assert.Empty(t, url)
}

func TestMediaService_RemoveSkipsEmpty(t *testing.T) {
	store := new(storage.MockObjectStore)
	media, _ := newTestMedia(t, store, 64)
	store.On("Delete", mock.Anything, "https://cdn.example.com/a.jpg").Return(errors.New("gone"))

	media.Remove(context.Background(), "", "https://cdn.example.com/a.jpg")
	store.AssertNumberOfCalls(t, "Delete", 1)
}
