package image

import (
	"testing"

	"github.com/easy-read/core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}
	gifMagic  = []byte("GIF89a\x00\x00\x00\x00")
	jpegMagic = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
)

func sniffService(formats ...string) *Service {
	cfg := &config.AppConfig{}
	cfg.Upload.AllowedFormats = formats
	return NewService(nil, nil, nil, cfg, zap.NewNop())
}

func TestSniffDetectsByContent(t *testing.T) {
	svc := sniffService("jpg", "png", "gif")

	tests := []struct {
		name    string
		payload []byte
		want    string
	}{
		{"png", pngMagic, "png"},
		{"gif", gifMagic, "gif"},
		{"jpeg", jpegMagic, "jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := svc.Sniff(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ext)
		})
	}
}

func TestSniffRejectsNonImages(t *testing.T) {
	svc := sniffService("jpg", "png", "gif")

	_, err := svc.Sniff([]byte("<html><body>not an image</body></html>"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = svc.Sniff([]byte("%PDF-1.7 not an image either"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtensionMatches(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		sniffed  string
		want     bool
	}{
		{"jpg matches jpeg content", "photo.jpg", "jpg", true},
		{"jpeg spelling accepted", "photo.jpeg", "jpg", true},
		{"case insensitive", "PHOTO.PNG", "png", true},
		{"png payload named jpg", "image.jpg", "png", false},
		{"gif payload named png", "image.png", "gif", false},
		{"no extension", "image", "png", false},
		{"unknown extension", "image.webp", "png", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extensionMatches(tt.filename, tt.sniffed))
		})
	}
}

func TestSniffHonorsAllowedFormats(t *testing.T) {
	svc := sniffService("png")

	ext, err := svc.Sniff(pngMagic)
	require.NoError(t, err)
	assert.Equal(t, "png", ext)

	_, err = svc.Sniff(gifMagic)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, "jpeg", normalizeExt("jpg"))
	assert.Equal(t, "png", normalizeExt("png"))
	assert.Equal(t, "gif", normalizeExt("gif"))
}
