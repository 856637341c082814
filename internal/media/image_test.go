package media

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"pepesbook/internal/model"
)

func renderImage(t *testing.T, w, h int, encode func(b *bytes.Buffer, img image.Image) error) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func asJPEG(b *bytes.Buffer, img image.Image) error { return jpeg.Encode(b, img, nil) }
func asPNG(b *bytes.Buffer, img image.Image) error  { return png.Encode(b, img) }

func TestNormalizeAvatar_ProducesFixedSizeJPEG(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"landscape jpeg", nil},
		{"portrait png", nil},
	}
	tests[0].data = renderImage(t, 640, 360, asJPEG)
	tests[1].data = renderImage(t, 300, 500, asPNG)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NormalizeAvatar(tt.data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := DetectImageType(out); got != model.ContentTypeJPEG {
				t.Errorf("output type = %q, want %q", got, model.ContentTypeJPEG)
			}

			decoded, err := jpeg.Decode(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("decode normalized avatar: %v", err)
			}
			b := decoded.Bounds()
			if b.Dx() != model.AvatarWidth || b.Dy() != model.AvatarHeight {
				t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), model.AvatarWidth, model.AvatarHeight)
			}
		})
	}
}

func TestNormalizeAvatar_Rejections(t *testing.T) {
	oversized := make([]byte, model.MaxAvatarSizeBytes+1)
	// valid JPEG magic so the failure is the size check, not type sniffing
	copy(oversized, []byte{0xFF, 0xD8, 0xFF, 0xE0})

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty", nil, model.ErrEmptyImage},
		{"not an image", []byte("plain text, definitely"), model.ErrInvalidImageType},
		{"too large", oversized, model.ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeAvatar(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePostImage(t *testing.T) {
	if err := ValidatePostImage(renderImage(t, 64, 64, asPNG)); err != nil {
		t.Errorf("valid png rejected: %v", err)
	}
	if err := ValidatePostImage([]byte("nope")); !errors.Is(err, model.ErrInvalidImageType) {
		t.Errorf("error = %v, want %v", err, model.ErrInvalidImageType)
	}
}
