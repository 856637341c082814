package media

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"

	"pepesbook/internal/model"
)

// DetectImageType sniffs the content type from the leading bytes.
func DetectImageType(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	contentType := http.DetectContentType(data[:min(len(data), 512)])
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	return contentType
}

// validate enforces size and type limits on raw upload bytes.
func validate(data []byte, maxSize int64) (string, error) {
	if len(data) == 0 {
		return "", model.ErrEmptyImage
	}
	if int64(len(data)) > maxSize {
		return "", model.ErrFileTooLarge
	}

	contentType := DetectImageType(data)
	if !model.IsAllowedImageType(contentType) {
		return "", model.ErrInvalidImageType
	}
	return contentType, nil
}

// ValidatePostImage checks a post image before it goes into a multipart
// upload. Post images are sent as-is; only size and type are enforced.
func ValidatePostImage(data []byte) error {
	_, err := validate(data, model.MaxPostImageSize)
	return err
}

// NormalizeAvatar validates an avatar upload and re-encodes it as a
// 200x200 center-cropped JPEG, matching what the backend serves back.
func NormalizeAvatar(data []byte) ([]byte, error) {
	if _, err := validate(data, model.MaxAvatarSizeBytes); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode avatar image: %w", err)
	}

	resized := imaging.Fill(img, model.AvatarWidth, model.AvatarHeight, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(model.AvatarJPEGQuality)); err != nil {
		return nil, fmt.Errorf("encode avatar jpeg: %w", err)
	}

	return buf.Bytes(), nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
