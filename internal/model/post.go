package model

import (
	"errors"
	"time"
)

// Post represents a feed post with its metadata.
type Post struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"image_url"` // relative URL unless already absolute
	CreatedAt time.Time `json:"created_at"`
}

// Post constraints
const (
	MaxPostContentLength = 2200
	MaxPostImageSize     = 10 * 1024 * 1024 // 10MB
)

// Post errors
var (
	ErrPostNotFound   = errors.New("post not found")
	ErrNotPostOwner   = errors.New("not the owner of this post")
	ErrContentTooLong = errors.New("post content too long")
)
