package model

import (
	"errors"
	"time"
)

// Comment represents a comment on a post.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommentRequest is the request body for creating a comment.
type CreateCommentRequest struct {
	PostID  int64  `json:"post_id"`
	UserID  int64  `json:"user_id"`
	Content string `json:"content"`
}

// Comment constraints
const (
	MaxCommentLength = 2200
)

// Comment errors
var (
	ErrCommentNotFound       = errors.New("comment not found")
	ErrNotCommentOwner       = errors.New("not the owner of this comment")
	ErrCommentContentMissing = errors.New("comment content is required")
	ErrCommentTooLong        = errors.New("comment content too long")
)
