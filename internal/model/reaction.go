package model

import "errors"

// Reaction represents a single emoji reaction on a post. The backend keeps
// at most one reaction per (user, post); posting again replaces the old one.
type Reaction struct {
	ID     int64  `json:"id"`
	PostID int64  `json:"post_id"`
	UserID int64  `json:"user_id"`
	Type   string `json:"type"`
}

// Reaction types
const (
	ReactionLike = "like"
	ReactionLove = "love"
	ReactionHaha = "haha"
	ReactionSad  = "sad"

	// ReactionNone is the sentinel the backend interprets as "clear my
	// reaction". It travels through the same POST /reactions/ upsert, not an
	// actual DELETE.
	ReactionNone = "unlike"
)

// ReactionTypes lists the four displayable reaction types in tally order.
var ReactionTypes = []string{ReactionLike, ReactionLove, ReactionHaha, ReactionSad}

// IsKnownReactionType reports whether t is one of the four displayable types.
// ReactionNone is deliberately excluded: it is a wire sentinel, never a
// stored reaction.
func IsKnownReactionType(t string) bool {
	for _, known := range ReactionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ReactionRequest is the request body for the reaction upsert endpoint.
type ReactionRequest struct {
	PostID int64  `json:"post_id"`
	UserID int64  `json:"user_id"`
	Type   string `json:"type"`
}

// Reaction errors
var (
	ErrInvalidReactionType = errors.New("invalid reaction type")
)
