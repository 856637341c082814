package store

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"pepesbook/internal/model"
)

// ReactionStore caches reactions grouped by post id. Invariant: at most one
// reaction per (session user, post) held locally, enforced by filtering out
// the user's existing reaction before inserting a new one.
type ReactionStore struct {
	mu      sync.RWMutex
	gateway Gateway
	session Session

	reactions map[int64][]model.Reaction
}

func NewReactionStore(gateway Gateway, session Session) *ReactionStore {
	return &ReactionStore{
		gateway:   gateway,
		session:   session,
		reactions: make(map[int64][]model.Reaction),
	}
}

// FetchReactions replaces the cached list for one post with the server's.
func (s *ReactionStore) FetchReactions(ctx context.Context, postID int64) error {
	var reactions []model.Reaction
	if err := s.gateway.Do(ctx, http.MethodGet, fmt.Sprintf("/reactions/%d", postID), nil, &reactions); err != nil {
		return err
	}

	s.mu.Lock()
	s.reactions[postID] = reactions
	s.mu.Unlock()

	log.Printf("[ReactionStore] FetchReactions OK: post=%d count=%d", postID, len(reactions))
	return nil
}

// AddReaction upserts the session user's reaction for a post. On success the
// local list replaces any prior reaction from this user: filter-then-append,
// never a raw append.
func (s *ReactionStore) AddReaction(ctx context.Context, postID int64, reactionType string) (model.Reaction, error) {
	user, ok := s.session.CurrentUser()
	if !ok {
		return model.Reaction{}, model.ErrNotAuthenticated
	}
	if !model.IsKnownReactionType(reactionType) {
		return model.Reaction{}, model.ErrInvalidReactionType
	}

	req := model.ReactionRequest{
		PostID: postID,
		UserID: user.ID,
		Type:   reactionType,
	}

	var created model.Reaction
	if err := s.gateway.Do(ctx, http.MethodPost, "/reactions/", req, &created); err != nil {
		return model.Reaction{}, err
	}

	s.mu.Lock()
	s.reactions[postID] = append(s.withoutUser(postID, user.ID), created)
	s.mu.Unlock()

	log.Printf("[ReactionStore] AddReaction OK: post=%d user=%d type=%s", postID, user.ID, reactionType)
	return created, nil
}

// RemoveReaction optimistically drops the session user's reaction, then
// tells the server via the sentinel type. The backend treats the sentinel as
// a deletion; it is still a POST, not a DELETE. On failure the post's
// reactions are refetched.
func (s *ReactionStore) RemoveReaction(ctx context.Context, postID int64) error {
	user, ok := s.session.CurrentUser()
	if !ok {
		return model.ErrNotAuthenticated
	}

	apply := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.reactions[postID] = s.withoutUser(postID, user.ID)
	}

	call := func(ctx context.Context) error {
		req := model.ReactionRequest{
			PostID: postID,
			UserID: user.ID,
			Type:   model.ReactionNone,
		}
		return s.gateway.Do(ctx, http.MethodPost, "/reactions/", req, nil)
	}

	refetch := func(ctx context.Context) error {
		return s.FetchReactions(ctx, postID)
	}

	if err := applyOptimistic(ctx, "ReactionStore", apply, call, refetch); err != nil {
		return err
	}

	log.Printf("[ReactionStore] RemoveReaction OK: post=%d user=%d", postID, user.ID)
	return nil
}

// withoutUser returns the post's reactions minus the given user's entry.
// Callers must hold the lock.
func (s *ReactionStore) withoutUser(postID, userID int64) []model.Reaction {
	kept := make([]model.Reaction, 0, len(s.reactions[postID]))
	for _, r := range s.reactions[postID] {
		if r.UserID != userID {
			kept = append(kept, r)
		}
	}
	return kept
}

// GetReactionsByPostID returns the cached reactions for a post.
func (s *ReactionStore) GetReactionsByPostID(postID int64) []model.Reaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cached := s.reactions[postID]
	out := make([]model.Reaction, len(cached))
	copy(out, cached)
	return out
}

// GetUserReaction returns the session user's reaction for a post, if any.
func (s *ReactionStore) GetUserReaction(postID int64) (model.Reaction, bool) {
	user, ok := s.session.CurrentUser()
	if !ok {
		return model.Reaction{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reactions[postID] {
		if r.UserID == user.ID {
			return r, true
		}
	}
	return model.Reaction{}, false
}

// GetReactionCount returns the total reaction count for a post, zero when
// nothing has been fetched yet.
func (s *ReactionStore) GetReactionCount(postID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reactions[postID])
}

// GetReactionsByType tallies a post's reactions into the fixed four-key
// mapping. Every known type is present, starting at zero; unrecognized types
// are ignored rather than getting a key of their own.
func (s *ReactionStore) GetReactionsByType(postID int64) map[string]int {
	counts := make(map[string]int, len(model.ReactionTypes))
	for _, t := range model.ReactionTypes {
		counts[t] = 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reactions[postID] {
		if _, ok := counts[r.Type]; ok {
			counts[r.Type]++
		}
	}
	return counts
}
