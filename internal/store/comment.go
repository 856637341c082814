package store

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"pepesbook/internal/model"
)

// CommentStore caches comments grouped by post id. List order is arrival
// order: server order on fetch, append on create.
type CommentStore struct {
	mu      sync.RWMutex
	gateway Gateway
	session Session

	comments map[int64][]model.Comment
}

func NewCommentStore(gateway Gateway, session Session) *CommentStore {
	return &CommentStore{
		gateway:  gateway,
		session:  session,
		comments: make(map[int64][]model.Comment),
	}
}

// FetchComments replaces the cached list for one post with the server's.
func (s *CommentStore) FetchComments(ctx context.Context, postID int64) error {
	var comments []model.Comment
	if err := s.gateway.Do(ctx, http.MethodGet, fmt.Sprintf("/comments/%d", postID), nil, &comments); err != nil {
		return err
	}

	s.mu.Lock()
	s.comments[postID] = comments
	s.mu.Unlock()

	log.Printf("[CommentStore] FetchComments OK: post=%d count=%d", postID, len(comments))
	return nil
}

// CreateComment posts a comment and appends the server's record to the end
// of the post's list.
func (s *CommentStore) CreateComment(ctx context.Context, postID int64, content string) (model.Comment, error) {
	user, ok := s.session.CurrentUser()
	if !ok {
		return model.Comment{}, model.ErrNotAuthenticated
	}
	if content == "" {
		return model.Comment{}, model.ErrCommentContentMissing
	}
	if len(content) > model.MaxCommentLength {
		return model.Comment{}, model.ErrCommentTooLong
	}

	req := model.CreateCommentRequest{
		PostID:  postID,
		UserID:  user.ID,
		Content: content,
	}

	var created model.Comment
	if err := s.gateway.Do(ctx, http.MethodPost, "/comments/", req, &created); err != nil {
		return model.Comment{}, err
	}

	s.mu.Lock()
	s.comments[postID] = append(s.comments[postID], created)
	s.mu.Unlock()

	log.Printf("[CommentStore] CreateComment OK: comment=%d post=%d", created.ID, postID)
	return created, nil
}

// DeleteComment removes a comment optimistically: the local entry disappears
// before the network call resolves, and a failed call reconciles by
// refetching the post's comments from the server.
func (s *CommentStore) DeleteComment(ctx context.Context, commentID, postID int64) error {
	user, ok := s.session.CurrentUser()
	if !ok {
		return model.ErrNotAuthenticated
	}

	apply := func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		kept := make([]model.Comment, 0, len(s.comments[postID]))
		for _, c := range s.comments[postID] {
			if c.ID != commentID {
				kept = append(kept, c)
			}
		}
		s.comments[postID] = kept
	}

	call := func(ctx context.Context) error {
		endpoint := fmt.Sprintf("/comments/%d?user_id=%d", commentID, user.ID)
		return s.gateway.Do(ctx, http.MethodDelete, endpoint, nil, nil)
	}

	refetch := func(ctx context.Context) error {
		return s.FetchComments(ctx, postID)
	}

	if err := applyOptimistic(ctx, "CommentStore", apply, call, refetch); err != nil {
		return err
	}

	log.Printf("[CommentStore] DeleteComment OK: comment=%d post=%d", commentID, postID)
	return nil
}

// GetCommentsByPostID returns the cached comments for a post. Unknown post
// ids yield an empty list, never an error.
func (s *CommentStore) GetCommentsByPostID(postID int64) []model.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cached := s.comments[postID]
	out := make([]model.Comment, len(cached))
	copy(out, cached)
	return out
}
