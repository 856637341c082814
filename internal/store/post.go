package store

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"pepesbook/internal/api"
	"pepesbook/internal/media"
	"pepesbook/internal/model"
)

// PostStore caches the feed. The slice order is the rendering order: newest
// first, established at fetch time and prepended-to on creation.
type PostStore struct {
	mu      sync.RWMutex
	gateway Gateway
	session Session

	posts   []model.Post
	lastErr string
}

func NewPostStore(gateway Gateway, session Session) *PostStore {
	return &PostStore{
		gateway: gateway,
		session: session,
	}
}

// FetchPosts replaces the whole collection with the server's list, sorted
// descending by creation time. The sort happens here: callers must not
// assume the server returns sorted data.
func (s *PostStore) FetchPosts(ctx context.Context) error {
	var posts []model.Post
	if err := s.gateway.Do(ctx, http.MethodGet, "/posts/", nil, &posts); err != nil {
		s.setError(err.Error())
		return err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	s.mu.Lock()
	s.posts = posts
	s.lastErr = ""
	s.mu.Unlock()

	log.Printf("[PostStore] FetchPosts OK: count=%d", len(posts))
	return nil
}

// CreatePost uploads a new post as multipart(content, user_id, image?) and
// prepends the server's record to the feed. New posts are assumed newest, so
// the rest of the collection is not re-sorted.
func (s *PostStore) CreatePost(ctx context.Context, content string, image []byte) (model.Post, error) {
	user, ok := s.session.CurrentUser()
	if !ok {
		return model.Post{}, model.ErrNotAuthenticated
	}
	if len(content) > model.MaxPostContentLength {
		return model.Post{}, model.ErrContentTooLong
	}

	form := api.NewForm().
		Set("content", content).
		Set("user_id", strconv.FormatInt(user.ID, 10))

	if len(image) > 0 {
		if err := media.ValidatePostImage(image); err != nil {
			return model.Post{}, err
		}
		form.AddFile("image", "image", image)
	}

	var created model.Post
	if err := s.gateway.Do(ctx, http.MethodPost, "/posts/", form, &created); err != nil {
		s.setError(err.Error())
		return model.Post{}, err
	}

	s.mu.Lock()
	s.posts = append([]model.Post{created}, s.posts...)
	s.lastErr = ""
	s.mu.Unlock()

	log.Printf("[PostStore] CreatePost OK: post=%d user=%d", created.ID, user.ID)
	return created, nil
}

// DeletePost removes a post, pessimistically: the local entry goes away only
// after the server confirms. The acting user's id rides along as an
// authorization hint; the server is the real authority.
func (s *PostStore) DeletePost(ctx context.Context, postID int64) error {
	user, ok := s.session.CurrentUser()
	if !ok {
		return model.ErrNotAuthenticated
	}

	endpoint := fmt.Sprintf("/posts/%d?user_id=%d", postID, user.ID)
	if err := s.gateway.Do(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		s.setError(err.Error())
		return err
	}

	s.mu.Lock()
	kept := s.posts[:0]
	for _, p := range s.posts {
		if p.ID != postID {
			kept = append(kept, p)
		}
	}
	s.posts = kept
	s.lastErr = ""
	s.mu.Unlock()

	log.Printf("[PostStore] DeletePost OK: post=%d user=%d", postID, user.ID)
	return nil
}

// GetPostByID looks up a post in the cached feed.
func (s *PostStore) GetPostByID(postID int64) (model.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.posts {
		if p.ID == postID {
			return p, true
		}
	}
	return model.Post{}, false
}

// Posts returns a copy of the cached feed in rendering order.
func (s *PostStore) Posts() []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// LastError returns the message of the most recent failed mutation, for
// display. Cleared by the next successful operation.
func (s *PostStore) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *PostStore) setError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}
