package store

import (
	"context"
	"fmt"
	"log"
	"net/http"

	lru "github.com/hashicorp/golang-lru/v2"

	"pepesbook/internal/api"
	"pepesbook/internal/media"
	"pepesbook/internal/model"
)

// UserCacheSize bounds the user cache. Users are fetched lazily per id as
// posts and comments reference them, so a bounded LRU keeps the hot authors
// resident without growing forever.
const UserCacheSize = 512

// UserStore caches user records by id.
type UserStore struct {
	gateway Gateway
	users   *lru.Cache[int64, model.User]
}

func NewUserStore(gateway Gateway) *UserStore {
	users, err := lru.New[int64, model.User](UserCacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &UserStore{
		gateway: gateway,
		users:   users,
	}
}

// GetUserByID is the synchronous cache lookup. A miss means the caller
// should FetchUser.
func (s *UserStore) GetUserByID(id int64) (model.User, bool) {
	return s.users.Get(id)
}

// setUser caches a complete server record, overwriting any previous entry.
func (s *UserStore) setUser(user model.User) {
	s.users.Add(user.ID, user)
}

// mergeUser folds a server record into the cached one, if any. Update paths
// go through here so a partial response never blanks cached fields.
func (s *UserStore) mergeUser(user model.User) model.User {
	if cached, ok := s.users.Get(user.ID); ok {
		user = cached.Merge(user)
	}
	s.users.Add(user.ID, user)
	return user
}

// FetchUser loads a user from the server and caches it. Gateway failures
// propagate unchanged and leave the cache untouched.
func (s *UserStore) FetchUser(ctx context.Context, id int64) (model.User, error) {
	var user model.User
	if err := s.gateway.Do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &user); err != nil {
		return model.User{}, err
	}

	s.setUser(user)
	log.Printf("[UserStore] FetchUser OK: user=%d", user.ID)
	return user, nil
}

// CreateUser registers a new user. In Pepesbook creating a user is logging
// in: the caller hands the returned record to the session store.
func (s *UserStore) CreateUser(ctx context.Context, firstName string, profilePic *string) (model.User, error) {
	if firstName == "" {
		return model.User{}, model.ErrNameRequired
	}

	req := model.CreateUserRequest{
		FirstName:  firstName,
		ProfilePic: profilePic,
	}

	var user model.User
	if err := s.gateway.Do(ctx, http.MethodPost, "/users/", req, &user); err != nil {
		return model.User{}, err
	}

	s.setUser(user)
	log.Printf("[UserStore] CreateUser OK: user=%d name=%q", user.ID, user.FirstName)
	return user, nil
}

// UpdateUser sends a partial field update and merges the server's answer
// into the cache.
func (s *UserStore) UpdateUser(ctx context.Context, id int64, req model.UpdateUserRequest) (model.User, error) {
	var user model.User
	if err := s.gateway.Do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), req, &user); err != nil {
		return model.User{}, err
	}
	if user.ID == 0 {
		user.ID = id
	}

	merged := s.mergeUser(user)
	log.Printf("[UserStore] UpdateUser OK: user=%d", id)
	return merged, nil
}

// UpdateProfilePicture normalizes the avatar client-side and uploads it as
// multipart. The cache takes the server's record on success.
func (s *UserStore) UpdateProfilePicture(ctx context.Context, id int64, image []byte) (model.User, error) {
	normalized, err := media.NormalizeAvatar(image)
	if err != nil {
		return model.User{}, err
	}

	form := api.NewForm().AddFile("profile_pic", "avatar.jpg", normalized)

	var user model.User
	if err := s.gateway.Do(ctx, http.MethodPut, fmt.Sprintf("/users/%d/profile-picture", id), form, &user); err != nil {
		return model.User{}, err
	}
	if user.ID == 0 {
		user.ID = id
	}

	merged := s.mergeUser(user)
	log.Printf("[UserStore] UpdateProfilePicture OK: user=%d", id)
	return merged, nil
}
