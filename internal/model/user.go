package model

import "errors"

// User represents a Pepesbook user. Creating a user is logging in: there is
// no password, the backend hands out an id and that identity becomes the
// session.
type User struct {
	ID         int64   `json:"id"`
	FirstName  string  `json:"first_name"`
	ProfilePic *string `json:"profile_pic"` // relative URL unless already absolute
}

// Merge applies the non-empty fields of partial onto u and returns the
// result. Identity updates are merge-by-default everywhere in the client, so
// a partial payload (e.g. only a new name) never blanks unrelated fields.
func (u User) Merge(partial User) User {
	if partial.FirstName != "" {
		u.FirstName = partial.FirstName
	}
	if partial.ProfilePic != nil {
		u.ProfilePic = partial.ProfilePic
	}
	return u
}

// CreateUserRequest is the request body for creating (= logging in) a user.
type CreateUserRequest struct {
	FirstName  string  `json:"first_name"`
	ProfilePic *string `json:"profile_pic,omitempty"`
}

// UpdateUserRequest is the request body for updating user fields.
// Pointer fields so that omitted fields stay untouched server-side.
type UpdateUserRequest struct {
	FirstName  *string `json:"first_name,omitempty"`
	ProfilePic *string `json:"profile_pic,omitempty"`
}

const MaxFirstNameLength = 50

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrNotAuthenticated is returned when a mutation requires an active session
	ErrNotAuthenticated = errors.New("user not authenticated")

	// ErrNameRequired is returned when creating a user without a display name
	ErrNameRequired = errors.New("first name is required")
)
