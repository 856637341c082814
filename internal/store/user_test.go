package store

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"pepesbook/internal/api"
	"pepesbook/internal/model"
)

func strPtr(s string) *string { return &s }

// testJPEG renders a small solid-color JPEG for upload tests.
func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestUserStore_FetchUser_PopulatesCache(t *testing.T) {
	gw := &fakeGateway{
		doFn: func(ctx context.Context, method, endpoint string, body, out any) error {
			if endpoint != "/users/7" {
				t.Errorf("endpoint = %s, want /users/7", endpoint)
			}
			respond(out, model.User{ID: 7, FirstName: "Greta"})
			return nil
		},
	}
	s := NewUserStore(gw)

	if _, ok := s.GetUserByID(7); ok {
		t.Fatal("cache should start empty")
	}

	user, err := s.FetchUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.FirstName != "Greta" {
		t.Errorf("first_name = %q, want Greta", user.FirstName)
	}

	if cached, ok := s.GetUserByID(7); !ok || cached.FirstName != "Greta" {
		t.Errorf("GetUserByID(7) = %+v, %t; want cached Greta", cached, ok)
	}
}

func TestUserStore_FetchUser_FailureLeavesCacheUntouched(t *testing.T) {
	fetchErr := errors.New("not found")
	gw := &fakeGateway{
		doFn: func(ctx context.Context, method, endpoint string, body, out any) error {
			return fetchErr
		},
	}
	s := NewUserStore(gw)

	_, err := s.FetchUser(context.Background(), 7)
	if !errors.Is(err, fetchErr) {
		t.Errorf("error = %v, want %v propagated unchanged", err, fetchErr)
	}
	if _, ok := s.GetUserByID(7); ok {
		t.Error("cache should stay empty after a failed fetch")
	}
}

func TestUserStore_CreateUser(t *testing.T) {
	tests := []struct {
		name      string
		firstName string
		wantErr   error
	}{
		{"success", "Alice", nil},
		{"missing name", "", model.ErrNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{
				doFn: func(ctx context.Context, method, endpoint string, body, out any) error {
					req := body.(model.CreateUserRequest)
					respond(out, model.User{ID: 1, FirstName: req.FirstName})
					return nil
				},
			}
			s := NewUserStore(gw)

			user, err := s.CreateUser(context.Background(), tt.firstName, nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				if len(gw.calls) != 0 {
					t.Error("no request should be issued on validation failure")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.ID != 1 || user.FirstName != "Alice" {
				t.Errorf("user = %+v, want id=1 name=Alice", user)
			}
			if _, ok := s.GetUserByID(1); !ok {
				t.Error("created user should be cached")
			}
		})
	}
}

func TestUserStore_UpdateUser_MergesIntoCache(t *testing.T) {
	// The server answers the update with a partial record: the cached avatar
	// must survive the name change.
	gw := &fakeGateway{
		doFn: func(ctx context.Context, method, endpoint string, body, out any) error {
			switch method {
			case "GET":
				respond(out, model.User{ID: 7, FirstName: "Greta", ProfilePic: strPtr("/images/abc")})
			case "PUT":
				respond(out, model.User{ID: 7, FirstName: "Margareta"})
			}
			return nil
		},
	}
	s := NewUserStore(gw)

	if _, err := s.FetchUser(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := s.UpdateUser(context.Background(), 7, model.UpdateUserRequest{FirstName: strPtr("Margareta")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.FirstName != "Margareta" {
		t.Errorf("first_name = %q, want Margareta", updated.FirstName)
	}
	if updated.ProfilePic == nil || *updated.ProfilePic != "/images/abc" {
		t.Errorf("profile_pic = %v, want preserved /images/abc", updated.ProfilePic)
	}
}

func TestUserStore_UpdateProfilePicture(t *testing.T) {
	avatar := testJPEG(t, 400, 300)

	gw := &fakeGateway{
		doFn: func(ctx context.Context, method, endpoint string, body, out any) error {
			if method != "PUT" || endpoint != "/users/7/profile-picture" {
				t.Errorf("request = %s %s, want PUT /users/7/profile-picture", method, endpoint)
			}
			if _, ok := body.(*api.Form); !ok {
				t.Errorf("body = %T, want multipart *api.Form", body)
			}
			respond(out, model.User{ID: 7, FirstName: "Greta", ProfilePic: strPtr("/images/new")})
			return nil
		},
	}
	s := NewUserStore(gw)

	user, err := s.UpdateProfilePicture(context.Background(), 7, avatar)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ProfilePic == nil || *user.ProfilePic != "/images/new" {
		t.Errorf("profile_pic = %v, want /images/new", user.ProfilePic)
	}

	if cached, ok := s.GetUserByID(7); !ok || cached.ProfilePic == nil || *cached.ProfilePic != "/images/new" {
		t.Errorf("cache = %+v, %t; want replaced record", cached, ok)
	}
}

func TestUserStore_UpdateProfilePicture_RejectsBadImage(t *testing.T) {
	gw := &fakeGateway{}
	s := NewUserStore(gw)

	_, err := s.UpdateProfilePicture(context.Background(), 7, []byte("not an image"))
	if !errors.Is(err, model.ErrInvalidImageType) {
		t.Errorf("error = %v, want %v", err, model.ErrInvalidImageType)
	}
	if len(gw.calls) != 0 {
		t.Error("invalid images must never reach the network")
	}
}
