package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(ts *httptest.Server) *Client {
	return NewClient(ts.URL, 5*time.Second)
}

func TestClient_Do_DecodesJSONResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id": 7, "first_name": "Greta"}`)
	}))
	defer ts.Close()

	var out struct {
		ID        int64  `json:"id"`
		FirstName string `json:"first_name"`
	}
	if err := newTestClient(ts).Do(context.Background(), http.MethodGet, "/users/7", nil, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ID != 7 || out.FirstName != "Greta" {
		t.Errorf("decoded = %+v, want id=7 name=Greta", out)
	}
}

func TestClient_Do_JSONBodySetsContentType(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"first_name":"Alice"`) {
			t.Errorf("body = %s, want serialized JSON", body)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	payload := map[string]string{"first_name": "Alice"}
	if err := newTestClient(ts).Do(context.Background(), http.MethodPost, "/users/", payload, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Do_MultipartBodyCarriesBoundary(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "multipart/form-data; boundary=") {
			t.Errorf("Content-Type = %q, want multipart with boundary", ct)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("content"); got != "hello" {
			t.Errorf("content field = %q, want hello", got)
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("image part missing: %v", err)
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if string(data) != "fake-bytes" {
			t.Errorf("file bytes = %q, want fake-bytes", data)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	form := NewForm().
		Set("content", "hello").
		AddFile("image", "pic.jpg", []byte("fake-bytes"))

	if err := newTestClient(ts).Do(context.Background(), http.MethodPost, "/posts/", form, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Do_EmptyOrUnparseableSuccessBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"unparseable body", "<html>not json</html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			}))
			defer ts.Close()

			var out map[string]any
			if err := newTestClient(ts).Do(context.Background(), http.MethodGet, "/posts/", nil, &out); err != nil {
				t.Fatalf("2xx with %s must not fail, got: %v", tt.name, err)
			}
			if len(out) != 0 {
				t.Errorf("out = %v, want empty payload", out)
			}
		})
	}
}

func TestClient_Do_HTTPErrorMessagePriority(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"error field wins", http.StatusBadRequest, `{"error": "bad thing", "message": "other"}`, "bad thing"},
		{"message field next", http.StatusBadRequest, `{"message": "try again"}`, "try again"},
		{"reason phrase fallback", http.StatusTeapot, `{}`, "I'm a teapot"},
		{"non-json body still errors", http.StatusBadGateway, "<html>", "Bad Gateway"},
		{"generic for unknown status", 599, "", "request failed with status 599"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer ts.Close()

			err := newTestClient(ts).Do(context.Background(), http.MethodGet, "/posts/", nil, nil)
			var httpErr *HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("error = %v (%T), want *HTTPError", err, err)
			}
			if httpErr.Status != tt.status {
				t.Errorf("status = %d, want %d", httpErr.Status, tt.status)
			}
			if httpErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", httpErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestClient_Do_CarriesErrorPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"error": "duplicate", "field": "first_name"}`)
	}))
	defer ts.Close()

	err := newTestClient(ts).Do(context.Background(), http.MethodPost, "/users/", nil, nil)
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error = %v, want *HTTPError", err)
	}
	if httpErr.Payload["field"] != "first_name" {
		t.Errorf("payload = %v, want parsed server payload", httpErr.Payload)
	}
}

func TestClient_Do_NetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // nothing listening anymore

	err := newTestClient(ts).Do(context.Background(), http.MethodGet, "/posts/", nil, nil)
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v (%T), want *NetworkError", err, err)
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		t.Error("transport failures must not carry a status")
	}
}

func TestClient_ResolveImageURL(t *testing.T) {
	c := NewClient("http://api.example.com", time.Second)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"relative with slash", "/images/abc", "http://api.example.com/images/abc"},
		{"relative without slash", "images/abc", "http://api.example.com/images/abc"},
		{"absolute http", "http://cdn.example.com/x.jpg", "http://cdn.example.com/x.jpg"},
		{"absolute https", "https://cdn.example.com/x.jpg", "https://cdn.example.com/x.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.ResolveImageURL(tt.in); got != tt.want {
				t.Errorf("ResolveImageURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
