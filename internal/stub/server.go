// Package stub is an in-memory stand-in for the Pepesbook backend. It
// mirrors the REST contract the client consumes so the CLI can run locally
// and the package tests have a real HTTP surface to talk to. The production
// backend stays an external collaborator; nothing here is shared with it.
package stub

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pepesbook/internal/model"
)

// Server holds the stub's world: flat maps keyed by entity id, one shared
// id counter, all guarded by a single mutex.
type Server struct {
	mu sync.Mutex

	users     map[int64]model.User
	posts     []model.Post
	comments  map[int64][]model.Comment
	reactions map[int64][]model.Reaction
	images    map[string][]byte

	nextID int64

	// now is swappable so tests can control post timestamps.
	now func() time.Time
}

func New() *Server {
	return &Server{
		users:     make(map[int64]model.User),
		comments:  make(map[int64][]model.Comment),
		reactions: make(map[int64][]model.Reaction),
		images:    make(map[string][]byte),
		now:       time.Now,
	}
}

// Router wires every endpoint of the REST contract.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.createUser)
		r.Get("/{id}", s.getUser)
		r.Put("/{id}", s.updateUser)
		r.Put("/{id}/profile-picture", s.updateProfilePicture)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", s.listPosts)
		r.Post("/", s.createPost)
		r.Delete("/{id}", s.deletePost)
	})

	r.Route("/comments", func(r chi.Router) {
		r.Get("/{postId}", s.listComments)
		r.Post("/", s.createComment)
		r.Delete("/{id}", s.deleteComment)
	})

	r.Route("/reactions", func(r chi.Router) {
		r.Get("/{postId}", s.listReactions)
		r.Post("/", s.upsertReaction)
	})

	r.Get("/images/{key}", s.serveImage)

	return r
}

// allocID hands out the next entity id. Callers must hold the lock.
func (s *Server) allocID() int64 {
	s.nextID++
	return s.nextID
}
