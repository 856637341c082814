package stub

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pepesbook/internal/httputil"
	"pepesbook/internal/model"
)

const maxUploadMemory = 16 << 20 // 16MB

func parseID(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, param), 10, 64)
}

// createUser handles POST /users/. There is no password: creating a user is
// how a client logs in.
func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.FirstName == "" {
		httputil.WriteBadRequest(w, "first_name is required")
		return
	}

	s.mu.Lock()
	user := model.User{
		ID:         s.allocID(),
		FirstName:  req.FirstName,
		ProfilePic: req.ProfilePic,
	}
	s.users[user.ID] = user
	s.mu.Unlock()

	log.Printf("[Stub] createUser: user=%d name=%q", user.ID, user.FirstName)
	httputil.WriteJSON(w, http.StatusCreated, user)
}

// getUser handles GET /users/{id}.
func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	s.mu.Lock()
	user, ok := s.users[id]
	s.mu.Unlock()

	if !ok {
		httputil.WriteNotFound(w, "User not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// updateUser handles PUT /users/{id} with a partial field payload.
func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	var req model.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	s.mu.Lock()
	user, ok := s.users[id]
	if ok {
		if req.FirstName != nil {
			user.FirstName = *req.FirstName
		}
		if req.ProfilePic != nil {
			user.ProfilePic = req.ProfilePic
		}
		s.users[id] = user
	}
	s.mu.Unlock()

	if !ok {
		httputil.WriteNotFound(w, "User not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// updateProfilePicture handles PUT /users/{id}/profile-picture. The upload
// is stored in memory and served back under a relative /images/ URL, which
// is exactly what exercises the client's URL resolution.
func (s *Server) updateProfilePicture(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	data, err := readUpload(r, "profile_pic")
	if err != nil {
		httputil.WriteBadRequest(w, "profile_pic file is required")
		return
	}

	key := uuid.NewString()
	relURL := "/images/" + key

	s.mu.Lock()
	user, ok := s.users[id]
	if ok {
		s.images[key] = data
		user.ProfilePic = &relURL
		s.users[id] = user
	}
	s.mu.Unlock()

	if !ok {
		httputil.WriteNotFound(w, "User not found")
		return
	}

	log.Printf("[Stub] updateProfilePicture: user=%d bytes=%d", id, len(data))
	httputil.WriteJSON(w, http.StatusOK, user)
}

// listPosts handles GET /posts/. Insertion order on purpose: sorting the
// feed is the client's job.
func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	posts := make([]model.Post, len(s.posts))
	copy(posts, s.posts)
	s.mu.Unlock()

	httputil.WriteJSON(w, http.StatusOK, posts)
}

// createPost handles POST /posts/ as multipart(content, user_id, image?).
func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		httputil.WriteBadRequest(w, "Invalid multipart body")
		return
	}

	userID, err := strconv.ParseInt(r.FormValue("user_id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user_id")
		return
	}
	content := r.FormValue("content")

	var imageURL *string
	if data, err := readUpload(r, "image"); err == nil {
		key := uuid.NewString()
		relURL := "/images/" + key

		s.mu.Lock()
		s.images[key] = data
		s.mu.Unlock()

		imageURL = &relURL
	}

	s.mu.Lock()
	if _, ok := s.users[userID]; !ok {
		s.mu.Unlock()
		httputil.WriteNotFound(w, "User not found")
		return
	}
	post := model.Post{
		ID:        s.allocID(),
		UserID:    userID,
		Content:   content,
		ImageURL:  imageURL,
		CreatedAt: s.now(),
	}
	s.posts = append(s.posts, post)
	s.mu.Unlock()

	log.Printf("[Stub] createPost: post=%d user=%d", post.ID, userID)
	httputil.WriteJSON(w, http.StatusCreated, post)
}

// deletePost handles DELETE /posts/{id}?user_id=. Only the owner may delete;
// comments and reactions of the post go with it.
func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user_id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.posts {
		if p.ID != id {
			continue
		}
		if p.UserID != userID {
			httputil.WriteForbidden(w, "You can only delete your own posts")
			return
		}
		s.posts = append(s.posts[:i], s.posts[i+1:]...)
		delete(s.comments, id)
		delete(s.reactions, id)
		log.Printf("[Stub] deletePost: post=%d user=%d", id, userID)
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Post deleted"})
		return
	}

	httputil.WriteNotFound(w, "Post not found")
}

// listComments handles GET /comments/{postId}.
func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	postID, err := parseID(r, "postId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	s.mu.Lock()
	comments := make([]model.Comment, len(s.comments[postID]))
	copy(comments, s.comments[postID])
	s.mu.Unlock()

	httputil.WriteJSON(w, http.StatusOK, comments)
}

// createComment handles POST /comments/.
func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.Content == "" {
		httputil.WriteBadRequest(w, "Comment content is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.postExists(req.PostID) {
		httputil.WriteNotFound(w, "Post not found")
		return
	}
	if _, ok := s.users[req.UserID]; !ok {
		httputil.WriteNotFound(w, "User not found")
		return
	}

	comment := model.Comment{
		ID:        s.allocID(),
		PostID:    req.PostID,
		UserID:    req.UserID,
		Content:   req.Content,
		CreatedAt: s.now(),
	}
	s.comments[req.PostID] = append(s.comments[req.PostID], comment)

	log.Printf("[Stub] createComment: comment=%d post=%d", comment.ID, req.PostID)
	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// deleteComment handles DELETE /comments/{id}?user_id=.
func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user_id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for postID, comments := range s.comments {
		for i, c := range comments {
			if c.ID != id {
				continue
			}
			if c.UserID != userID {
				httputil.WriteForbidden(w, "You can only delete your own comments")
				return
			}
			s.comments[postID] = append(comments[:i], comments[i+1:]...)
			log.Printf("[Stub] deleteComment: comment=%d post=%d", id, postID)
			httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted"})
			return
		}
	}

	httputil.WriteNotFound(w, "Comment not found")
}

// listReactions handles GET /reactions/{postId}.
func (s *Server) listReactions(w http.ResponseWriter, r *http.Request) {
	postID, err := parseID(r, "postId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	s.mu.Lock()
	reactions := make([]model.Reaction, len(s.reactions[postID]))
	copy(reactions, s.reactions[postID])
	s.mu.Unlock()

	httputil.WriteJSON(w, http.StatusOK, reactions)
}

// upsertReaction handles POST /reactions/. One reaction per (user, post):
// posting replaces any existing entry, and the sentinel type clears it.
func (s *Server) upsertReaction(w http.ResponseWriter, r *http.Request) {
	var req model.ReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.Type != model.ReactionNone && !model.IsKnownReactionType(req.Type) {
		httputil.WriteBadRequest(w, fmt.Sprintf("Unknown reaction type %q", req.Type))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.postExists(req.PostID) {
		httputil.WriteNotFound(w, "Post not found")
		return
	}

	kept := make([]model.Reaction, 0, len(s.reactions[req.PostID]))
	for _, existing := range s.reactions[req.PostID] {
		if existing.UserID != req.UserID {
			kept = append(kept, existing)
		}
	}

	if req.Type == model.ReactionNone {
		s.reactions[req.PostID] = kept
		log.Printf("[Stub] upsertReaction: post=%d user=%d cleared", req.PostID, req.UserID)
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Reaction removed"})
		return
	}

	reaction := model.Reaction{
		ID:     s.allocID(),
		PostID: req.PostID,
		UserID: req.UserID,
		Type:   req.Type,
	}
	s.reactions[req.PostID] = append(kept, reaction)

	log.Printf("[Stub] upsertReaction: post=%d user=%d type=%s", req.PostID, req.UserID, req.Type)
	httputil.WriteJSON(w, http.StatusCreated, reaction)
}

// serveImage handles GET /images/{key}.
func (s *Server) serveImage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	s.mu.Lock()
	data, ok := s.images[key]
	s.mu.Unlock()

	if !ok {
		httputil.WriteNotFound(w, "Image not found")
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// postExists reports whether a post id is live. Callers must hold the lock.
func (s *Server) postExists(postID int64) bool {
	for _, p := range s.posts {
		if p.ID == postID {
			return true
		}
	}
	return false
}

// readUpload pulls one file part out of a multipart request.
func readUpload(r *http.Request, field string) ([]byte, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, err
	}
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
