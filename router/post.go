package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Gravitalia/gallery/database"
	"github.com/Gravitalia/gallery/helpers"
)

// PostHandler routes /posts/{id}
func PostHandler(w http.ResponseWriter, req *http.Request) {
	id := strings.TrimPrefix(req.URL.Path, "/posts/")
	if id == "" || strings.Contains(id, "/") {
		sendError(w, http.StatusNotFound, ErrorInvalidPost)
		return
	}

	if req.Method != http.MethodGet {
		sendError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
		return
	}

	Get(w, req)
}

// Get returns a post if the viewer is allowed to see the gallery
// of its author
func Get(w http.ResponseWriter, req *http.Request) {
	vanity, err := getVanity(req)
	if err != nil {
		sendError(w, http.StatusUnauthorized, ErrorInvalidToken)
		return
	}

	id := strings.TrimPrefix(req.URL.Path, "/posts/")
	post, err := store.Post(id, vanity)
	if errors.Is(err, database.ErrInvalidPost) {
		sendError(w, http.StatusNotFound, ErrorInvalidPost)
		return
	} else if err != nil {
		helpers.Logger.Error().Err(err).Str("post", id).Msg("cannot get post")
		sendError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	profile, err := store.Profile(post.Author)
	if err != nil || profile.Suspended {
		sendError(w, http.StatusNotFound, ErrorInvalidPost)
		return
	}

	// hidden posts are reported as missing
	access, err := canAccessPosts(profile, vanity, post.Author, vanity != "" && vanity == post.Author)
	if err != nil {
		helpers.Logger.Error().Err(err).Str("post", id).Msg("cannot check post access")
		sendError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	} else if !access {
		sendError(w, http.StatusNotFound, ErrorInvalidPost)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}
