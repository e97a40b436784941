package router

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Gravitalia/gallery/helpers"
	"github.com/Gravitalia/gallery/model"
)

// UserHandler route /users/* route into the well path
func UserHandler(w http.ResponseWriter, req *http.Request) {
	id := strings.TrimPrefix(req.URL.Path, "/users/")
	if id == "" || strings.Contains(id, "/") {
		sendError(w, http.StatusNotFound, ErrorInvalidUser)
		return
	}

	if req.Method != http.MethodGet {
		sendError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
		return
	}

	Users(w, req)
}

// Users returns the profile of a user and the gallery of
// posts the viewer is allowed to see
func Users(w http.ResponseWriter, req *http.Request) {
	vanity, err := getVanity(req)
	if err != nil {
		sendError(w, http.StatusUnauthorized, ErrorInvalidToken)
		return
	}

	username := strings.TrimPrefix(req.URL.Path, "/users/")
	if username == ME {
		if vanity == "" {
			sendError(w, http.StatusUnauthorized, ErrorInvalidToken)
			return
		}
		username = vanity
	}

	profile, err := store.Profile(username)
	if err != nil || profile.Suspended {
		sendError(w, http.StatusNotFound, ErrorInvalidUser)
		return
	}

	owner := vanity != "" && vanity == username
	access, err := canAccessPosts(profile, vanity, username, owner)
	if err != nil {
		helpers.Logger.Error().Err(err).Str("user", username).Msg("cannot check gallery access")
		sendError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	posts := make([]model.Post, 0)
	if access {
		posts, err = store.Gallery(username, vanity)
		if err != nil {
			helpers.Logger.Error().Err(err).Str("user", username).Msg("cannot get gallery")
			sendError(w, http.StatusInternalServerError, ErrorInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.Gallery{
		Profile:       profile,
		Owner:         owner,
		CanAccessPost: access,
		Posts:         posts,
	})
}

// canAccessPosts tells if the viewer can see the posts of user
func canAccessPosts(profile model.Profile, viewer string, user string, owner bool) (bool, error) {
	if owner {
		return true, nil
	}

	if viewer != "" {
		blocked, err := store.IsBlocked(viewer, user)
		if err != nil {
			return false, err
		} else if blocked {
			return false, nil
		}
	}

	if profile.Public {
		return true, nil
	} else if viewer == "" {
		return false, nil
	}

	return store.IsSubscriber(viewer, user)
}
