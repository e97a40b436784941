package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Gravitalia/gallery/database"
	"github.com/Gravitalia/gallery/helpers"
	"github.com/Gravitalia/gallery/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const relationLike = "Like"

var relations = []string{relationLike, "Subscriber", "Block", "Love"}

// RelationHandler re-routes to the requested handler
func RelationHandler(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodPost:
		Relation(w, req)
	case http.MethodDelete:
		UnRelation(w, req)
	default:
		sendError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
	}
}

// relationFromPath returns the relation type of the route,
// e.g. "Like" for /relation/like
func relationFromPath(path string) (string, bool) {
	relation := cases.Title(language.English, cases.Compact).String(strings.TrimPrefix(path, "/relation/"))
	for _, v := range relations {
		if v == relation {
			return relation, true
		}
	}

	return "", false
}

// readRelation checks the route, the token and the body shared by
// every relation route. It writes the error response itself.
func readRelation(w http.ResponseWriter, req *http.Request) (relation string, vanity string, target string, ok bool) {
	relation, ok = relationFromPath(req.URL.Path)
	if !ok {
		sendError(w, http.StatusBadRequest, ErrorInvalidRelation)
		return "", "", "", false
	}

	vanity, err := getVanity(req)
	if err != nil || vanity == "" {
		sendError(w, http.StatusUnauthorized, ErrorInvalidToken)
		return "", "", "", false
	}

	defer req.Body.Close()
	body, err := io.ReadAll(req.Body)
	if err != nil {
		sendError(w, http.StatusInternalServerError, ErrorUnableReadBody)
		return "", "", "", false
	}

	var getbody model.SetBody
	if err = json.Unmarshal(body, &getbody); err != nil || getbody.Id == "" {
		sendError(w, http.StatusBadRequest, ErrorInvalidBody)
		return "", "", "", false
	}

	return relation, vanity, getbody.Id, true
}

// Relation is a route for allowing users to subscribe to each other
// or like posts, depending on the chosen route. Liking is idempotent,
// other relations are toggled.
func Relation(w http.ResponseWriter, req *http.Request) {
	relation, vanity, target, ok := readRelation(w, req)
	if !ok {
		return
	}

	var author string
	if relation == relationLike {
		var err error
		author, err = store.Author(target)
		if err != nil {
			sendError(w, http.StatusNotFound, ErrorInvalidPost)
			return
		} else if author == vanity {
			sendError(w, http.StatusBadRequest, ErrorOwnPost)
			return
		}
	}

	isValid, err := store.Relate(vanity, target, relation)
	if errors.Is(err, database.ErrAlreadyRelated) {
		if relation == relationLike {
			sendMessage(w, OkExistsRelation)
			return
		}

		if _, err = store.Unrelate(vanity, target, relation); err != nil {
			sendError(w, http.StatusInternalServerError, ErrorInternalServerError)
			return
		}
		sendMessage(w, OkDeletedRelation)
		return
	} else if err != nil || !isValid {
		helpers.Logger.Error().Err(err).Str("relation", relation).Str("target", target).Msg("cannot create relation")
		sendError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	if relation == relationLike {
		helpers.IncrementLikes("like")
		helpers.NotifyLike(vanity, author)
	}

	sendMessage(w, OkCreatedRelation)
}

// UnRelation deletes the relation, if any
func UnRelation(w http.ResponseWriter, req *http.Request) {
	relation, vanity, target, ok := readRelation(w, req)
	if !ok {
		return
	}

	if _, err := store.Unrelate(vanity, target, relation); err != nil {
		helpers.Logger.Error().Err(err).Str("relation", relation).Str("target", target).Msg("cannot delete relation")
		sendError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	if relation == relationLike {
		helpers.IncrementLikes("unlike")
	}

	sendMessage(w, OkDeletedRelation)
}
