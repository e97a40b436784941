package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Gravitalia/gallery/helpers"
	"github.com/Gravitalia/gallery/model"
)

const ME = "@me"

// Every possible error list
const (
	ErrorAlreadyReported     = "Target already reported recently"
	ErrorInvalidPost         = "Invalid post"
	ErrorInternalServerError = "Internal server error"
	ErrorInvalidToken        = "Invalid token"
	ErrorInvalidBody         = "Invalid body"
	ErrorInvalidRelation     = "Invalid relation"
	ErrorInvalidQuery        = "Invalid query"
	ErrorInvalidUser         = "Invalid user"
	ErrorMethodNotAllowed    = "Method not allowed"
	ErrorOwnPost             = "You cannot like your own post"
	ErrorUnableReadBody      = "Unable to read body"
)

// Every OK message reponse
const (
	Ok                = "OK"
	OkCreatedRelation = "Created relation"
	OkDeletedRelation = "Deleted relation"
	OkExistsRelation  = "Relation already exists"
)

// checkToken resolves an authorization header into a vanity
var checkToken = helpers.CheckToken

func Index(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "OK")
}

// sendError writes the error envelope with the given status
func sendError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.RequestError{
		Error:   true,
		Message: message,
	})
}

// sendMessage writes a successful envelope
func sendMessage(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.RequestError{
		Error:   false,
		Message: message,
	})
}

// getVanity returns the vanity of the token owner, an empty
// string if no token is sent, or an error if it is invalid
func getVanity(req *http.Request) (string, error) {
	token := req.Header.Get("Authorization")
	if token == "" {
		return "", nil
	}

	return checkToken(token)
}
