package router

import (
	"github.com/Gravitalia/gallery/database"
	"github.com/Gravitalia/gallery/model"
)

// Store is the persistence used by the handlers
type Store interface {
	Profile(user string) (model.Profile, error)
	Gallery(user, viewer string) ([]model.Post, error)
	Post(id, viewer string) (model.Post, error)
	Author(post string) (string, error)
	Relate(user, to, relation string) (bool, error)
	Unrelate(user, to, relation string) (bool, error)
	IsSubscriber(user, to string) (bool, error)
	IsBlocked(user, by string) (bool, error)
	AcquireReport(reporter, target string) (bool, error)
	ReleaseReport(reporter, target string) error
	CreateReport(report model.Report) error
}

// graph is the Store backed by neo4j and memcached
type graph struct{}

func (graph) Profile(user string) (model.Profile, error) {
	return database.GetProfile(user)
}

func (graph) Gallery(user, viewer string) ([]model.Post, error) {
	return database.GetGallery(user, viewer)
}

func (graph) Post(id, viewer string) (model.Post, error) {
	return database.GetPost(id, viewer)
}

func (graph) Author(post string) (string, error) {
	return database.GetAuthor(post)
}

func (graph) Relate(user, to, relation string) (bool, error) {
	return database.UserRelation(user, to, relation)
}

func (graph) Unrelate(user, to, relation string) (bool, error) {
	return database.UserUnRelation(user, to, relation)
}

func (graph) IsSubscriber(user, to string) (bool, error) {
	return database.IsUserSubscrirerTo(user, to)
}

func (graph) IsBlocked(user, by string) (bool, error) {
	return database.IsBlocked(user, by)
}

func (graph) AcquireReport(reporter, target string) (bool, error) {
	return database.AcquireReport(reporter, target)
}

func (graph) ReleaseReport(reporter, target string) error {
	return database.ReleaseReport(reporter, target)
}

func (graph) CreateReport(report model.Report) error {
	return database.CreateReport(report)
}

var store Store = graph{}

// UseStore replaces the store used by every handler
func UseStore(s Store) {
	store = s
}
