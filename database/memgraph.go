package database

import (
	"context"
	"errors"

	"github.com/Gravitalia/gallery/model"
	"github.com/bradfitz/gomemcache/memcache"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const (
	// GalleryLimit is the number of posts returned on a profile
	GalleryLimit = 12
	// CommentLimit is the number of comments returned with a post
	CommentLimit = 20
)

var (
	ErrAlreadyRelated = errors.New("relation already exists")
	ErrInvalidPost    = errors.New("invalid post")
	ErrInvalidUser    = errors.New("invalid user")
)

var (
	ctx    = context.Background()
	driver neo4j.DriverWithContext
)

// Init create the main variables for neo4j and memcached connections
func Init(url, username, password, memURL string) error {
	var err error
	driver, err = neo4j.NewDriverWithContext(url, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return err
	}

	Mem = memcache.New(memURL)

	return nil
}

// Close ends the neo4j driver
func Close() error {
	if driver != nil {
		return driver.Close(ctx)
	}

	return nil
}

// newSession opens a session for a single call. Sessions are not safe
// for concurrent use, the driver is.
func newSession(mode neo4j.AccessMode) neo4j.SessionWithContext {
	return driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode})
}

// MakeRequest is a simple way to send a query
func MakeRequest(query string, params map[string]any) (any, error) {
	session := newSession(neo4j.AccessModeWrite)
	defer session.Close(ctx)

	data, err := session.ExecuteWrite(ctx, func(transaction neo4j.ManagedTransaction) (any, error) {
		result, err := transaction.Run(ctx,
			query,
			params)
		if err != nil {
			return nil, err
		}

		if result.Next(ctx) {
			return result.Record().Values[0], nil
		}

		return nil, result.Err()
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// relationTarget returns the node label targeted by a relation
// and the property identifying it
func relationTarget(relationType string) (string, string) {
	switch relationType {
	case "Subscriber", "Block":
		return "User", "name"
	case "Love":
		return "Comment", "id"
	default:
		return "Post", "id"
	}
}

// GetProfile returns followers, following and other account data of the desired user
func GetProfile(id string) (model.Profile, error) {
	var profile model.Profile

	session := newSession(neo4j.AccessModeRead)
	defer session.Close(ctx)

	_, err := session.ExecuteRead(ctx, func(transaction neo4j.ManagedTransaction) (any, error) {
		result, err := transaction.Run(ctx,
			"MATCH (n:User {name: $id}) OPTIONAL MATCH (n)-[:Subscriber]->(d:User) WITH n, count(d) as following OPTIONAL MATCH (u:User)-[:Subscriber]->(n) WITH n, following, count(u) as followers RETURN followers, following, n.public, n.suspended;",
			map[string]any{"id": id})
		if err != nil {
			return nil, err
		}

		if !result.Next(ctx) {
			return nil, ErrInvalidUser
		}

		record := result.Record()
		if record.Values[2] == nil {
			return nil, ErrInvalidUser
		}

		profile.Followers = record.Values[0].(int64)
		profile.Following = record.Values[1].(int64)
		profile.Public = record.Values[2].(bool)
		profile.Suspended, _ = record.Values[3].(bool)

		return profile, nil
	})
	if err != nil {
		return model.Profile{Followers: -1, Following: -1}, err
	}

	return profile, nil
}

// GetGallery returns the latest posts of a user, with their like and
// comment counters and whether viewer liked them
func GetGallery(id string, viewer string) ([]model.Post, error) {
	list := make([]model.Post, 0, GalleryLimit)

	session := newSession(neo4j.AccessModeRead)
	defer session.Close(ctx)

	_, err := session.ExecuteRead(ctx, func(transaction neo4j.ManagedTransaction) (any, error) {
		result, err := transaction.Run(ctx,
			"MATCH (u:User {name: $id})-[:Create]->(p:Post) OPTIONAL MATCH (p)<-[l:Like]-(:User) WITH u, p, count(DISTINCT l) AS likes OPTIONAL MATCH (p)<-[:Comment]-(c:Comment) WITH u, p, likes, count(DISTINCT c) AS comments OPTIONAL MATCH (me:User {name: $viewer})-[ml:Like]->(p) RETURN p.id AS id, p.hash, p.description, p.text, likes, comments, ml IS NOT NULL, u.name ORDER BY id DESC LIMIT $limit;",
			map[string]any{"id": id, "viewer": viewer, "limit": GalleryLimit})
		if err != nil {
			return nil, err
		}

		for result.Next(ctx) {
			record := result.Record()
			if record.Values[0] == nil {
				return list, nil
			}

			post := model.Post{
				Id:           record.Values[0].(string),
				Like:         record.Values[4].(int64),
				CommentCount: record.Values[5].(int64),
				Liked:        record.Values[6].(bool),
			}
			post.Hash, _ = record.Values[1].([]any)
			post.Description, _ = record.Values[2].(string)
			post.Text, _ = record.Values[3].(string)
			post.Author, _ = record.Values[7].(string)

			list = append(list, post)
		}

		return list, result.Err()
	})
	if err != nil {
		return list, err
	}

	return list, nil
}

// GetPost returns a post with its counters, its latest comments and
// whether viewer liked it
func GetPost(id string, viewer string) (model.Post, error) {
	var post model.Post

	session := newSession(neo4j.AccessModeRead)
	defer session.Close(ctx)

	_, err := session.ExecuteRead(ctx, func(transaction neo4j.ManagedTransaction) (any, error) {
		result, err := transaction.Run(ctx,
			"MATCH (author:User)-[:Create]->(p:Post {id: $id}) OPTIONAL MATCH (:User)-[l:Like]->(p) WITH author, p, count(DISTINCT l) AS likes OPTIONAL MATCH (me:User {name: $viewer})-[ml:Like]->(p) WITH author, p, likes, ml IS NOT NULL AS liked OPTIONAL MATCH (p)<-[:Comment]-(c:Comment)<-[:Wrote]-(u:User) WITH author, p, likes, liked, c, u ORDER BY c.timestamp DESC WITH author, p, likes, liked, count(c) AS comments, collect(CASE WHEN c IS NULL THEN NULL ELSE {id: c.id, text: c.text, timestamp: c.timestamp, user: u.name} END)[..$limit] AS latest RETURN p.id, p.hash, p.description, p.text, likes, comments, liked, author.name, latest;",
			map[string]any{"id": id, "viewer": viewer, "limit": CommentLimit})
		if err != nil {
			return nil, err
		}

		if !result.Next(ctx) {
			if err = result.Err(); err != nil {
				return nil, err
			}
			return nil, ErrInvalidPost
		}

		record := result.Record()
		if record.Values[0] == nil {
			return nil, ErrInvalidPost
		}

		post.Id = record.Values[0].(string)
		post.Hash, _ = record.Values[1].([]any)
		post.Description, _ = record.Values[2].(string)
		post.Text, _ = record.Values[3].(string)
		post.Like = record.Values[4].(int64)
		post.CommentCount = record.Values[5].(int64)
		post.Liked = record.Values[6].(bool)
		post.Author, _ = record.Values[7].(string)
		post.Comments, _ = record.Values[8].([]any)

		return post, nil
	})
	if err != nil {
		return model.Post{}, err
	}

	return post, nil
}

// GetAuthor returns the name of the creator of a post
func GetAuthor(post string) (string, error) {
	res, err := MakeRequest("MATCH (u:User)-[:Create]->(:Post {id: $id}) RETURN u.name;",
		map[string]any{"id": post})
	if err != nil {
		return "", err
	}

	author, ok := res.(string)
	if !ok {
		return "", ErrInvalidPost
	}

	return author, nil
}

// UserRelation create a new relation (edge) between two nodes
func UserRelation(id string, to string, relationType string) (bool, error) {
	content, identifier := relationTarget(relationType)

	res, err := MakeRequest("MATCH (a:User {name: $id})-[:"+relationType+"]->(b:"+content+" {"+identifier+": $to}) RETURN a;",
		map[string]any{"id": id, "to": to})
	if err != nil {
		return false, err
	} else if res != nil {
		return false, ErrAlreadyRelated
	}

	res, err = MakeRequest("MATCH (a:User {name: $id}), (b:"+content+" {"+identifier+": $to}) CREATE (a)-[r:"+relationType+"]->(b) RETURN type(r);",
		map[string]any{"id": id, "to": to})
	if err != nil {
		return false, err
	} else if res == nil {
		return false, errors.New("invalid " + content)
	}

	return true, nil
}

// UserUnRelation delete a relation (edge) between two nodes
func UserUnRelation(id string, to string, relationType string) (bool, error) {
	content, identifier := relationTarget(relationType)

	_, err := MakeRequest("MATCH (a:User {name: $id})-[r:"+relationType+"]->(b:"+content+" {"+identifier+": $to}) DELETE r;",
		map[string]any{"id": id, "to": to})
	if err != nil {
		return false, err
	}

	return true, nil
}

// IsUserSubscrirerTo check if a user (id) is subscrired to another one (user)
func IsUserSubscrirerTo(id string, user string) (bool, error) {
	res, err := MakeRequest("MATCH (a:User {name: $id})-[:Subscriber]->(b:User {name: $to}) RETURN a;",
		map[string]any{"id": id, "to": user})
	if err != nil {
		return false, err
	}

	return res != nil, nil
}

// IsBlocked check if a user (id) has been blocked by another one (user)
func IsBlocked(id string, user string) (bool, error) {
	res, err := MakeRequest("MATCH (a:User {name: $to})-[:Block]->(b:User {name: $id}) RETURN a;",
		map[string]any{"id": id, "to": user})
	if err != nil {
		return false, err
	}

	return res != nil, nil
}

// CreateReport stores a report made by a user
func CreateReport(report model.Report) error {
	res, err := MakeRequest("MATCH (u:User {name: $reporter}) CREATE (u)-[:Reported]->(:Report {id: $id, target: $target, type: $type, reason: $reason, description: $description, timestamp: $timestamp}) RETURN u.name;",
		map[string]any{
			"reporter":    report.Reporter,
			"id":          report.Id,
			"target":      report.TargetId,
			"type":        string(report.Type),
			"reason":      string(report.Reason),
			"description": report.Description,
			"timestamp":   report.CreatedAt.Unix(),
		})
	if err != nil {
		return err
	} else if res == nil {
		return ErrInvalidUser
	}

	return nil
}
