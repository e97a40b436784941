// Package client talks to the Gravitalia gallery API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Gravitalia/gallery/gallery"
	"github.com/Gravitalia/gallery/model"
	"github.com/rs/zerolog"
)

// DefaultMediaBase is the CDN serving post images.
const DefaultMediaBase = "https://cdn.gravitalia.com/"

// Doer sends HTTP requests. Both *http.Client and the zipkin
// traced client implement it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is a non 2xx answer of the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

// Client is a gallery API client authenticated as one user.
type Client struct {
	base      *url.URL
	token     string
	mediaBase string
	http      Doer
	log       zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sends requests through d.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.http = d }
}

// WithMediaBase sets the URL prefix of post images.
func WithMediaBase(base string) Option {
	return func(c *Client) { c.mediaBase = base }
}

// WithLogger logs every request on l.
func WithLogger(l *zerolog.Logger) Option {
	return func(c *Client) { c.log = l.With().Str("component", "client").Logger() }
}

// New returns a client of the API at baseURL. token may be empty
// for anonymous browsing.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("parse api url: unsupported scheme %q", base.Scheme)
	}

	c := &Client{
		base:      base,
		token:     token,
		mediaBase: DefaultMediaBase,
		http:      &http.Client{Timeout: 10 * time.Second},
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) do(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", res.StatusCode).
		Dur("took", time.Since(start)).
		Msg("request done")

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{Status: res.StatusCode}
		var envelope model.RequestError
		if json.Unmarshal(data, &envelope) == nil {
			apiErr.Message = envelope.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode body: %w", method, path, err)
	}

	return nil
}

// Like likes a post.
func (c *Client) Like(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/relation/like", model.SetBody{Id: id}, nil)
}

// Unlike removes the like of a post.
func (c *Client) Unlike(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/relation/like", model.SetBody{Id: id}, nil)
}

// SubmitReport validates and sends a report, returning the
// created record.
func (c *Client) SubmitReport(ctx context.Context, body model.ReportBody) (model.Report, error) {
	var report model.Report
	if err := body.Validate(); err != nil {
		return report, err
	}

	err := c.do(ctx, http.MethodPost, "/reports", body, &report)
	return report, err
}

// Gallery is a profile as displayed by the grid.
type Gallery struct {
	Profile model.Profile
	Owner   bool
	Items   []gallery.Item
}

// Gallery fetches the profile and posts of user. "@me" is the
// authenticated user.
func (c *Client) Gallery(ctx context.Context, user string) (Gallery, error) {
	var res model.Gallery
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(user), nil, &res); err != nil {
		return Gallery{}, err
	}

	items := make([]gallery.Item, 0, len(res.Posts))
	for _, post := range res.Posts {
		items = append(items, c.item(post))
	}

	return Gallery{
		Profile: res.Profile,
		Owner:   res.Owner,
		Items:   items,
	}, nil
}

// Comment is a comment shown under a post.
type Comment struct {
	ID   string
	User string
	Text string
}

// Post is a post with its caption and latest comments.
type Post struct {
	gallery.Item
	Author      string
	Description string
	Text        string
	Comments    []Comment
}

// Post fetches a post.
func (c *Client) Post(ctx context.Context, id string) (Post, error) {
	var res model.Post
	if err := c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(id), nil, &res); err != nil {
		return Post{}, err
	}

	post := Post{
		Item:        c.item(res),
		Author:      res.Author,
		Description: res.Description,
		Text:        res.Text,
	}
	for _, raw := range res.Comments {
		fields, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		comment := Comment{}
		comment.ID, _ = fields["id"].(string)
		comment.User, _ = fields["user"].(string)
		comment.Text, _ = fields["text"].(string)
		post.Comments = append(post.Comments, comment)
	}

	return post, nil
}

func (c *Client) item(post model.Post) gallery.Item {
	var media string
	if hash := post.FirstHash(); hash != "" {
		media = strings.TrimSuffix(c.mediaBase, "/") + "/" + hash
	}

	return gallery.Item{
		ID:            post.Id,
		MediaURL:      gallery.MediaURL(media),
		LikeCount:     int(post.Like),
		CommentCount:  int(post.CommentCount),
		LikedByViewer: post.Liked,
	}
}

// Likes returns the like service of the grid. Each request runs on
// its own goroutine.
func (c *Client) Likes() gallery.LikeService {
	return likes{c: c}
}

type likes struct {
	c *Client
}

func (l likes) Like(ctx context.Context, id string, done func(error)) {
	go func() { done(l.c.Like(ctx, id)) }()
}

func (l likes) Unlike(ctx context.Context, id string, done func(error)) {
	go func() { done(l.c.Unlike(ctx, id)) }()
}
