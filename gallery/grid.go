package gallery

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Notices shown to the viewer
const (
	EmptyNotice       = "No photos yet"
	OwnerLikeNotice   = "You can't like your own photos"
	LikeErrorNotice   = "Couldn't like this photo"
	UnlikeErrorNotice = "Couldn't remove your like"
)

var (
	ErrOutOfRange  = errors.New("cell index out of range")
	ErrOwnerLike   = errors.New("owner cannot like own item")
	ErrPending     = errors.New("like already pending for this item")
	ErrPlaceholder = errors.New("placeholder cannot be liked")
)

// LikeService sends like and unlike mutations. Both are fire and forget:
// done is called exactly once, from any goroutine, when the request ends.
type LikeService interface {
	Like(ctx context.Context, id string, done func(error))
	Unlike(ctx context.Context, id string, done func(error))
}

// WithTimeout bounds every request of likes to d, so that a request
// that never answers still calls done and frees its like control.
func WithTimeout(likes LikeService, d time.Duration) LikeService {
	return timeoutLikes{next: likes, limit: d}
}

type timeoutLikes struct {
	next  LikeService
	limit time.Duration
}

func (t timeoutLikes) Like(ctx context.Context, id string, done func(error)) {
	ctx, cancel := context.WithTimeout(ctx, t.limit)
	t.next.Like(ctx, id, func(err error) {
		cancel()
		done(err)
	})
}

func (t timeoutLikes) Unlike(ctx context.Context, id string, done func(error)) {
	ctx, cancel := context.WithTimeout(ctx, t.limit)
	t.next.Unlike(ctx, id, func(err error) {
		cancel()
		done(err)
	})
}

// NoticeKind tells how a notice should be presented.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeError
)

// Notice is a message for the viewer.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Options wires a Grid to its parent screen. Every callback is optional.
type Options struct {
	OnAddItem    func()
	OnItemSelect func(item Item, index int)
	OnNotice     func(Notice)
	// OnLikeDone is called once a like or unlike request completed, so
	// that the parent can refetch the authoritative counters.
	OnLikeDone func(id string, err error)
	Logger     *zerolog.Logger
}

// Grid is the profile photo grid.
type Grid struct {
	likes LikeService
	opts  Options
	log   zerolog.Logger

	items   []Item
	owner   bool
	display []Cell
	stale   bool

	mu      sync.Mutex
	pending map[string]struct{}
}

// New returns an empty grid sending likes through likes.
func New(likes LikeService, opts Options) *Grid {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "gallery").Logger()
	}

	return &Grid{
		likes:   likes,
		opts:    opts,
		log:     log,
		stale:   true,
		pending: make(map[string]struct{}),
	}
}

// SetItems replaces the photos of the grid. The grid keeps its own
// copy, so passing equal items again does not recompute the displayed
// cells while items edited in place do.
func (g *Grid) SetItems(items []Item) {
	if g.items != nil && slices.Equal(g.items, items) {
		return
	}
	g.items = slices.Clone(items)
	if g.items == nil {
		g.items = []Item{}
	}
	g.stale = true
}

// SetOwner tells whether the viewer owns the gallery.
func (g *Grid) SetOwner(owner bool) {
	if g.owner == owner {
		return
	}
	g.owner = owner
	g.stale = true
}

// Owner reports whether the viewer owns the gallery.
func (g *Grid) Owner() bool {
	return g.owner
}

// Display returns the cells to render, in order.
func (g *Grid) Display() []Cell {
	if g.stale {
		g.display = Derive(g.items, g.owner)
		g.stale = false
	}
	return g.display
}

// EmptyState reports whether the empty notice must be shown
// instead of the grid.
func (g *Grid) EmptyState() bool {
	return !g.owner && len(g.Display()) == 0
}

// CanLike reports whether like controls are rendered.
func (g *Grid) CanLike() bool {
	return !g.owner
}

// LikeEnabled reports whether the like control of the item is
// active, i.e. no request is pending for it.
func (g *Grid) LikeEnabled(id string) bool {
	if g.owner {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.pending[id]
	return !busy
}

// Select activates the cell at index of the displayed cells.
func (g *Grid) Select(index int) error {
	cell, err := g.cellAt(index)
	if err != nil {
		return err
	}

	switch c := cell.(type) {
	case PlaceholderCell:
		if g.owner && g.opts.OnAddItem != nil {
			g.opts.OnAddItem()
		}
	case ItemCell:
		if g.opts.OnItemSelect != nil {
			g.opts.OnItemSelect(c.Item, index)
		}
	}

	return nil
}

// ToggleLike activates the like control of the cell at index. It
// issues at most one request, or none if the viewer owns the gallery
// or a request for the same item is still pending.
func (g *Grid) ToggleLike(ctx context.Context, index int) error {
	if g.owner {
		g.notify(NoticeError, OwnerLikeNotice)
		return ErrOwnerLike
	}

	cell, err := g.cellAt(index)
	if err != nil {
		return err
	}

	c, ok := cell.(ItemCell)
	if !ok {
		return ErrPlaceholder
	}
	item := c.Item

	g.mu.Lock()
	if _, busy := g.pending[item.ID]; busy {
		g.mu.Unlock()
		return ErrPending
	}
	g.pending[item.ID] = struct{}{}
	g.mu.Unlock()

	unlike := item.LikedByViewer
	done := func(err error) {
		g.mu.Lock()
		delete(g.pending, item.ID)
		g.mu.Unlock()

		if err != nil {
			g.log.Warn().Err(err).Str("item", item.ID).Bool("unlike", unlike).Msg("like mutation failed")
			g.notify(NoticeError, failureText(unlike, err))
		}
		if g.opts.OnLikeDone != nil {
			g.opts.OnLikeDone(item.ID, err)
		}
	}

	g.log.Debug().Str("item", item.ID).Bool("unlike", unlike).Msg("sending like mutation")
	if unlike {
		g.likes.Unlike(ctx, item.ID, done)
	} else {
		g.likes.Like(ctx, item.ID, done)
	}

	return nil
}

func (g *Grid) cellAt(index int) (Cell, error) {
	display := g.Display()
	if index < 0 || index >= len(display) {
		return nil, ErrOutOfRange
	}
	return display[index], nil
}

func (g *Grid) notify(kind NoticeKind, text string) {
	if g.opts.OnNotice != nil {
		g.opts.OnNotice(Notice{Kind: kind, Text: text})
	}
}

func failureText(unlike bool, err error) string {
	text := LikeErrorNotice
	if unlike {
		text = UnlikeErrorNotice
	}

	if detail := err.Error(); detail != "" {
		text += ": " + detail
	}
	return text
}
