// Package gallery holds the photo grid shown on a profile: which cells are
// displayed, what happens when one is selected and how likes are toggled.
// It has no rendering dependency; the tui package draws it.
package gallery

import "net/url"

// DefaultMediaURL is shown in place of a missing or malformed media URL.
const DefaultMediaURL = "https://cdn.gravitalia.com/static/placeholder.webp"

// Item is a single photo with its engagement counters, as seen
// by the current viewer.
type Item struct {
	ID            string
	MediaURL      string
	LikeCount     int
	CommentCount  int
	LikedByViewer bool
}

// Cell is one position of the displayed grid. It is either a
// PlaceholderCell or an ItemCell.
type Cell interface {
	cell()
}

// PlaceholderCell is the "add photo" affordance shown to the owner.
type PlaceholderCell struct{}

// ItemCell wraps a photo of the gallery.
type ItemCell struct {
	Item Item
}

func (PlaceholderCell) cell() {}
func (ItemCell) cell()        {}

// Derive returns the cells to display for items. Owners get the
// placeholder first; everybody else gets items unchanged.
func Derive(items []Item, owner bool) []Cell {
	size := len(items)
	if owner {
		size++
	}

	cells := make([]Cell, 0, size)
	if owner {
		cells = append(cells, PlaceholderCell{})
	}
	for _, item := range items {
		cells = append(cells, ItemCell{Item: item})
	}

	return cells
}

// MediaURL returns raw if it is an absolute http(s) URL,
// DefaultMediaURL otherwise.
func MediaURL(raw string) string {
	if raw == "" {
		return DefaultMediaURL
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return DefaultMediaURL
	}

	return raw
}
