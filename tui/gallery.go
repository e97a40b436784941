package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Gravitalia/gallery/client"
	"github.com/Gravitalia/gallery/gallery"
	"github.com/Gravitalia/gallery/model"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

const (
	cellGap      = 1
	requestLimit = 15 * time.Second
)

// galleryLoadedMsg carries the answer of a gallery fetch.
type galleryLoadedMsg struct {
	screen  *GalleryScreen
	gallery client.Gallery
	err     error
}

// likeResultMsg is sent once a like or unlike request completed.
type likeResultMsg struct {
	ID  string
	Err error
}

// gridEventMsg wraps what the grid emitted from its callbacks.
type gridEventMsg struct {
	screen *GalleryScreen
	inner  tea.Msg
}

// GalleryScreen shows the photo grid of a user.
type GalleryScreen struct {
	api    API
	user   string
	grid   *gallery.Grid
	events chan tea.Msg
	log    zerolog.Logger

	profile model.Profile
	loading bool
	loaded  bool
	err     error

	cursor int
	offset int
	route  Route
}

// NewGalleryScreen returns the grid of user, loaded on Init.
func NewGalleryScreen(api API, user string, log *zerolog.Logger) *GalleryScreen {
	s := &GalleryScreen{
		api:    api,
		user:   user,
		events: make(chan tea.Msg, 32),
		log:    zerolog.Nop(),
	}
	if log != nil {
		s.log = *log
	}

	s.grid = gallery.New(gallery.WithTimeout(api.Likes(), requestLimit), gallery.Options{
		OnAddItem: func() { s.route = RouteUpload{} },
		OnItemSelect: func(item gallery.Item, index int) {
			s.route = RoutePost{Item: item, Index: index, Owner: s.grid.Owner()}
		},
		OnNotice: func(n gallery.Notice) { s.emit(NoticeMsg{Notice: n}) },
		OnLikeDone: func(id string, err error) {
			s.emit(likeResultMsg{ID: id, Err: err})
		},
		Logger: log,
	})

	return s
}

// Grid returns the grid rendered by the screen.
func (s *GalleryScreen) Grid() *gallery.Grid {
	return s.grid
}

// Cursor returns the index of the focused cell.
func (s *GalleryScreen) Cursor() int {
	return s.cursor
}

func (s *GalleryScreen) Title() string {
	return "@" + s.user
}

func (s *GalleryScreen) Init() tea.Cmd {
	return tea.Batch(s.fetch(), s.listen())
}

// emit never blocks: grid callbacks may run on request goroutines.
func (s *GalleryScreen) emit(msg tea.Msg) {
	select {
	case s.events <- msg:
	default:
		s.log.Warn().Msg("gallery event dropped")
	}
}

func (s *GalleryScreen) listen() tea.Cmd {
	return func() tea.Msg {
		return gridEventMsg{screen: s, inner: <-s.events}
	}
}

func (s *GalleryScreen) fetch() tea.Cmd {
	s.loading = true
	api, user := s.api, s.user

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestLimit)
		defer cancel()

		g, err := api.Gallery(ctx, user)
		return galleryLoadedMsg{screen: s, gallery: g, err: err}
	}
}

func (s *GalleryScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case galleryLoadedMsg:
		if msg.screen != s {
			return s, nil
		}
		s.loading = false
		if msg.err != nil {
			s.err = msg.err
			s.log.Error().Err(msg.err).Str("user", s.user).Msg("cannot load gallery")
			return s, notice(gallery.NoticeError, "Couldn't load the gallery: "+msg.err.Error())
		}

		s.err = nil
		s.loaded = true
		s.profile = msg.gallery.Profile
		s.grid.SetOwner(msg.gallery.Owner)
		s.grid.SetItems(msg.gallery.Items)
		s.clampCursor()
		return s, nil

	case gridEventMsg:
		if msg.screen != s {
			return s, nil
		}
		cmds := []tea.Cmd{s.listen()}
		switch inner := msg.inner.(type) {
		case NoticeMsg:
			cmds = append(cmds, func() tea.Msg { return inner })
		case likeResultMsg:
			// counters and flags come from the server
			if inner.Err == nil {
				cmds = append(cmds, s.fetch())
			}
		}
		return s, tea.Batch(cmds...)

	case tea.KeyMsg:
		return s, s.key(msg)
	}

	return s, nil
}

func (s *GalleryScreen) key(msg tea.KeyMsg) tea.Cmd {
	cells := len(s.grid.Display())

	switch msg.String() {
	case "q", "esc":
		return back
	case "left", "h":
		s.move(-1, cells)
	case "right", "l":
		s.move(1, cells)
	case "up", "k":
		s.move(-gallery.Columns, cells)
	case "down", "j":
		s.move(gallery.Columns, cells)
	case "ctrl+r":
		return s.fetch()
	case "enter":
		s.route = nil
		if err := s.grid.Select(s.cursor); err != nil {
			return nil
		}
		if s.route != nil {
			r := s.route
			s.route = nil
			return navigate(r)
		}
	case " ", "space":
		err := s.grid.ToggleLike(context.Background(), s.cursor)
		if errors.Is(err, gallery.ErrPending) {
			return notice(gallery.NoticeInfo, "Still sending your last change")
		}
	case "r":
		if s.grid.Owner() {
			return nil
		}
		if item, ok := s.focused(); ok {
			return navigate(RouteReport{TargetID: item.ID, Type: model.ReportPost})
		}
		if s.loaded {
			return navigate(RouteReport{TargetID: s.user, Type: model.ReportUser})
		}
	}

	return nil
}

func (s *GalleryScreen) move(delta, cells int) {
	next := s.cursor + delta
	if next < 0 || next >= cells {
		return
	}
	s.cursor = next
}

func (s *GalleryScreen) clampCursor() {
	cells := len(s.grid.Display())
	if s.cursor >= cells {
		s.cursor = max(0, cells-1)
	}
}

func (s *GalleryScreen) focused() (gallery.Item, bool) {
	display := s.grid.Display()
	if s.cursor < 0 || s.cursor >= len(display) {
		return gallery.Item{}, false
	}
	c, ok := display[s.cursor].(gallery.ItemCell)
	return c.Item, ok
}

func (s *GalleryScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d followers · %d following", s.profile.Followers, s.profile.Following)))
	b.WriteString("\n\n")

	switch {
	case !s.loaded && s.loading:
		b.WriteString(mutedStyle.Render("Loading…"))
	case !s.loaded && s.err != nil:
		b.WriteString(errorStyle.Render(s.err.Error()))
	case s.grid.EmptyState():
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, mutedStyle.Render(gallery.EmptyNotice)))
	default:
		b.WriteString(s.renderGrid(width, height-4))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(s.help()))
	return b.String()
}

func (s *GalleryScreen) help() string {
	keys := []string{"←↑↓→/hjkl move", "enter open"}
	if s.grid.CanLike() {
		keys = append(keys, "space like", "r report")
	}
	keys = append(keys, "ctrl+r refresh", "q quit")
	return strings.Join(keys, "  ")
}

// cellHeight halves the square side, terminal glyphs being about
// twice as high as wide.
func cellHeight(size gallery.Size) int {
	return max(4, size.Height/2)
}

func (s *GalleryScreen) renderGrid(width, height int) string {
	display := s.grid.Display()
	size := gallery.Layout(width, cellGap)
	ch := cellHeight(size)

	visible := max(1, height/ch)
	row, _ := gallery.Position(s.cursor)
	if row < s.offset {
		s.offset = row
	} else if row >= s.offset+visible {
		s.offset = row - visible + 1
	}

	rows := make([]string, 0, visible)
	for r := s.offset; r < gallery.Rows(len(display)) && r < s.offset+visible; r++ {
		cols := make([]string, 0, gallery.Columns*2)
		for c := 0; c < gallery.Columns; c++ {
			index := r*gallery.Columns + c
			if index >= len(display) {
				break
			}
			if c > 0 {
				cols = append(cols, strings.Repeat(" ", cellGap))
			}
			cols = append(cols, s.renderCell(display[index], index, size.Width, ch))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (s *GalleryScreen) renderCell(cell gallery.Cell, index, width, height int) string {
	style := cellStyle
	if index == s.cursor {
		style = focusedCellStyle
	}
	style = style.Width(max(1, width-2)).Height(max(1, height-2))

	switch c := cell.(type) {
	case gallery.PlaceholderCell:
		return style.Render("+\nAdd photo")
	case gallery.ItemCell:
		return style.Render(s.itemLabel(c.Item))
	}
	return style.Render("")
}

func (s *GalleryScreen) itemLabel(item gallery.Item) string {
	comments := fmt.Sprintf("%d comments", item.CommentCount)
	if !s.grid.CanLike() {
		return fmt.Sprintf("%d likes\n%s", item.LikeCount, comments)
	}

	var like string
	switch {
	case !s.grid.LikeEnabled(item.ID):
		like = pendingStyle.Render(fmt.Sprintf("♥ %d …", item.LikeCount))
	case item.LikedByViewer:
		like = likedStyle.Render(fmt.Sprintf("♥ %d", item.LikeCount))
	default:
		like = fmt.Sprintf("♡ %d", item.LikeCount)
	}
	return like + "\n" + comments
}
