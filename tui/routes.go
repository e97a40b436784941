package tui

import (
	"github.com/Gravitalia/gallery/gallery"
	"github.com/Gravitalia/gallery/model"
	tea "github.com/charmbracelet/bubbletea"
)

// Route is a screen the app can navigate to.
type Route interface {
	route()
}

// RouteGallery shows the photo grid of User.
type RouteGallery struct {
	User string
}

// RoutePost shows a photo selected in the grid. Index is its position
// in the displayed cells, so it is one past the photo position when
// Owner is set and the add photo cell comes first.
type RoutePost struct {
	Item  gallery.Item
	Index int
	Owner bool
}

// Position returns the zero based position of the photo in the gallery.
func (r RoutePost) Position() int {
	if r.Owner {
		return r.Index - 1
	}
	return r.Index
}

// RouteReport opens the report form for a target.
type RouteReport struct {
	TargetID string
	Type     model.ReportType
}

// RouteUpload is reached from the "add photo" cell.
type RouteUpload struct{}

func (RouteGallery) route() {}
func (RoutePost) route()    {}
func (RouteReport) route()  {}
func (RouteUpload) route()  {}

// NavigateMsg pushes a screen.
type NavigateMsg struct {
	Route Route
}

// BackMsg pops the current screen.
type BackMsg struct{}

// NoticeMsg shows a notice in the status bar.
type NoticeMsg struct {
	Notice gallery.Notice
}

func navigate(r Route) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Route: r} }
}

func back() tea.Msg { return BackMsg{} }

func notice(kind gallery.NoticeKind, text string) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg{Notice: gallery.Notice{Kind: kind, Text: text}}
	}
}
