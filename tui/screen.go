package tui

import (
	"context"

	"github.com/Gravitalia/gallery/client"
	"github.com/Gravitalia/gallery/gallery"
	"github.com/Gravitalia/gallery/model"
	tea "github.com/charmbracelet/bubbletea"
)

// Screen is one entry of the navigation stack. Key messages only
// reach the screen on top, every other message reaches all screens.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	Title() string
}

// API is the part of the gallery client used by the screens.
type API interface {
	Gallery(ctx context.Context, user string) (client.Gallery, error)
	Post(ctx context.Context, id string) (client.Post, error)
	SubmitReport(ctx context.Context, body model.ReportBody) (model.Report, error)
	Likes() gallery.LikeService
}
