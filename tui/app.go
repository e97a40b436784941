// Package tui is the terminal front end of the gallery: a photo grid,
// post details and the report form, driven by bubbletea.
package tui

import (
	"strings"

	"github.com/Gravitalia/gallery/gallery"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// UploadNotice is shown when the add photo cell is selected.
const UploadNotice = "Uploading photos is only available in the mobile app"

// App owns the navigation stack and the notice bar.
type App struct {
	api    API
	log    zerolog.Logger
	stack  []Screen
	notice gallery.Notice

	width  int
	height int
}

// New returns the app opened on the gallery of user.
func New(api API, user string, log *zerolog.Logger) *App {
	a := &App{
		api:    api,
		log:    zerolog.Nop(),
		width:  80,
		height: 24,
	}
	if log != nil {
		a.log = log.With().Str("component", "tui").Logger()
	}

	a.stack = []Screen{a.screenFor(RouteGallery{User: user})}
	return a
}

// Top returns the visible screen.
func (a *App) Top() Screen {
	return a.stack[len(a.stack)-1]
}

// Notice returns the notice shown in the status bar.
func (a *App) Notice() gallery.Notice {
	return a.notice
}

func (a *App) Init() tea.Cmd {
	return a.Top().Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		a.notice = gallery.Notice{}

		top, cmd := a.Top().Update(msg)
		a.stack[len(a.stack)-1] = top
		return a, cmd
	case NavigateMsg:
		return a, a.push(msg.Route)
	case BackMsg:
		if len(a.stack) == 1 {
			return a, tea.Quit
		}
		a.stack = a.stack[:len(a.stack)-1]
		return a, nil
	case NoticeMsg:
		a.notice = msg.Notice
		return a, nil
	}

	cmds := make([]tea.Cmd, 0, len(a.stack))
	for i, s := range a.stack {
		var cmd tea.Cmd
		a.stack[i], cmd = s.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a *App) push(r Route) tea.Cmd {
	if _, ok := r.(RouteUpload); ok {
		a.notice = gallery.Notice{Kind: gallery.NoticeInfo, Text: UploadNotice}
		return nil
	}

	s := a.screenFor(r)
	if s == nil {
		a.log.Warn().Str("route", routeName(r)).Msg("unknown route")
		return nil
	}

	a.log.Debug().Str("route", routeName(r)).Msg("navigate")
	a.stack = append(a.stack, s)
	return s.Init()
}

func (a *App) screenFor(r Route) Screen {
	switch r := r.(type) {
	case RouteGallery:
		return NewGalleryScreen(a.api, r.User, &a.log)
	case RoutePost:
		return NewPostScreen(a.api, r)
	case RouteReport:
		return NewReportScreen(a.api, r.TargetID, r.Type)
	}
	return nil
}

func (a *App) View() string {
	top := a.Top()

	var status string
	switch {
	case a.notice.Text == "":
	case a.notice.Kind == gallery.NoticeError:
		status = errorStyle.Render(a.notice.Text)
	default:
		status = infoStyle.Render(a.notice.Text)
	}

	header := titleStyle.Render(top.Title())
	body := top.View(a.width, max(1, a.height-lipgloss.Height(header)-2))

	return strings.Join([]string{header, body, status}, "\n")
}

func routeName(r Route) string {
	switch r.(type) {
	case RouteGallery:
		return "gallery"
	case RoutePost:
		return "post"
	case RouteReport:
		return "report"
	case RouteUpload:
		return "upload"
	}
	return "unknown"
}
