package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/Gravitalia/gallery/gallery"
	"github.com/Gravitalia/gallery/model"
	tea "github.com/charmbracelet/bubbletea"
)

// ReportSentNotice is shown once a report was accepted.
const ReportSentNotice = "Thanks, your report was sent"

const descriptionLimit = 500

type reportSentMsg struct {
	screen *ReportScreen
	report model.Report
	err    error
}

// ReportScreen is the report form of a post, user or comment.
type ReportScreen struct {
	api    API
	target string
	kind   model.ReportType

	fields  []*Field
	focus   int
	sending bool
	err     error
}

// NewReportScreen returns the form reporting target.
func NewReportScreen(api API, target string, kind model.ReportType) *ReportScreen {
	reason := NewField("Reason", reasonHint(), 32, func(v string) error {
		if v == "" {
			return errors.New("pick a reason")
		}
		_, err := model.ParseReason(v)
		return err
	})
	description := NewField("Details (optional)", "What is wrong?", descriptionLimit, nil)

	return &ReportScreen{
		api:    api,
		target: target,
		kind:   kind,
		fields: []*Field{reason, description},
	}
}

func reasonHint() string {
	names := make([]string, 0, len(model.Reasons))
	for _, r := range model.Reasons {
		names = append(names, strings.ToLower(strings.ReplaceAll(string(r), "_", " ")))
	}
	return strings.Join(names, ", ")
}

func (s *ReportScreen) Title() string {
	return "Report " + strings.ToLower(string(s.kind))
}

func (s *ReportScreen) Init() tea.Cmd {
	return s.fields[s.focus].Focus()
}

// Body returns the report built from the form.
func (s *ReportScreen) Body() model.ReportBody {
	reason, _ := model.ParseReason(s.fields[0].Value())
	return model.ReportBody{
		TargetId:    s.target,
		Type:        s.kind,
		Reason:      reason,
		Description: s.fields[1].Value(),
	}
}

func (s *ReportScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reportSentMsg:
		if msg.screen != s {
			return s, nil
		}
		s.sending = false
		if msg.err != nil {
			s.err = msg.err
			return s, nil
		}
		return s, tea.Sequence(notice(gallery.NoticeInfo, ReportSentNotice), back)

	case tea.KeyMsg:
		if s.sending {
			return s, nil
		}
		switch msg.String() {
		case "esc":
			return s, back
		case "tab", "shift+tab", "up", "down":
			dir := 1
			if k := msg.String(); k == "shift+tab" || k == "up" {
				dir = -1
			}
			s.fields[s.focus].Blur()
			s.focus = (s.focus + dir + len(s.fields)) % len(s.fields)
			return s, s.fields[s.focus].Focus()
		case "enter":
			return s, s.submit()
		}
		return s, s.fields[s.focus].Update(msg)
	}

	return s, s.fields[s.focus].Update(msg)
}

func (s *ReportScreen) submit() tea.Cmd {
	s.err = nil

	valid := true
	for _, f := range s.fields {
		if !f.Validate() {
			valid = false
		}
	}
	if !valid {
		return nil
	}

	body := s.Body()
	if err := body.Validate(); err != nil {
		s.err = err
		return nil
	}

	s.sending = true
	api := s.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestLimit)
		defer cancel()

		report, err := api.SubmitReport(ctx, body)
		return reportSentMsg{screen: s, report: report, err: err}
	}
}

func (s *ReportScreen) View(width, height int) string {
	lines := []string{mutedStyle.Render("Reporting " + s.target), ""}
	for _, f := range s.fields {
		lines = append(lines, f.View(width), "")
	}

	switch {
	case s.sending:
		lines = append(lines, mutedStyle.Render("Sending…"))
	case s.err != nil:
		lines = append(lines, errorStyle.Render("Couldn't send your report: "+s.err.Error()))
	}

	lines = append(lines, helpStyle.Render("enter send  tab next field  esc cancel"))
	return strings.Join(lines, "\n")
}
