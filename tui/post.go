package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gravitalia/gallery/client"
	"github.com/Gravitalia/gallery/gallery"
	"github.com/Gravitalia/gallery/model"
	tea "github.com/charmbracelet/bubbletea"
)

type postLoadedMsg struct {
	screen *PostScreen
	post   client.Post
	err    error
}

// PostScreen shows a photo opened from the grid, then its caption
// and comments once fetched.
type PostScreen struct {
	api   API
	route RoutePost
	item  gallery.Item

	post *client.Post
	err  error
}

func NewPostScreen(api API, r RoutePost) *PostScreen {
	return &PostScreen{api: api, route: r, item: r.Item}
}

func (s *PostScreen) Title() string {
	return "Post " + s.item.ID
}

func (s *PostScreen) Init() tea.Cmd {
	api, id := s.api, s.item.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestLimit)
		defer cancel()

		post, err := api.Post(ctx, id)
		return postLoadedMsg{screen: s, post: post, err: err}
	}
}

func (s *PostScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case postLoadedMsg:
		if msg.screen != s {
			return s, nil
		}
		if msg.err != nil {
			s.err = msg.err
			return s, nil
		}
		s.post = &msg.post
		s.item = msg.post.Item

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "backspace":
			return s, back
		case "r":
			if s.route.Owner {
				return s, nil
			}
			return s, navigate(RouteReport{TargetID: s.item.ID, Type: model.ReportPost})
		}
	}

	return s, nil
}

func (s *PostScreen) View(width, height int) string {
	liked := "no"
	if s.item.LikedByViewer {
		liked = likedStyle.Render("yes")
	}

	lines := []string{
		labelStyle.Render("Image") + "  " + s.item.MediaURL,
		labelStyle.Render("Likes") + "  " + fmt.Sprint(s.item.LikeCount),
		labelStyle.Render("Comments") + "  " + fmt.Sprint(s.item.CommentCount),
		labelStyle.Render("Liked") + "  " + liked,
		mutedStyle.Render(fmt.Sprintf("#%d in the gallery", s.route.Position()+1)),
		"",
	}

	switch {
	case s.err != nil:
		lines = append(lines, errorStyle.Render("Couldn't load this post: "+s.err.Error()))
	case s.post == nil:
		lines = append(lines, mutedStyle.Render("Loading…"))
	default:
		lines = append(lines, labelStyle.Render("@"+s.post.Author))
		if s.post.Description != "" {
			lines = append(lines, s.post.Description)
		}
		for _, c := range s.post.Comments {
			lines = append(lines, mutedStyle.Render(c.User+":")+" "+c.Text)
		}
	}

	help := "r report  esc back"
	if s.route.Owner {
		help = "esc back"
	}
	lines = append(lines, "", helpStyle.Render(help))
	return strings.Join(lines, "\n")
}
