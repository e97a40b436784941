package main

import (
	"io"
	"os"

	"github.com/Gravitalia/gallery/client"
	"github.com/Gravitalia/gallery/helpers"
	"github.com/Gravitalia/gallery/tui"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg := helpers.LoadClientConfig()

	// the terminal belongs to the UI, logs go to a file
	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			helpers.Logger.Fatal().Err(err).Str("file", cfg.LogFile).Msg("cannot open log file")
		}
		defer f.Close()
		out = f
	}
	log := helpers.SetLogger(out, "gravitalia-gallery-tui")

	opts := []client.Option{
		client.WithMediaBase(cfg.MediaBaseURL),
		client.WithLogger(log),
	}
	traced, _, reporter := helpers.InitTracer(cfg.ZipkinAddress, "gravitaliaGalleryTUI", "")
	defer reporter.Close()
	if traced != nil {
		opts = append(opts, client.WithHTTPClient(traced))
	}

	api, err := client.New(cfg.APIURL, cfg.Token, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid GALLERY_API")
	}

	if _, err = tea.NewProgram(tui.New(api, cfg.User, log), tea.WithAltScreen()).Run(); err != nil {
		log.Error().Err(err).Msg("gallery exited")
		os.Exit(1)
	}
}
