package main

import (
	"net/http"
	"time"

	"github.com/Gravitalia/gallery/database"
	"github.com/Gravitalia/gallery/helpers"
	"github.com/Gravitalia/gallery/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := helpers.LoadConfig()
	log := helpers.InitLogger(cfg.Env, "gravitalia-gallery")

	// Init every connection
	if err := database.Init(cfg.GraphURL, cfg.GraphUsername, cfg.GraphPassword, cfg.MemURL); err != nil {
		log.Fatal().Err(err).Msg("cannot create neo4j driver")
	}
	defer database.Close()

	helpers.InitNATS(cfg.NatsURL)
	_, tracing, reporter := helpers.InitTracer(cfg.ZipkinAddress, "gravitaliaGallery", "localhost:"+cfg.Port)
	defer reporter.Close()

	// Create routes
	mux := http.NewServeMux()
	mux.HandleFunc("/", router.Index)
	mux.HandleFunc("/users/", router.UserHandler)
	mux.HandleFunc("/posts/", router.PostHandler)
	mux.HandleFunc("/relation/", router.RelationHandler)
	mux.HandleFunc("/reports", router.Report)
	mux.Handle("/metrics", promhttp.HandlerFor(helpers.GetRegistery(), promhttp.HandlerOpts{}))

	log.Info().Str("port", cfg.Port).Msg("Server is starting")

	// Create web server
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           helpers.Metrics(tracing(mux)),
		ReadHeaderTimeout: 3 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
