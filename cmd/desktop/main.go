// Package main runs the local Arcana daemon: the single-user backend the
// snippet UI talks to over localhost REST and WebSocket.
package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/arcanahq/arcana/cmd/desktop/handlers"
	"github.com/arcanahq/arcana/internal/config"
	"github.com/arcanahq/arcana/internal/db"
	"github.com/arcanahq/arcana/internal/export"
	"github.com/arcanahq/arcana/internal/logging"
	"github.com/arcanahq/arcana/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Error("invalid configuration", err)
		os.Exit(1)
	}
	logging.Init(os.Stdout, cfg.LogLevel)

	// One attempt at startup; on failure the store runs memory-only for
	// the session.
	var persist store.Persistence
	database, err := db.Open(cfg.DataDir)
	if err != nil {
		logging.Error("could not open on-device storage", err)
	} else {
		defer database.Close()
		persist = db.NewAdapter(database)
	}

	platform := export.Platform{
		DownloadsDir: cfg.DownloadsDir,
	}

	st := store.New(persist, platform, cfg.Compact)
	hub := NewWSHub()
	st.SetListener(hub)
	st.Initialize()

	router := newRouter(st, hub, cfg)

	server := &http.Server{Addr: cfg.Addr, Handler: router}
	go func() {
		logging.Info("arcana daemon listening", map[string]interface{}{
			"addr": cfg.Addr,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("server stopped", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("shutting down")
	server.Close()
	st.Flush()
}

func newRouter(st *store.Store, hub *WSHub, cfg config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigin},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	cards := handlers.NewCardHandler(st)
	settings := handlers.NewSettingsHandler(st)
	backups := handlers.NewBackupHandler(st)
	search := handlers.NewSearchHandler(st)

	r.Get("/api/health", handlers.Health)
	r.Get("/ws", hub.HandleWS)

	r.Route("/api/cards", func(r chi.Router) {
		r.Get("/", cards.List)
		r.Post("/", cards.Create)
		r.Patch("/{id}", cards.Update)
		r.Delete("/{id}", cards.Delete)
		r.Get("/{id}/highlight", cards.Highlight)
	})

	r.Get("/api/tags", cards.Tags)
	r.Get("/api/search", search.Search)

	r.Get("/api/settings", settings.Get)
	r.Patch("/api/settings", settings.Update)
	r.Get("/api/settings/defaults", settings.Defaults)

	r.Route("/api/backup", func(r chi.Router) {
		r.Post("/export", backups.Export)
		r.Post("/share", backups.Share)
		r.Post("/clipboard", backups.Clipboard)
		r.Post("/import", backups.Import)
		r.Get("/", backups.Download)
	})

	return r
}
