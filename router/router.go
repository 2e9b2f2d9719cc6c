// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/danielhkuo/chowsr/finalize"
	"github.com/danielhkuo/chowsr/handlers"
	"github.com/danielhkuo/chowsr/middleware"
	"github.com/danielhkuo/chowsr/ratelimit"
	"github.com/danielhkuo/chowsr/store"
)

// Deps are the collaborators the route table wires into handlers
type Deps struct {
	Store     *store.Store
	Finalizer *finalize.Finalizer
	Finder    handlers.RestaurantFinder
	Notifier  handlers.InviteSender
	Limiter   *ratelimit.Limiter
	StaticDir string
	Log       *zap.Logger

	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Only set it when a reverse proxy overwrites those headers.
	TrustProxy bool
}

func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	// Initialize handlers
	groupHandler := handlers.NewGroupHandler(d.Store, d.Finalizer, log)
	inviteHandler := handlers.NewInviteHandler(d.Store, d.Notifier, log)
	memberHandler := handlers.NewMemberHandler(d.Store, log)
	restaurantHandler := handlers.NewRestaurantHandler(d.Store, d.Finder, log)
	voteHandler := handlers.NewVoteHandler(d.Store, d.Finalizer, log)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if d.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/groups", groupHandler.CreateGroup)
		r.Route("/groups/{code}", func(r chi.Router) {
			r.Get("/", groupHandler.GetGroup)
			r.Get("/state", groupHandler.GetState)
			r.Post("/close", groupHandler.Close)

			r.Post("/invites", inviteHandler.AddInvites)
			r.Delete("/invites/{id}", inviteHandler.DeleteInvite)

			r.Post("/join", memberHandler.Join)
			r.Get("/members", memberHandler.ListMembers)

			r.Get("/restaurants", restaurantHandler.List)
			r.With(middleware.RateLimit(d.Limiter)).Post("/restaurants", restaurantHandler.Refresh)

			r.Post("/votes", voteHandler.Vote)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Unknown API route")
		})
	})

	r.Handle("/*", staticHandler(d.StaticDir))

	return r
}

// staticHandler serves the built client. Unknown paths fall back to
// index.html so client-side routes like /g/ABC234 load the app.
func staticHandler(dir string) http.Handler {
	index := filepath.Join(dir, "index.html")
	if dir == "" {
		return banner()
	}
	if _, err := os.Stat(index); err != nil {
		return banner()
	}

	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clean := path.Clean("/" + r.URL.Path)
		if clean != "/" {
			info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(clean)))
			if err == nil && !info.IsDir() {
				files.ServeHTTP(w, r)
				return
			}
		}
		http.ServeFile(w, r, index)
	})
}

func banner() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("chowsr API v1"))
	})
}
