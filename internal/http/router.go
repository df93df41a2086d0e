package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	Auth     *AuthHandler
	Jobs     *JobHandler
	Users    *UserHandler
	Shopping *ShoppingHandler
	Calendar *CalendarHandler
	Settings *SettingsHandler

	// Session wraps every route below /login with principal resolution.
	Session func(http.Handler) http.Handler

	// Middleware runs on every request, including login.
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	for _, mw := range cfg.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	if cfg.Auth != nil {
		r.Post("/login", cfg.Auth.Login)
	}

	r.Group(func(r chi.Router) {
		if cfg.Session != nil {
			r.Use(cfg.Session)
		}

		if cfg.Auth != nil {
			r.Post("/logout", cfg.Auth.Logout)
			r.Post("/sessions/refresh", cfg.Auth.Refresh)
		}

		if cfg.Jobs != nil {
			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", cfg.Jobs.List)
				r.Post("/", cfg.Jobs.Create)
				r.Route("/{jobID}", func(r chi.Router) {
					r.Get("/", cfg.Jobs.Get)
					r.Put("/", cfg.Jobs.Update)
					r.Delete("/", cfg.Jobs.Delete)
					r.Put("/completion", cfg.Jobs.CompleteJob)
					r.Delete("/completion", cfg.Jobs.UncompleteJob)
					r.Post("/assignments", cfg.Jobs.CreateAssignment)
					r.Route("/assignments/{assignmentID}", func(r chi.Router) {
						r.Put("/", cfg.Jobs.UpdateAssignment)
						r.Delete("/", cfg.Jobs.DeleteAssignment)
						r.Put("/completion", cfg.Jobs.CompleteAssignment)
						r.Delete("/completion", cfg.Jobs.UncompleteAssignment)
					})
				})
			})
		}

		if cfg.Users != nil {
			r.Route("/users", func(r chi.Router) {
				r.Get("/", cfg.Users.List)
				r.Post("/", cfg.Users.Create)
				r.Get("/{userID}", cfg.Users.Get)
				r.Put("/{userID}", cfg.Users.Update)
				r.Delete("/{userID}", cfg.Users.Delete)
			})
		}

		if cfg.Shopping != nil {
			r.Route("/shopping-lists", func(r chi.Router) {
				r.Get("/", cfg.Shopping.ListLists)
				r.Post("/", cfg.Shopping.CreateList)
				r.Route("/{listID}", func(r chi.Router) {
					r.Get("/", cfg.Shopping.GetList)
					r.Put("/", cfg.Shopping.RenameList)
					r.Delete("/", cfg.Shopping.DeleteList)
					r.Post("/items", cfg.Shopping.AddItem)
					r.Delete("/items/checked", cfg.Shopping.ClearChecked)
					r.Put("/items/{itemID}", cfg.Shopping.UpdateItem)
					r.Delete("/items/{itemID}", cfg.Shopping.DeleteItem)
				})
			})
		}

		if cfg.Calendar != nil {
			r.Route("/calendar-sources", func(r chi.Router) {
				r.Get("/", cfg.Calendar.List)
				r.Post("/", cfg.Calendar.Create)
				r.Put("/{sourceID}", cfg.Calendar.Update)
				r.Delete("/{sourceID}", cfg.Calendar.Delete)
			})
		}

		if cfg.Settings != nil {
			r.Get("/settings", cfg.Settings.Get)
			r.Put("/settings", cfg.Settings.Update)
		}
	})

	return r
}
