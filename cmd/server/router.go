package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/taskdesk/taskdesk/internal/api"
	apiMiddleware "github.com/taskdesk/taskdesk/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.CORSMiddleware(app.config.CORS.Origin))

	authHandler := api.NewAuthHandler(app.userService, app.sessions, app.config.Auth.CookieSecure)
	taskHandler := api.NewTaskHandler(app.taskService)
	userHandler := api.NewUserHandler(app.userService)
	pageHandler := api.NewPageHandler()
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.sessions)

	// Public endpoints
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)

	// Public pages; signed-in users are bounced back to the task list
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RedirectAuthenticated("/"))
		r.Get("/login", pageHandler.Login)
		r.Get("/register", pageHandler.Register)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/", pageHandler.Tasks)
		r.Get("/logout", authHandler.Logout)

		r.Get("/api/user", userHandler.Me)
		r.Get("/api/tasks", taskHandler.List)
		r.Get("/api/executors", userHandler.ListExecutors)

		r.Post("/tasks", taskHandler.Create)
		r.Post("/tasks/{id}/update", taskHandler.Update)
		r.Post("/tasks/{id}/delete", taskHandler.Delete)
		r.Post("/tasks/{id}/status", taskHandler.SetStatus)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
