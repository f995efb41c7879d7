package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/vigilant-todo/internal/api"
	apiMiddleware "github.com/phrazzld/vigilant-todo/internal/api/middleware"
)

// setupRouter creates the router with all middleware and routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{apiMiddleware.TraceIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authn := apiMiddleware.NewAuthenticator(app.resolver)
	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.logger)
	userHandler := api.NewUserHandler(app.userService, authn, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, authn, app.logger)

	r.Get("/", api.Root)
	r.Get("/health", api.Health)

	r.Route(app.config.Server.APIPrefix, func(r chi.Router) {
		r.Post("/users/register", authHandler.Register)
		r.Post("/users/login", authHandler.Login)

		// Protected: each handler resolves the caller itself.
		r.Get("/users/me", userHandler.Me)
		r.Patch("/users/me", userHandler.UpdateMe)

		r.Get("/tasks", taskHandler.List)
		r.Post("/tasks", taskHandler.Create)
		r.Get("/tasks/{"+api.TaskIDParam+"}", taskHandler.Get)
		r.Put("/tasks/{"+api.TaskIDParam+"}", taskHandler.Update)
		r.Delete("/tasks/{"+api.TaskIDParam+"}", taskHandler.Delete)
	})

	return r
}
