package router

import (
	"github.com/formforge/formforge/internal/auth"
	"github.com/formforge/formforge/internal/handler"
	mw "github.com/formforge/formforge/internal/middleware"
	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	Workspace  *handler.WorkspaceHandler
	Form       *handler.FormHandler
	Editor     *handler.EditorHandler
	Submission *handler.SubmissionHandler
	Media      *handler.MediaHandler
	Dashboard  *handler.DashboardHandler
	Health     *handler.HealthHandler
}

func New(jwtSecret, corsOrigin string, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(corsOrigin))

	r.Get("/healthz", h.Health.Health)

	// Public form rendering and submission, addressed by slug.
	r.Get("/f/{slug}", h.Submission.PublicForm)
	r.Post("/f/{slug}/submissions", h.Submission.SubmitPublic)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/refresh", h.Auth.Refresh)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(jwtSecret))

			// Auth
			r.Get("/auth/me", h.Auth.Me)
			r.Post("/auth/logout", h.Auth.Logout)

			// Dashboard
			r.Get("/dashboard", h.Dashboard.Overview)

			// Workspaces
			r.Get("/workspaces", h.Workspace.List)
			r.Post("/workspaces", h.Workspace.Create)
			r.Get("/workspaces/{workspaceId}", h.Workspace.Get)
			r.Put("/workspaces/{workspaceId}", h.Workspace.Update)
			r.Delete("/workspaces/{workspaceId}", h.Workspace.Delete)

			// Forms
			r.Get("/forms", h.Form.List)
			r.Post("/forms", h.Form.Create)
			r.Get("/forms/{formId}", h.Form.Get)
			r.Put("/forms/{formId}/publish", h.Form.Publish)
			r.Put("/forms/{formId}/active", h.Form.Activate)
			r.Delete("/forms/{formId}", h.Form.Delete)
			r.Post("/forms/{formId}/media", h.Media.Upload)
			r.Delete("/forms/{formId}/media", h.Media.Delete)

			// Editor sessions
			r.Get("/questions", h.Editor.Palette)
			r.Post("/forms/{formId}/editor", h.Editor.Open)
			r.Get("/editor/{sessionId}", h.Editor.State)
			r.Post("/editor/{sessionId}/ops", h.Editor.Apply)
			r.Post("/editor/{sessionId}/flush", h.Editor.Flush)
			r.Post("/editor/{sessionId}/retry", h.Editor.Retry)
			r.Get("/editor/{sessionId}/preview", h.Editor.Preview)
			r.Delete("/editor/{sessionId}", h.Editor.Close)

			// Submissions
			r.Get("/forms/{formId}/submissions", h.Submission.List)
			r.Get("/submissions/{subId}", h.Submission.Get)
			r.Delete("/submissions/{subId}", h.Submission.Delete)
			r.Get("/submissions", h.Submission.Search)
		})
	})

	return r
}
