package routes

import (
	"net/http"

	"github.com/lkd-web/kurs/internal/app"
	"github.com/lkd-web/kurs/internal/handler"
	"github.com/lkd-web/kurs/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService)
	event := handler.NewEventHandler(app.CatalogService)
	application := handler.NewApplicationHandler(app.ApplicationService)
	choice := handler.NewChoiceHandler(app.ChoiceService)
	permit := handler.NewPermitHandler(app.PermitService, app.Cfg.PermitMaxSize)
	profile := handler.NewProfileHandler(app.ProfileService)
	admin := handler.NewAdminHandler(app.AdminService)
	page := handler.NewPageHandler(app.PageService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /health", health.Health)

	mux.HandleFunc("GET /events", event.List)
	mux.HandleFunc("GET /events/{id}", event.Get)
	mux.HandleFunc("GET /events/{id}/courses", event.Courses)
	mux.HandleFunc("GET /courses/{id}", event.Course)

	mux.HandleFunc("GET /pages", page.List)
	mux.HandleFunc("GET /pages/{slug}", page.Get)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /auth/logout", auth.Logout)

	// ============================================================================
	// AUTHENTICATED ROUTES
	// ============================================================================

	mux.HandleFunc("POST /courses/{id}/apply", middleware.RequireAuth(application.Apply))
	mux.HandleFunc("GET /applications", middleware.RequireAuth(application.List))
	mux.HandleFunc("GET /applications/{id}", middleware.RequireAuth(application.Get))
	mux.HandleFunc("POST /applications/{id}/cancel", middleware.RequireAuth(application.Cancel))

	mux.HandleFunc("GET /applications/{id}/permit", middleware.RequireAuth(permit.Get))
	mux.HandleFunc("POST /applications/{id}/permit", middleware.RequireAuth(permit.Upload))

	mux.HandleFunc("GET /events/{id}/choices", middleware.RequireAuth(choice.List))
	mux.HandleFunc("POST /events/{id}/choices", middleware.RequireAuth(choice.Edit))

	mux.HandleFunc("GET /profile", middleware.RequireAuth(profile.Get))
	mux.HandleFunc("PUT /profile", middleware.RequireAuth(profile.Update))

	// ============================================================================
	// ADMIN ROUTES
	// ============================================================================

	mux.HandleFunc("POST /admin/events", middleware.RequireAdmin(admin.CreateEvent))
	mux.HandleFunc("PUT /admin/events/{id}", middleware.RequireAdmin(admin.UpdateEvent))
	mux.HandleFunc("DELETE /admin/events/{id}", middleware.RequireAdmin(admin.DeleteEvent))

	mux.HandleFunc("POST /admin/courses", middleware.RequireAdmin(admin.CreateCourse))
	mux.HandleFunc("PUT /admin/courses/{id}", middleware.RequireAdmin(admin.UpdateCourse))
	mux.HandleFunc("DELETE /admin/courses/{id}", middleware.RequireAdmin(admin.DeleteCourse))
	mux.HandleFunc("POST /admin/courses/status/preview", middleware.RequireAdmin(admin.PreviewCoursesStatus))
	mux.HandleFunc("POST /admin/courses/status", middleware.RequireAdmin(admin.SetCoursesStatus))

	mux.HandleFunc("GET /admin/applications", middleware.RequireAdmin(admin.ListApplications))
	mux.HandleFunc("POST /admin/applications/{id}/approve", middleware.RequireAdmin(admin.ApproveApplication))
	mux.HandleFunc("POST /admin/applications/{id}/unapprove", middleware.RequireAdmin(admin.UnapproveApplication))

	mux.HandleFunc("GET /admin/logs", middleware.RequireAdmin(admin.Logs))
	mux.HandleFunc("GET /admin/users/{id}/comments", middleware.RequireAdmin(admin.ListComments))
	mux.HandleFunc("POST /admin/users/{id}/comments", middleware.RequireAdmin(admin.AddComment))

	// Middleware chain (outermost first)
	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService),
	)
}
