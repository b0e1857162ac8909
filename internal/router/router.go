package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"church-portal/internal/config"
	"church-portal/internal/handler"
	"church-portal/internal/middleware"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	fileHandler *handler.FileHandler,
	userHandler *handler.UserHandler,
	catalogHandler *handler.CatalogHandler,
	auditHandler *handler.AuditHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/auth", func(auth chi.Router) {
		auth.Use(middleware.Timeout(cfg.RequestTimeout))
		auth.Post("/login", authHandler.Login)
		auth.Post("/register", authHandler.Register)
		auth.Post("/forgot-password", authHandler.ForgotPassword)
		auth.Get("/reset-password/{token}", authHandler.VerifyResetToken)
		auth.Post("/reset-password/{token}", authHandler.ResetPassword)
	})

	r.Route("/archivos", func(files chi.Router) {
		files.Use(authMiddleware.RequireAuth)

		// Downloads stream straight to the client; http.TimeoutHandler would
		// buffer them, so they get idle-based deadlines instead.
		files.With(middleware.StreamingTimeout(cfg.DownloadMaxDuration, cfg.DownloadIdleTimeout)).
			Get("/download/{id}", fileHandler.Download)

		files.Group(func(api chi.Router) {
			api.Use(middleware.Timeout(cfg.RequestTimeout))
			api.Get("/", fileHandler.List)
			api.Get("/ministry/{id}", fileHandler.ListByMinistry)
			api.Get("/thumbnail/{id}", fileHandler.Thumbnail)
			api.Post("/", fileHandler.Create)
			api.Put("/{id}", fileHandler.Rename)
			api.Delete("/{id}", fileHandler.Delete)
		})

		// Uploads carry large bodies; the request timeout would cut them off.
		files.Post("/uploads", fileHandler.Upload)
	})

	r.Route("/ministerios", func(cat chi.Router) {
		cat.Use(middleware.Timeout(cfg.RequestTimeout))
		cat.Get("/", catalogHandler.ListMinistries)
		cat.With(authMiddleware.RequireAuth, authMiddleware.RequireAdmin).Post("/", catalogHandler.CreateMinistry)
	})

	r.Route("/roles", func(cat chi.Router) {
		cat.Use(middleware.Timeout(cfg.RequestTimeout))
		cat.Get("/", catalogHandler.ListRoles)
		cat.With(authMiddleware.RequireAuth, authMiddleware.RequireAdmin).Post("/", catalogHandler.CreateRole)
	})

	r.Route("/users", func(users chi.Router) {
		users.Use(middleware.Timeout(cfg.RequestTimeout))
		users.Use(authMiddleware.RequireAuth, authMiddleware.RequireAdmin)
		users.Get("/", userHandler.List)
		users.Post("/", userHandler.Create)
		users.Get("/{id}", userHandler.Get)
		users.Put("/{id}", userHandler.Update)
		users.Put("/{id}/password", userHandler.SetPassword)
		users.Delete("/{id}", userHandler.Delete)
	})

	r.With(middleware.Timeout(cfg.RequestTimeout), authMiddleware.RequireAuth).
		Get("/api/userinfo", authHandler.UserInfo)

	r.With(middleware.Timeout(cfg.RequestTimeout), authMiddleware.RequireAuth, authMiddleware.RequireAdmin).
		Get("/auditoria", auditHandler.List)

	// Stored files are also reachable directly by their generated names, the
	// same names the RutaArchivo references point at.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))
	r.With(authMiddleware.RequireAuth).Get("/uploads/*", fileServer.ServeHTTP)

	return r
}
