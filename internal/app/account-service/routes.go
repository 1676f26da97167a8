package accountservice

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/account-service/internal/config"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/health"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/user/list"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/user/me"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/user/remove"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/account-service/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/account-service/internal/services/auth"
	userservice "github.com/magabrotheeeer/account-service/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
//
// Личность запроса строится один раз глобальным IdentityMiddleware;
// отдельной "закрытой" группы нет, отказ анонимным запросам дают
// guard-проверки самих операций.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, authService *authservice.AuthService, userService *userservice.UserService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		corsMiddleware(cfg.AllowedOrigin),
		middlewarectx.MetricsMiddleware(),
		middlewarectx.IdentityMiddleware(authService),
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", register.New(logger, userService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Post("/logout", logout.New(logger, userService).ServeHTTP)

		r.Get("/users", list.New(logger, userService).ServeHTTP)
		r.Get("/users/me", me.New(logger, userService).ServeHTTP)
		r.Put("/users/{uid}", update.New(logger, userService).ServeHTTP)
		r.Delete("/users/{uid}", remove.New(logger, userService).ServeHTTP)

		r.Get("/health", health.New(logger).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

// corsMiddleware выставляет заголовки для разрешённого origin из конфига.
func corsMiddleware(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
