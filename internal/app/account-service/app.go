// Package accountservice собирает приложение: хранилище, миграции,
// сервисы, маршруты и жизненный цикл HTTP-сервера.
package accountservice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/account-service/internal/config"
	"github.com/magabrotheeeer/account-service/internal/lib/jwt"
	"github.com/magabrotheeeer/account-service/internal/migrations"
	authservice "github.com/magabrotheeeer/account-service/internal/services/auth"
	userservice "github.com/magabrotheeeer/account-service/internal/services/user"
	"github.com/magabrotheeeer/account-service/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и хранилище с явным жизненным циклом:
// соединение открывается при старте и закрывается при остановке.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New создает приложение: открывает базу, прогоняет миграции,
// собирает сервисы и маршруты.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker, logger)
	userService := userservice.NewUserService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authService, userService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.Close(); closeErr != nil {
			a.logger.Error("failed to close storage", slog.Any("err", closeErr))
		}
		return err
	}
}
