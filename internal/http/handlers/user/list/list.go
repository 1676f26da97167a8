// Package list реализует HTTP-обработчик списка пользователей.
//
// Список доступен только ролям ADMIN и MANAGER, отсортирован по дате
// создания по убыванию и не содержит хэшей паролей.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/account-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	"github.com/magabrotheeeer/account-service/internal/models"
	authservice "github.com/magabrotheeeer/account-service/internal/services/auth"
)

const (
	defaultLimit  = 50
	defaultOffset = 0
)

// Service описывает интерфейс бизнес-логики списка пользователей.
type Service interface {
	List(ctx context.Context, actor *models.User, limit, offset int) ([]*models.User, error)
}

// Handler обрабатывает HTTP-запросы списка пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает пользователей по убыванию даты создания. Доступно ролям ADMIN и MANAGER.
// @Tags Users
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "Количество записей" default(50)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} response.Response "Список пользователей"
// @Failure 401 {object} response.ErrorResponse "Требуется аутентификация"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	offset := defaultOffset
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	actor := middlewarectx.CurrentUser(r.Context())
	users, err := h.service.List(r.Context(), actor, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrUnauthenticated):
			log.Info("list without identity")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
		case errors.Is(err, authservice.ErrForbidden):
			log.Info("list forbidden", slog.String("role", actor.Role))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("insufficient permissions"))
		default:
			log.Error("failed to list users", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to fetch users"))
		}
		return
	}

	log.Info("users listed", slog.Int("count", len(users)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"users": users,
		"count": len(users),
	}))
}
