// Package remove реализует HTTP-обработчик мягкого удаления учётной записи.
//
// Операция доступна только роли ADMIN. Запись помечается удалённой
// и исчезает из обычных выборок, но строка в базе сохраняется.
package remove

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/account-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	"github.com/magabrotheeeer/account-service/internal/models"
	authservice "github.com/magabrotheeeer/account-service/internal/services/auth"
	"github.com/magabrotheeeer/account-service/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики удаления учётной записи.
type Service interface {
	Delete(ctx context.Context, actor *models.User, targetUID string) (string, error)
}

// Handler обрабатывает HTTP-запросы удаления.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Удаление учётной записи
// @Description Помечает учётную запись удалённой. Доступно только роли ADMIN.
// @Tags Users
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID пользователя"
// @Success 200 {object} response.Response "Пользователь удален"
// @Failure 400 {object} response.ErrorResponse "Некорректный uid"
// @Failure 401 {object} response.ErrorResponse "Требуется аутентификация"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден или уже удален"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/{uid} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	targetUID := chi.URLParam(r, "uid")
	if err := h.validate.Var(targetUID, "required,uuid"); err != nil {
		log.Error("invalid uid", slog.String("uid", targetUID))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user uid"))
		return
	}

	actor := middlewarectx.CurrentUser(r.Context())
	username, err := h.service.Delete(r.Context(), actor, targetUID)
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrUnauthenticated):
			log.Info("delete without identity")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
		case errors.Is(err, authservice.ErrForbidden):
			log.Info("delete forbidden", slog.String("uid", targetUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("insufficient permissions"))
		case errors.Is(err, repository.ErrUserNotFound):
			log.Info("delete target not found", slog.String("uid", targetUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to delete user", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to delete user"))
		}
		return
	}

	log.Info("deleted user", slog.String("uid", targetUID), slog.String("username", username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": fmt.Sprintf("user %s deleted successfully", username),
	}))
}
