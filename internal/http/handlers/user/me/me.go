// Package me реализует HTTP-обработчик просмотра собственной учётной записи.
//
// Анонимный запрос не считается ошибкой: обработчик возвращает успешный
// ответ с пустыми данными, транспорт не превращает отсутствие личности
// в отказ.
package me

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/account-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	"github.com/magabrotheeeer/account-service/internal/models"
	authservice "github.com/magabrotheeeer/account-service/internal/services/auth"
)

// Service описывает интерфейс бизнес-логики просмотра своей записи.
type Service interface {
	Me(actor *models.User) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы просмотра своей учётной записи.
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
// @Summary Текущий пользователь
// @Description Возвращает учётную запись вызывающего. Для анонимного запроса данные пусты.
// @Tags Users
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Учетная запись или пустые данные"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, err := h.service.Me(middlewarectx.CurrentUser(r.Context()))
	if err != nil {
		if errors.Is(err, authservice.ErrUnauthenticated) {
			log.Info("me without identity")
			render.JSON(w, r, response.OK())
			return
		}
		log.Error("me failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to fetch current user"))
		return
	}

	log.Info("me resolved", slog.String("username", user.Username))
	render.JSON(w, r, response.OKWithData(user))
}
