// Package logout реализует HTTP-обработчик выхода пользователя.
//
// Хранилища отозванных токенов нет: операция лишь требует установленной
// личности и возвращает подтверждение. Токен остается валиден до истечения
// своего срока жизни.
package logout

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

// Service описывает интерфейс бизнес-логики выхода.
type Service interface {
	Logout(actor *models.User) (string, error)
}

// Handler обрабатывает HTTP-запросы выхода.
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
// @Summary Выход пользователя
// @Description Подтверждает выход аутентифицированного пользователя.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Успешный выход"
// @Failure 401 {object} response.ErrorResponse "Требуется аутентификация"
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor := middlewarectx.CurrentUser(r.Context())
	message, err := h.service.Logout(actor)
	if err != nil {
		if errors.Is(err, authservice.ErrUnauthenticated) {
			log.Info("logout without identity")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}
		log.Error("logout failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("logout failed"))
		return
	}

	log.Info("logout success", slog.String("username", actor.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": message,
	}))
}
