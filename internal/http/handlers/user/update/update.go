// Package update реализует HTTP-обработчик обновления учётной записи.
//
// Пользователь может менять только собственную запись, чужой uid доступен
// только роли ADMIN. Пароль из тела запроса хэшируется сервисом и только
// если он действительно меняется.
package update

import (
	"context"
	"encoding/json"
	"errors"
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
	userservice "github.com/magabrotheeeer/account-service/internal/services/user"
	"github.com/magabrotheeeer/account-service/internal/storage/repository"
)

// Request — структура входных данных для обновления. Все поля опциональны,
// отсутствующее поле не меняется.
type Request struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=30"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     *string `json:"role" validate:"omitempty,oneof=ADMIN USER MANAGER"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

// Service описывает интерфейс бизнес-логики обновления учётной записи.
type Service interface {
	Update(ctx context.Context, actor *models.User, targetUID string, data models.UpdateUserData) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы обновления.
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
// @Summary Обновление учётной записи
// @Description Обновляет поля учётной записи. Чужой uid доступен только роли ADMIN.
// @Tags Users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID пользователя"
// @Param request body Request true "Изменяемые поля"
// @Success 200 {object} response.Response "Обновленная запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или uid"
// @Failure 401 {object} response.ErrorResponse "Требуется аутентификация"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Email или username уже заняты"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/{uid} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.update"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated", slog.String("uid", targetUID))

	actor := middlewarectx.CurrentUser(r.Context())
	user, err := h.service.Update(r.Context(), actor, targetUID, models.UpdateUserData{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrUnauthenticated):
			log.Info("update without identity")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
		case errors.Is(err, authservice.ErrForbidden):
			log.Info("update forbidden", slog.String("uid", targetUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("you can only update your own profile"))
		case errors.Is(err, repository.ErrUserNotFound):
			log.Info("update target not found", slog.String("uid", targetUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, repository.ErrUserExists):
			log.Error("update conflicts with existing user", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("user with this email or username already exists"))
		case errors.Is(err, userservice.ErrInvalidRole):
			log.Error("invalid role", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("invalid role"))
		default:
			log.Error("failed to update user", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update user"))
		}
		return
	}

	log.Info("updated user", slog.String("uid", targetUID))
	render.JSON(w, r, response.OKWithData(user))
}
