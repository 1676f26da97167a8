// Package register реализует HTTP-обработчик регистрации пользователей.
//
// Здесь определяется структура Request для входных данных, выполняется
// декодирование JSON, валидация полей и делегирование операции создания
// учётной записи сервису. Дубликат email или username возвращается
// с кодом 409, хэш пароля в ответ не попадает.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	"github.com/magabrotheeeer/account-service/internal/models"
	userservice "github.com/magabrotheeeer/account-service/internal/services/user"
	"github.com/magabrotheeeer/account-service/internal/storage/repository"
)

// Request — структура входных данных для регистрации.
//
// Username от 3 до 30 символов, email в корректном синтаксисе,
// пароль минимум 6 символов, роль — из закрытого набора (по умолчанию USER).
type Request struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN USER MANAGER"`
}

// Service описывает интерфейс бизнес-логики создания учётной записи.
type Service interface {
	Create(ctx context.Context, username, email, rawPassword, role string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис операций над учётными записями
	validate *validator.Validate // Валидатор для проверки входных данных
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
// @Summary Регистрация нового пользователя
// @Description Создает учётную запись. Возвращает запись без хэша пароля.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные для регистрации"
// @Success 201 {object} response.Response "Пользователь создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Email или username уже заняты"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("username", req.Username))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	user, err := h.service.Create(r.Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserExists):
			log.Error("user already exists", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("user with this email or username already exists"))
		case errors.Is(err, userservice.ErrInvalidRole):
			log.Error("invalid role", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("invalid role"))
		default:
			log.Error("failed to register new user", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register new user"))
		}
		return
	}

	log.Info("created new user", slog.String("username", user.Username))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(user))
}
