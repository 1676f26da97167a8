// Package health реализует проверку живости сервиса.
package health

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/account-service/internal/http/response"
)

// Handler обрабатывает запросы проверки живости.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

// ServeHTTP godoc
// @Summary Проверка живости
// @Tags Service
// @Produce  json
// @Success 200 {object} response.Response "Сервис работает"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"service":   "account-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}))
}
