package res

import (
	"net/http"

	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ErrorResponse представляет формат JSON-ответа для ошибок.
type ErrorResponse struct {
	Error   string `json:"error"`             // Сообщение об ошибке (для пользователя)
	Details any    `json:"details,omitempty"` // Детали ошибки (например, ошибки валидации)
}

// JsonResponse отправляет JSON-ответ с заданным статусом.
func JsonResponse(c *gin.Context, data any, status int) {
	c.JSON(status, data)
}

// JsonErrorResponse отправляет JSON ответ ошибки и пишет её в лог.
// 5xx логируются как ошибки, остальные как предупреждения.
func JsonErrorResponse(c *gin.Context, errResponse ErrorResponse, status int, cause error, log *logger.Logger) {
	fields := []interface{}{
		"status", status,
		"method", c.Request.Method,
		"path", c.FullPath(),
		"message", errResponse.Error,
	}
	if cause != nil {
		fields = append(fields, "error", cause)
	}

	if status >= http.StatusInternalServerError {
		log.Errorw("Request failed", fields...)
	} else {
		log.Warnw("Request rejected", fields...)
	}

	JsonResponse(c, errResponse, status)
}
