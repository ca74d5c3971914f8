package handlers

import (
	"net/http"

	"github.com/Dhoini/gym-fee-tracker/internal/service"
	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ReminderHandler обработчик ручного запуска напоминаний
type ReminderHandler struct {
	service service.ReminderService
	log     *logger.Logger
}

// NewReminderHandler создает обработчик напоминаний
func NewReminderHandler(svc service.ReminderService, log *logger.Logger) *ReminderHandler {
	return &ReminderHandler{
		service: svc,
		log:     log,
	}
}

// SendReminders запускает отправку напоминаний
func (h *ReminderHandler) SendReminders(c *gin.Context) {
	sent, err := h.service.SendReminders(c.Request.Context())
	if err != nil {
		h.log.Errorw("Failed to send reminders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to send reminders",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reminders sent successfully",
		"sent":    sent,
	})
}
