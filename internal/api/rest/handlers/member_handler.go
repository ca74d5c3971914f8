package handlers

import (
	"errors"
	"net/http"

	"github.com/Dhoini/gym-fee-tracker/internal/domain"
	"github.com/Dhoini/gym-fee-tracker/internal/repository"
	"github.com/Dhoini/gym-fee-tracker/internal/service"
	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
	"github.com/Dhoini/gym-fee-tracker/pkg/req"
	"github.com/Dhoini/gym-fee-tracker/pkg/res"
	"github.com/gin-gonic/gin"
)

// Сообщения об ошибках, которые видит клиент
const (
	msgMemberNotFound = "Member not found"
	msgFetchFailed    = "Failed to fetch members"
	msgFetchOneFailed = "Failed to fetch member"
	msgAddFailed      = "Failed to add member"
	msgUpdateFailed   = "Failed to update member"
	msgPaymentFailed  = "Failed to update payment"
	msgDeleteFailed   = "Failed to delete member"
	msgMemberDeleted  = "Member deleted successfully"
)

// MemberHandler обработчик для участников
type MemberHandler struct {
	service service.MemberService
	log     *logger.Logger
}

// NewMemberHandler создает новый обработчик участников
func NewMemberHandler(svc service.MemberService, log *logger.Logger) *MemberHandler {
	return &MemberHandler{
		service: svc,
		log:     log,
	}
}

// validationDetails возвращает список полей или текст ошибки
func validationDetails(err error) any {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.Fields()
	}
	if fields := req.InvalidFields(err); len(fields) > 0 {
		return fields
	}
	return err.Error()
}

// fail переводит ошибку сервиса в HTTP-ответ
func (h *MemberHandler) fail(c *gin.Context, err error, failedMsg string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		res.JsonErrorResponse(c, res.ErrorResponse{Error: msgMemberNotFound}, http.StatusNotFound, err, h.log)
	case errors.Is(err, domain.ErrInvalidInput):
		res.JsonErrorResponse(c, res.ErrorResponse{Error: failedMsg, Details: validationDetails(err)}, http.StatusBadRequest, err, h.log)
	default:
		res.JsonErrorResponse(c, res.ErrorResponse{Error: failedMsg}, http.StatusInternalServerError, err, h.log)
	}
}

// badRequest отвечает 400 на тело, не прошедшее привязку
func (h *MemberHandler) badRequest(c *gin.Context, err error, failedMsg string) {
	res.JsonErrorResponse(c, res.ErrorResponse{Error: failedMsg, Details: validationDetails(err)}, http.StatusBadRequest, err, h.log)
}

// GetMembers возвращает список всех участников
func (h *MemberHandler) GetMembers(c *gin.Context) {
	members, err := h.service.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, msgFetchFailed)
		return
	}

	h.log.Debug("Returned %d members", len(members))
	res.JsonResponse(c, members, http.StatusOK)
}

// GetMember возвращает участника по ID
func (h *MemberHandler) GetMember(c *gin.Context) {
	id := c.Param("id")

	member, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, msgFetchOneFailed)
		return
	}

	res.JsonResponse(c, member, http.StatusOK)
}

// CreateMember создает нового участника
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var body domain.MemberRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, err, msgAddFailed)
		return
	}

	member, err := h.service.Create(c.Request.Context(), body)
	if err != nil {
		h.fail(c, err, msgAddFailed)
		return
	}

	h.log.Info("Created member with ID: %s", member.ID)
	res.JsonResponse(c, member, http.StatusCreated)
}

// UpdateMember обновляет контактные данные участника
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	id := c.Param("id")

	var body domain.MemberRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, err, msgUpdateFailed)
		return
	}

	member, err := h.service.UpdateDetails(c.Request.Context(), id, body)
	if err != nil {
		h.fail(c, err, msgUpdateFailed)
		return
	}

	res.JsonResponse(c, member, http.StatusOK)
}

// UpdatePayment отмечает или переключает оплату месяца
func (h *MemberHandler) UpdatePayment(c *gin.Context) {
	id := c.Param("id")

	var body domain.PaymentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, err, msgPaymentFailed)
		return
	}

	member, err := h.service.MarkPayment(c.Request.Context(), id, body)
	if err != nil {
		h.fail(c, err, msgPaymentFailed)
		return
	}

	res.JsonResponse(c, member, http.StatusOK)
}

// DeleteMember удаляет участника
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, msgDeleteFailed)
		return
	}

	res.JsonResponse(c, gin.H{"message": msgMemberDeleted}, http.StatusOK)
}
