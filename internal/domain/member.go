package domain

import "strings"

// Member представляет собой модель участника зала
type Member struct {
	ID       string    `json:"_id"`      // Идентификатор, назначенный хранилищем
	MemberID string    `json:"memberId"` // Код участника, уникальность не проверяется
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	Email    string    `json:"email"`
	Payments []Payment `json:"payments"`
}

// MemberRequest представляет запрос на создание/обновление участника
type MemberRequest struct {
	MemberID string `json:"memberId" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

// Validate проверяет только наличие полей, формат не проверяется.
func (r MemberRequest) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(r.MemberID) == "" {
		errs.Add("memberId", "is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		errs.Add("name", "is required")
	}
	if strings.TrimSpace(r.Phone) == "" {
		errs.Add("phone", "is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		errs.Add("email", "is required")
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}

// NewMember создает участника со свежим графиком платежей
func NewMember(req MemberRequest) Member {
	return Member{
		MemberID: req.MemberID,
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Payments: NewPaymentSchedule(),
	}
}

// ApplyDetails перезаписывает четыре поля; платежи не трогаются.
func (m *Member) ApplyDetails(req MemberRequest) {
	m.MemberID = req.MemberID
	m.Name = req.Name
	m.Phone = req.Phone
	m.Email = req.Email
}

// PaymentFor возвращает указатель на запись месяца или nil.
func (m *Member) PaymentFor(month string) *Payment {
	for i := range m.Payments {
		if m.Payments[i].Month == month {
			return &m.Payments[i]
		}
	}
	return nil
}

// IsPaid сообщает, оплачен ли месяц
func (m Member) IsPaid(month string) bool {
	for _, p := range m.Payments {
		if p.Month == month {
			return p.Paid
		}
	}
	return false
}

// Clone делает глубокую копию, включая даты платежей.
func (m Member) Clone() Member {
	out := m
	if m.Payments != nil {
		out.Payments = make([]Payment, len(m.Payments))
		for i, p := range m.Payments {
			if p.Date != nil {
				d := *p.Date
				p.Date = &d
			}
			out.Payments[i] = p
		}
	}
	return out
}
