package domain

import (
	"fmt"
	"time"
)

// Months фиксированный список месяцев в календарном порядке
var Months = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Payment отметка об оплате взноса за один календарный месяц
type Payment struct {
	Month string     `json:"month" bson:"month"`
	Paid  bool       `json:"paid" bson:"paid"`
	Date  *time.Time `json:"date" bson:"date"` // nil, пока месяц не оплачен
}

// PaymentRequest представляет запрос на отметку оплаты
type PaymentRequest struct {
	Month  string `json:"month" binding:"required"`
	Toggle bool   `json:"toggle"`
}

// NewPaymentSchedule возвращает 12 неоплаченных месяцев, январь..декабрь.
func NewPaymentSchedule() []Payment {
	payments := make([]Payment, len(Months))
	for i, month := range Months {
		payments[i] = Payment{Month: month}
	}
	return payments
}

// IsValidMonth проверяет точное совпадение с одним из 12 названий (регистр важен).
func IsValidMonth(month string) bool {
	for _, m := range Months {
		if m == month {
			return true
		}
	}
	return false
}

// MonthOf возвращает название месяца для момента времени
func MonthOf(t time.Time) string {
	return Months[t.Month()-1]
}

// MarkPaid помечает месяц оплаченным и ставит дату
func (p *Payment) MarkPaid(now time.Time) {
	p.Paid = true
	p.Date = &now
}

// Toggle инвертирует флаг оплаты. Дата ставится при оплате и сбрасывается при отмене.
func (p *Payment) Toggle(now time.Time) {
	if p.Paid {
		p.Paid = false
		p.Date = nil
		return
	}
	p.MarkPaid(now)
}

// ApplyPayment применяет запрос к нужному месяцу участника.
func (m *Member) ApplyPayment(req PaymentRequest, now time.Time) error {
	payment := m.PaymentFor(req.Month)
	if payment == nil {
		return fmt.Errorf("%w: %q", ErrUnknownMonth, req.Month)
	}

	if req.Toggle {
		payment.Toggle(now)
	} else {
		payment.MarkPaid(now)
	}
	return nil
}
