// Package tracker хранит клиентское состояние таблицы участников.
package tracker

import (
	"context"
	"fmt"
	"sync"

	"github.com/Dhoini/gym-fee-tracker/internal/client"
	"github.com/Dhoini/gym-fee-tracker/internal/domain"
)

// MemberAPI операции сервера, нужные таблице
type MemberAPI interface {
	ListMembers(ctx context.Context) ([]domain.Member, error)
	CreateMember(ctx context.Context, req domain.MemberRequest) (domain.Member, error)
	UpdateMember(ctx context.Context, id string, req domain.MemberRequest) (domain.Member, error)
	UpdatePayment(ctx context.Context, id string, req domain.PaymentRequest) (domain.Member, error)
	DeleteMember(ctx context.Context, id string) error
	SendReminders(ctx context.Context) (client.ReminderResult, error)
}

var _ MemberAPI = (*client.Client)(nil)

// NotificationKind вид уведомления
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyInfo    NotificationKind = "info"
	NotifyError   NotificationKind = "error"
)

// Notification короткое уведомление для пользователя
type Notification struct {
	Kind    NotificationKind
	Message string
}

// RowMode режим строки таблицы
type RowMode int

const (
	Viewing RowMode = iota
	Editing
)

// RowState состояние строки: просмотр или редактирование с черновиком
type RowState struct {
	Mode  RowMode
	Draft domain.MemberRequest
}

// Table загруженный список участников и состояние его строк.
// Ошибки сервера не ломают таблицу: они превращаются в уведомления.
type Table struct {
	api MemberAPI

	mu            sync.Mutex
	members       []domain.Member
	rows          map[string]RowState
	pendingDelete string
	notifications []Notification
}

// NewTable создает пустую таблицу
func NewTable(api MemberAPI) *Table {
	return &Table{
		api:  api,
		rows: make(map[string]RowState),
	}
}

// Members возвращает копию загруженного списка
func (t *Table) Members() []domain.Member {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]domain.Member, len(t.members))
	for i, m := range t.members {
		out[i] = m.Clone()
	}
	return out
}

// Row возвращает состояние строки; по умолчанию Viewing
func (t *Table) Row(id string) RowState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rows[id]
}

// PendingDelete ID участника, ожидающего подтверждения удаления
func (t *Table) PendingDelete() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pendingDelete
}

// Notifications забирает накопленные уведомления
func (t *Table) Notifications() []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := t.notifications
	t.notifications = nil
	return out
}

func (t *Table) notify(kind NotificationKind, format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notifications = append(t.notifications, Notification{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

func (t *Table) find(id string) (domain.Member, bool) {
	for _, m := range t.members {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Member{}, false
}

// Refresh перезагружает список с сервера
func (t *Table) Refresh(ctx context.Context) error {
	members, err := t.api.ListMembers(ctx)
	if err != nil {
		t.notify(NotifyError, "Failed to load members")
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.members = members
	for id := range t.rows {
		if _, ok := t.find(id); !ok {
			delete(t.rows, id)
		}
	}
	if _, ok := t.find(t.pendingDelete); !ok {
		t.pendingDelete = ""
	}
	return nil
}

// StartEdit переводит строку в редактирование с черновиком из текущих значений
func (t *Table) StartEdit(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.find(id)
	if !ok {
		return fmt.Errorf("member %s is not loaded", id)
	}

	t.rows[id] = RowState{
		Mode: Editing,
		Draft: domain.MemberRequest{
			MemberID: m.MemberID,
			Name:     m.Name,
			Phone:    m.Phone,
			Email:    m.Email,
		},
	}
	return nil
}

// SetDraft заменяет черновик редактируемой строки
func (t *Table) SetDraft(id string, draft domain.MemberRequest) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	row := t.rows[id]
	if row.Mode != Editing {
		return fmt.Errorf("member %s is not being edited", id)
	}
	row.Draft = draft
	t.rows[id] = row
	return nil
}

// CancelEdit возвращает строку в просмотр, черновик отбрасывается
func (t *Table) CancelEdit(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rows, id)
}

// SaveEdit отправляет черновик, перезагружает список и возвращает строку в просмотр.
// При ошибке строка остается в редактировании.
func (t *Table) SaveEdit(ctx context.Context, id string) error {
	t.mu.Lock()
	row := t.rows[id]
	t.mu.Unlock()

	if row.Mode != Editing {
		return fmt.Errorf("member %s is not being edited", id)
	}

	if _, err := t.api.UpdateMember(ctx, id, row.Draft); err != nil {
		t.notify(NotifyError, "Failed to update member")
		return err
	}

	t.mu.Lock()
	delete(t.rows, id)
	t.mu.Unlock()

	t.notify(NotifySuccess, "Member details updated!")
	return t.Refresh(ctx)
}

// RequestDelete первый шаг удаления: запоминает, что нужно подтверждение
func (t *Table) RequestDelete(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pendingDelete = id
}

// DismissDelete отменяет запрос на удаление
func (t *Table) DismissDelete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pendingDelete = ""
}

// ConfirmDelete второй шаг удаления: удаляет ожидающего участника
func (t *Table) ConfirmDelete(ctx context.Context) error {
	t.mu.Lock()
	id := t.pendingDelete
	t.pendingDelete = ""
	t.mu.Unlock()

	if id == "" {
		return fmt.Errorf("no delete pending")
	}

	if err := t.api.DeleteMember(ctx, id); err != nil {
		t.notify(NotifyError, "Failed to delete member")
		return err
	}

	t.notify(NotifySuccess, "Member deleted successfully!")
	return t.Refresh(ctx)
}

// TogglePayment переключает оплату месяца и перезагружает список
func (t *Table) TogglePayment(ctx context.Context, id, month string) error {
	_, err := t.api.UpdatePayment(ctx, id, domain.PaymentRequest{Month: month, Toggle: true})
	if err != nil {
		t.notify(NotifyError, "Failed to update payment")
		return err
	}

	t.notify(NotifyInfo, "Payment updated for %s", month)
	return t.Refresh(ctx)
}

// SendReminders запускает напоминания на сервере
func (t *Table) SendReminders(ctx context.Context) (int, error) {
	result, err := t.api.SendReminders(ctx)
	if err != nil {
		t.notify(NotifyError, "Failed to send reminders")
		return 0, err
	}

	t.notify(NotifySuccess, "Reminders sent successfully!")
	return result.Sent, nil
}
