package tracker

import (
	"context"

	"github.com/Dhoini/gym-fee-tracker/internal/domain"
	"github.com/Dhoini/gym-fee-tracker/pkg/req"
)

// AddForm локальный черновик нового участника
type AddForm struct {
	api   MemberAPI
	draft domain.MemberRequest
	// Notifications уведомления последней отправки
	Notifications []Notification
}

// NewAddForm создает пустую форму
func NewAddForm(api MemberAPI) *AddForm {
	return &AddForm{api: api}
}

// Draft текущий черновик
func (f *AddForm) Draft() domain.MemberRequest {
	return f.draft
}

// Set заменяет черновик
func (f *AddForm) Set(draft domain.MemberRequest) {
	f.draft = draft
}

// Validate проверяет наличие полей до отправки и возвращает пустые поля
func (f *AddForm) Validate() []string {
	if err := req.IsValid(f.draft); err != nil {
		return req.InvalidFields(err)
	}
	return nil
}

// Submit создает участника. Черновик очищается только после успеха.
func (f *AddForm) Submit(ctx context.Context) (domain.Member, error) {
	f.Notifications = nil

	if err := req.IsValid(f.draft); err != nil {
		f.Notifications = append(f.Notifications, Notification{Kind: NotifyError, Message: "Please fill in all fields"})
		return domain.Member{}, err
	}

	member, err := f.api.CreateMember(ctx, f.draft)
	if err != nil {
		f.Notifications = append(f.Notifications, Notification{Kind: NotifyError, Message: "Error adding member"})
		return domain.Member{}, err
	}

	f.draft = domain.MemberRequest{}
	f.Notifications = append(f.Notifications, Notification{Kind: NotifySuccess, Message: "Member added successfully!"})
	return member, nil
}
