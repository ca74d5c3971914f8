package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Dhoini/gym-fee-tracker/internal/client"
	"github.com/Dhoini/gym-fee-tracker/internal/domain"
	"github.com/Dhoini/gym-fee-tracker/internal/tracker"
	"github.com/Dhoini/gym-fee-tracker/pkg/req"
	"github.com/spf13/cobra"
)

// API операции сервера, которые использует CLI
type API interface {
	tracker.MemberAPI
	GetMember(ctx context.Context, id string) (domain.Member, error)
}

var _ API = (*client.Client)(nil)

// serverError переводит ошибку клиента в код выхода
func serverError(f *OutputFormatter, message string, err error) error {
	_ = f.Error(fmt.Sprintf("%s: %v", message, err))
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return WrapExitError(ExitFailure, message, err)
	}
	return WrapExitError(ExitCommandError, message, err)
}

func newListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all members with their payment status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatterFor(opts, cmd)
			f.VerboseLog("GET %s/api/members", opts.Server)

			table := tracker.NewTable(opts.newAPI(opts.Server))
			if err := table.Refresh(cmd.Context()); err != nil {
				return serverError(f, "failed to list members", err)
			}

			members := table.Members()
			return f.Success(members, func(w io.Writer) {
				writeMemberTable(w, members)
			})
		},
	}
}

func newShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one member with payment dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatterFor(opts, cmd)

			member, err := opts.newAPI(opts.Server).GetMember(cmd.Context(), args[0])
			if err != nil {
				return serverError(f, "failed to get member", err)
			}

			return f.Success(member, func(w io.Writer) {
				writeMemberDetails(w, member)
			})
		},
	}
}

// memberFlags флаги полей участника для add и edit
type memberFlags struct {
	memberID, name, phone, email string
}

func (m *memberFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&m.memberID, "member-id", "", "member code")
	cmd.Flags().StringVar(&m.name, "name", "", "member name")
	cmd.Flags().StringVar(&m.phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&m.email, "email", "", "email address")
}

func (m *memberFlags) request() domain.MemberRequest {
	return domain.MemberRequest{
		MemberID: m.memberID,
		Name:     m.name,
		Phone:    m.phone,
		Email:    m.email,
	}
}

func newAddCommand(opts *RootOptions) *cobra.Command {
	var flags memberFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a member with a fresh 12-month payment schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatterFor(opts, cmd)

			form := tracker.NewAddForm(opts.newAPI(opts.Server))
			form.Set(flags.request())
			if missing := form.Validate(); len(missing) > 0 {
				msg := "missing required fields: " + strings.Join(missing, ", ")
				_ = f.Error(msg)
				return &ExitError{Code: ExitCommandError, Message: msg}
			}

			member, err := form.Submit(cmd.Context())
			if err != nil {
				return serverError(f, "failed to add member", err)
			}

			return f.Success(member, func(w io.Writer) {
				fmt.Fprintf(w, "Member added successfully! _id=%s\n", member.ID)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newEditCommand(opts *RootOptions) *cobra.Command {
	var flags memberFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a member's details; unset flags keep current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatterFor(opts, cmd)
			id := args[0]

			table := tracker.NewTable(opts.newAPI(opts.Server))
			if err := table.Refresh(cmd.Context()); err != nil {
				return serverError(f, "failed to load members", err)
			}
			if err := table.StartEdit(id); err != nil {
				_ = f.Error(err.Error())
				return WrapExitError(ExitFailure, "member not found", err)
			}

			draft := table.Row(id).Draft
			if cmd.Flags().Changed("member-id") {
				draft.MemberID = flags.memberID
			}
			if cmd.Flags().Changed("name") {
				draft.Name = flags.name
			}
			if cmd.Flags().Changed("phone") {
				draft.Phone = flags.phone
			}
			if cmd.Flags().Changed("email") {
				draft.Email = flags.email
			}
			if err := req.IsValid(draft); err != nil {
				msg := "missing required fields: " + strings.Join(req.InvalidFields(err), ", ")
				_ = f.Error(msg)
				return &ExitError{Code: ExitCommandError, Message: msg}
			}
			_ = table.SetDraft(id, draft)

			if err := table.SaveEdit(cmd.Context(), id); err != nil {
				return serverError(f, "failed to update member", err)
			}

			member, _ := findMember(table.Members(), id)
			return f.Success(member, func(w io.Writer) {
				fmt.Fprintln(w, "Member details updated!")
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newPayCommand(opts *RootOptions) *cobra.Command {
	var mark bool

	cmd := &cobra.Command{
		Use:   "pay <id> <month>",
		Short: "Toggle the paid flag of a month (use --mark to set it paid)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatterFor(opts, cmd)
			id, month := args[0], args[1]

			if !domain.IsValidMonth(month) {
				msg := fmt.Sprintf("unknown month %q: use one of %s", month, strings.Join(domain.Months[:], ", "))
				_ = f.Error(msg)
				return &ExitError{Code: ExitCommandError, Message: msg}
			}

			member, err := opts.newAPI(opts.Server).UpdatePayment(cmd.Context(), id, domain.PaymentRequest{
				Month:  month,
				Toggle: !mark,
			})
			if err != nil {
				return serverError(f, "failed to update payment", err)
			}

			return f.Success(member, func(w io.Writer) {
				state := "unpaid"
				if member.IsPaid(month) {
					state = "paid"
				}
				fmt.Fprintf(w, "Payment updated for %s: %s\n", month, state)
			})
		},
	}
	cmd.Flags().BoolVar(&mark, "mark", false, "mark as paid instead of toggling")
	return cmd
}

func newDeleteCommand(opts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a member after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatterFor(opts, cmd)
			id := args[0]

			table := tracker.NewTable(opts.newAPI(opts.Server))
			table.RequestDelete(id)

			if !yes && !confirm(opts.in, cmd.ErrOrStderr(), fmt.Sprintf("Delete member %s?", id)) {
				table.DismissDelete()
				return f.Success(map[string]bool{"deleted": false}, func(w io.Writer) {
					fmt.Fprintln(w, "Cancelled")
				})
			}

			if err := table.ConfirmDelete(cmd.Context()); err != nil {
				return serverError(f, "failed to delete member", err)
			}

			return f.Success(map[string]bool{"deleted": true}, func(w io.Writer) {
				fmt.Fprintln(w, "Member deleted successfully!")
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

// confirm спрашивает y/N
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func findMember(members []domain.Member, id string) (domain.Member, bool) {
	for _, m := range members {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Member{}, false
}
