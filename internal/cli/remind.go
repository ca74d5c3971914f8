package cli

import (
	"fmt"
	"io"

	"github.com/Dhoini/gym-fee-tracker/internal/tracker"
	"github.com/spf13/cobra"
)

func newRemindCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Send fee reminders for the current month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatterFor(opts, cmd)

			table := tracker.NewTable(opts.newAPI(opts.Server))
			sent, err := table.SendReminders(cmd.Context())
			if err != nil {
				return serverError(f, "failed to send reminders", err)
			}

			return f.Success(map[string]int{"sent": sent}, func(w io.Writer) {
				fmt.Fprintf(w, "Reminders sent successfully! (%d)\n", sent)
			})
		},
	}
}
