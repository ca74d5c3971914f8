package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/Dhoini/gym-fee-tracker/internal/report"
	"github.com/Dhoini/gym-fee-tracker/internal/tracker"
	"github.com/spf13/cobra"
)

func newExportCommand(opts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the payment report as CSV",
		Long: `Export one CSV row per member: member code, contacts and
Paid/Unpaid for each month. Use -o - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatterFor(opts, cmd)

			table := tracker.NewTable(opts.newAPI(opts.Server))
			if err := table.Refresh(cmd.Context()); err != nil {
				return serverError(f, "failed to load members", err)
			}
			members := table.Members()

			var buf bytes.Buffer
			if err := report.WriteCSV(&buf, members); err != nil {
				return WrapExitError(ExitFailure, "failed to build report", err)
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}

			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				_ = f.Error(err.Error())
				return WrapExitError(ExitCommandError, "failed to write report", err)
			}

			return f.Success(map[string]any{"file": output, "members": len(members)}, func(w io.Writer) {
				fmt.Fprintf(w, "CSV exported successfully! %d members written to %s\n", len(members), output)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", report.DefaultFileName, "output file, - for stdout")
	return cmd
}
