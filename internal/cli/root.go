package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Dhoini/gym-fee-tracker/internal/client"
	"github.com/spf13/cobra"
)

// RootOptions глобальные флаги всех команд
type RootOptions struct {
	Server  string
	Format  string // "json" | "text"
	Verbose bool

	// newAPI подменяется в тестах
	newAPI func(server string) API
	// in источник подтверждений для delete
	in io.Reader
}

// ValidFormats допустимые форматы вывода
var ValidFormats = []string{"text", "json"}

// NewRootCommand создает корневую команду gymctl
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	if opts.newAPI == nil {
		opts.newAPI = func(server string) API { return client.New(server) }
	}
	if opts.in == nil {
		opts.in = os.Stdin
	}

	defaultServer := os.Getenv("GYM_SERVER")
	if defaultServer == "" {
		defaultServer = client.DefaultBaseURL
	}

	cmd := &cobra.Command{
		Use:   "gymctl",
		Short: "Gym fee tracker client",
		Long:  "Manage gym members and their monthly fee payments from the command line.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true, // ошибки команд уже выведены форматтером
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", defaultServer, "API server base URL")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newShowCommand(opts))
	cmd.AddCommand(newAddCommand(opts))
	cmd.AddCommand(newEditCommand(opts))
	cmd.AddCommand(newPayCommand(opts))
	cmd.AddCommand(newDeleteCommand(opts))
	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newRemindCommand(opts))

	return cmd
}

// Reported сообщает, была ли ошибка уже выведена командой
func Reported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr)
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func formatterFor(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
