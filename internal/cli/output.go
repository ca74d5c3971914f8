package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Dhoini/gym-fee-tracker/internal/domain"
)

// Коды выхода
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // сервер ответил ошибкой
	ExitCommandError = 2 // неверные аргументы или сервер недоступен
)

// ExitError ошибка с кодом выхода
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError оборачивает ошибку с кодом выхода
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode извлекает код выхода; по умолчанию ExitFailure
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter вывод в текстовом или JSON виде
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// CLIResponse JSON-ответ команды
type CLIResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// JSON сообщает, выбран ли JSON-вывод
func (f *OutputFormatter) JSON() bool {
	return f.Format == "json"
}

// Success выводит результат; в текстовом режиме вызывается text
func (f *OutputFormatter) Success(data interface{}, text func(w io.Writer)) error {
	if f.JSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	text(f.Writer)
	return nil
}

// Error выводит ошибку в выбранном формате
func (f *OutputFormatter) Error(message string) error {
	if f.JSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "error", Error: message})
	}
	_, err := fmt.Fprintf(f.ErrWriter, "Error: %s\n", message)
	return err
}

// VerboseLog пишет диагностику только при --verbose
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.ErrWriter, format+"\n", args...)
}

func monthMark(m domain.Member, month string) string {
	if m.IsPaid(month) {
		return "x"
	}
	return "."
}

// writeMemberTable печатает участников с отметками по месяцам
func writeMemberTable(w io.Writer, members []domain.Member) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := []string{"_ID", "ID", "NAME", "PHONE", "EMAIL"}
	for _, month := range domain.Months {
		header = append(header, month[:3])
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, m := range members {
		row := []string{m.ID, m.MemberID, m.Name, m.Phone, m.Email}
		for _, month := range domain.Months {
			row = append(row, monthMark(m, month))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// writeMemberDetails печатает одного участника с датами оплаты
func writeMemberDetails(w io.Writer, m domain.Member) {
	fmt.Fprintf(w, "_id:      %s\n", m.ID)
	fmt.Fprintf(w, "memberId: %s\n", m.MemberID)
	fmt.Fprintf(w, "name:     %s\n", m.Name)
	fmt.Fprintf(w, "phone:    %s\n", m.Phone)
	fmt.Fprintf(w, "email:    %s\n", m.Email)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, p := range m.Payments {
		status, date := "unpaid", ""
		if p.Paid {
			status = "paid"
		}
		if p.Date != nil {
			date = p.Date.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", p.Month, status, date)
	}
	tw.Flush()
}
