// Package report выгрузка отчета об оплатах.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Dhoini/gym-fee-tracker/internal/domain"
)

// DefaultFileName имя файла отчета по умолчанию
const DefaultFileName = "gym-members-report.csv"

// Header заголовок отчета: код участника, контакты и 12 месяцев
func Header() []string {
	header := []string{"ID", "Name", "Phone", "Email"}
	return append(header, domain.Months[:]...)
}

// WriteCSV пишет по строке на участника, ячейки месяцев Paid/Unpaid
func WriteCSV(w io.Writer, members []domain.Member) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, m := range members {
		row := []string{m.MemberID, m.Name, m.Phone, m.Email}
		for _, month := range domain.Months {
			status := "Unpaid"
			if m.IsPaid(month) {
				status = "Paid"
			}
			row = append(row, status)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write member %s: %w", m.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
