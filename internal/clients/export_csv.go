package clients

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/kumbu-pos/kumbu-pos/internal/domain"
)

// csvHeader is the fixed header row of the client export.
var csvHeader = []string{"ID", "Nome", "Telefone", "Cidade", "Valor Pendente"}

// WriteCSV emits the client list as semicolon-delimited rows. Free-text
// fields are trusted input; only field separation is applied.
func WriteCSV(w io.Writer, list []domain.Client) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range list {
		row := []string{c.ID, c.Name, c.Phone, c.City, fmt.Sprintf("%.2f", c.PendingAmount)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
