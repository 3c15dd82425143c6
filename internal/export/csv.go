// Package export renders property lists as the semicolon-delimited CSV
// the leasing team imports into their spreadsheets.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"imobi/server/internal/models"
)

// bom is the UTF-8 byte-order mark spreadsheet tools expect at the start
// of the file.
const bom = "\uFEFF"

var headers = []string{
	"Código", "Endereço", "Bairro", "Tipo", "Valor", "Descrição",
	"Observação", "Status", "Ficha", "Captador", "Data Atualização",
}

// pt formats numbers the Brazilian way: comma decimals, dot grouping.
var pt = message.NewPrinter(language.BrazilianPortuguese)

// WriteCSV writes the list to w, one row per property, fields separated
// by semicolons. Description and note are quoted with internal quotes
// doubled; the other fields are written as-is.
func WriteCSV(w io.Writer, list []models.Property) error {
	var sb strings.Builder
	sb.WriteString(bom)
	sb.WriteString(strings.Join(headers, ";"))

	for _, p := range list {
		formStatus := p.FormStatus
		if formStatus == "" {
			formStatus = models.FormNone
		}

		row := []string{
			p.Code,
			p.Address,
			p.Neighborhood,
			string(p.Type),
			formatValue(p.Value),
			quote(p.Description),
			quote(p.Note),
			string(p.Status),
			string(formStatus),
			p.CollectedBy,
			formatDate(p.LastUpdated),
		}
		sb.WriteByte('\n')
		sb.WriteString(strings.Join(row, ";"))
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// WriteFile writes the export into dir under the dated default filename
// and returns the full path.
func WriteFile(dir string, list []models.Property, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, Filename(now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, list); err != nil {
		return "", err
	}
	return path, nil
}

// Filename returns the dated export file name.
func Filename(now time.Time) string {
	return fmt.Sprintf("varp_imoveis_%s.csv", now.Format("2006-01-02"))
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatValue(v float64) string {
	return pt.Sprintf("%v", number.Decimal(v))
}

func formatDate(millis int64) string {
	return time.UnixMilli(millis).Format("02/01/2006")
}
