package export

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imobi/server/internal/models"
)

func render(t *testing.T, list []models.Property) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, list))
	return buf.String()
}

func TestWriteCSVStartsWithBOM(t *testing.T) {
	out := render(t, nil)
	assert.True(t, strings.HasPrefix(out, "\uFEFF"))
}

func TestWriteCSVHeader(t *testing.T) {
	out := render(t, nil)
	assert.Equal(t,
		"Código;Endereço;Bairro;Tipo;Valor;Descrição;Observação;Status;Ficha;Captador;Data Atualização",
		strings.TrimPrefix(out, "\uFEFF"))
}

func TestWriteCSVRow(t *testing.T) {
	updated := time.Date(2026, 3, 15, 14, 30, 0, 0, time.Local).UnixMilli()
	list := []models.Property{{
		Code:         "A1",
		Address:      "Rua das Flores, 10",
		Neighborhood: "Centro",
		Type:         models.TypeHouse,
		Value:        1500.5,
		Description:  "Casa ampla",
		Note:         "chaves na portaria",
		Status:       models.StatusAvailable,
		FormStatus:   models.FormApproved,
		CollectedBy:  "Maria",
		LastUpdated:  updated,
	}}

	out := render(t, list)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)

	assert.Equal(t,
		`A1;Rua das Flores, 10;Centro;Casa;1.500,5;"Casa ampla";"chaves na portaria";Disponível;Aprovada;Maria;15/03/2026`,
		lines[1])
}

func TestWriteCSVDoublesInternalQuotes(t *testing.T) {
	list := []models.Property{{
		Code:        "A1",
		Description: `sala com "mezanino"`,
		Status:      models.StatusAvailable,
	}}

	out := render(t, list)
	assert.Contains(t, out, `"sala com ""mezanino"""`)
}

func TestWriteCSVFormStatusFallback(t *testing.T) {
	list := []models.Property{{Code: "A1", Status: models.StatusAvailable}}

	out := render(t, list)
	assert.Contains(t, out, string(models.FormNone))
}

func TestValueUsesDecimalComma(t *testing.T) {
	list := []models.Property{{Code: "A1", Value: 980.75, Status: models.StatusAvailable}}

	out := render(t, list)
	assert.Contains(t, out, ";980,75;")
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "varp_imoveis_2026-09-01.csv", Filename(now))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	path, err := WriteFile(dir, []models.Property{{Code: "A1", Status: models.StatusAvailable}}, now)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "varp_imoveis_2026-09-01.csv"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\uFEFF"))
	assert.Contains(t, string(data), "A1")
}
