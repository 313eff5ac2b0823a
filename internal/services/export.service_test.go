package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"turnovers/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exportHeaderLine = "Property,Check-in,Check-in Time,Check-out,Check-out Time,Cleaning Hours,Extras,Worker,Completed"

func sampleTurnovers() []*models.Turnover {
	worker := "Nicole"
	return []*models.Turnover{
		{
			Property:      "La perla A4",
			CheckIn:       "2026-10-19",
			CheckInTime:   "16:00",
			CheckOut:      "2026-10-23",
			CheckOutTime:  "11:00",
			CleaningHours: decimal.RequireFromString("2.5"),
			Extras:        []string{"Agua", "Vino"},
			Worker:        &worker,
		},
		{
			Property:      "Marbella",
			CheckIn:       "2026-10-20",
			CleaningHours: decimal.RequireFromString("3.0"),
			Extras:        []string{},
			Completed:     true,
		},
	}
}

func TestExportService_BuildCSV(t *testing.T) {
	service := NewExportService()

	data, err := service.BuildCSV(sampleTurnovers())
	require.NoError(t, err)

	expected := exportHeaderLine + "\n" +
		`La perla A4,2026-10-19,16:00,2026-10-23,11:00,2.5,"Agua; Vino",Nicole,false` + "\n" +
		`Marbella,2026-10-20,,,,3,"",,true`

	assert.Equal(t, expected, string(data))
}

func TestExportService_RowCountIsRecordsPlusHeader(t *testing.T) {
	service := NewExportService()

	for _, count := range []int{0, 1, 7} {
		turnovers := make([]*models.Turnover, count)
		for i := range turnovers {
			turnovers[i] = &models.Turnover{Property: "Benjamin", Extras: []string{"Papel"}}
		}

		data, err := service.BuildCSV(turnovers)
		require.NoError(t, err)

		lines := strings.Split(string(data), "\n")
		assert.Len(t, lines, count+1)
		assert.Equal(t, exportHeaderLine, lines[0])
	}
}

func TestExportService_QuotesSpecialCharacters(t *testing.T) {
	service := NewExportService()

	data, err := service.BuildCSV([]*models.Turnover{
		{Property: `Casa "Sol", bajo`, Extras: []string{"Agua"}},
	})
	require.NoError(t, err)

	lines := strings.Split(string(data), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"Casa ""Sol"", bajo",,,,,0,"Agua",,false`, lines[1])
}

func TestExportService_WriteFile(t *testing.T) {
	service := NewExportService()
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := service.WriteFile(context.Background(), dir, "2026-10-19", sampleTurnovers())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rentals-2026-10-19.csv"), path)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(contents), exportHeaderLine+"\n"))
}

func TestExportService_WriteFile_CancelledContext(t *testing.T) {
	service := NewExportService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path, err := service.WriteFile(ctx, t.TempDir(), "2026-10-19", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, path)
}

func TestDatedExportFileName(t *testing.T) {
	assert.Equal(t, "rentals-2026-10-19.csv", DatedExportFileName("2026-10-19"))
}
