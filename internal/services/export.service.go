package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"turnovers/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	ExportFileName   = "rentals.csv"
	ExportFilePrefix = "rentals-"
	ExportFileSuffix = ".csv"
	extrasSeparator  = "; "
)

var ExportHeader = []string{
	"Property",
	"Check-in",
	"Check-in Time",
	"Check-out",
	"Check-out Time",
	"Cleaning Hours",
	"Extras",
	"Worker",
	"Completed",
}

type ExportService struct {
	log logger.Logger
}

func NewExportService() *ExportService {
	return &ExportService{
		log: logger.New("exportService"),
	}
}

// WriteCSV writes the header and one row per turnover, rows separated by a
// single newline with none after the last row. The extras column is always
// quoted so spreadsheet tools keep the joined list in one cell.
func (s *ExportService) WriteCSV(w io.Writer, turnovers []*models.Turnover) error {
	log := s.log.Function("WriteCSV")

	lines := make([]string, 0, len(turnovers)+1)
	lines = append(lines, strings.Join(ExportHeader, ","))

	for _, turnover := range turnovers {
		lines = append(lines, exportRow(turnover))
	}

	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return log.Err("failed to write csv export", err, "rows", len(turnovers))
	}

	return nil
}

func (s *ExportService) BuildCSV(turnovers []*models.Turnover) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.WriteCSV(&buf, turnovers); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile stores a dated export in dir and returns its path.
func (s *ExportService) WriteFile(
	ctx context.Context,
	dir string,
	date string,
	turnovers []*models.Turnover,
) (string, error) {
	log := s.log.Function("WriteFile")

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", log.Err("failed to create export directory", err, "directory", dir)
	}

	path := filepath.Join(dir, DatedExportFileName(date))
	file, err := os.Create(path)
	if err != nil {
		return "", log.Err("failed to create export file", err, "path", path)
	}

	if err := s.WriteCSV(file, turnovers); err != nil {
		_ = file.Close()
		return "", err
	}

	if err := file.Close(); err != nil {
		return "", log.Err("failed to close export file", err, "path", path)
	}

	log.Info("Export written", "path", path, "rows", len(turnovers))
	return path, nil
}

func DatedExportFileName(date string) string {
	return fmt.Sprintf("%s%s%s", ExportFilePrefix, date, ExportFileSuffix)
}

func exportRow(turnover *models.Turnover) string {
	fields := []string{
		csvField(turnover.Property),
		csvField(turnover.CheckIn),
		csvField(turnover.CheckInTime),
		csvField(turnover.CheckOut),
		csvField(turnover.CheckOutTime),
		turnover.CleaningHours.String(),
		quoteField(strings.Join(turnover.Extras, extrasSeparator)),
		csvField(turnover.WorkerName()),
		fmt.Sprintf("%t", turnover.Completed),
	}
	return strings.Join(fields, ",")
}

func csvField(value string) string {
	if strings.ContainsAny(value, ",\"\r\n") {
		return quoteField(value)
	}
	return value
}

func quoteField(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
