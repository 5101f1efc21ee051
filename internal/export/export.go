// Package export flattens reports into one row per reported item and writes
// them as a spreadsheet or CSV file.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/entity"

	"github.com/xuri/excelize/v2"
)

var ErrEmptyExport = errors.New("nothing to export")

const (
	SheetName      = "HISTORICO"
	FormatXLSX     = "xlsx"
	FormatCSV      = "csv"
	filenamePrefix = "LOG_CHMH_"
)

// Header is the column order of every export.
var Header = []string{"FECHA", "SERVICIO", "MÉDICO", "CLAVE", "DESCRIPCIÓN", "PRESENTACIÓN", "CATEGORÍA"}

type Row struct {
	Date         string
	Service      string
	Physician    string
	Code         string
	Description  string
	Presentation string
	Category     string
}

func (r Row) Values() []string {
	return []string{r.Date, r.Service, r.Physician, r.Code, r.Description, r.Presentation, r.Category}
}

// Project returns one row per (report, item) pair in input order.
func Project(reports []entity.Report) []Row {
	rows := make([]Row, 0, len(reports))
	for _, report := range reports {
		for _, item := range report.Items {
			rows = append(rows, Row{
				Date:         report.Date,
				Service:      report.Service,
				Physician:    report.PhysicianName,
				Code:         item.Code,
				Description:  item.Description,
				Presentation: item.Presentation,
				Category:     string(item.Category),
			})
		}
	}
	return rows
}

// Filename returns LOG_CHMH_<yyyy-mm-dd>.<ext> for the day of now.
func Filename(now time.Time, ext string) string {
	return fmt.Sprintf("%s%s.%s", filenamePrefix, now.Format("2006-01-02"), ext)
}

func ContentType(format string) string {
	if format == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Write dispatches on format. Unknown formats are rejected.
func Write(w io.Writer, format string, rows []Row) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, rows)
	case FormatCSV:
		return WriteCSV(w, rows)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

func WriteXLSX(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		return ErrEmptyExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row.Values()
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "C", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "E", "F", 40); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func WriteCSV(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		return ErrEmptyExport
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row.Values()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
