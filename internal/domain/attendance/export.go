package attendance

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	exportSheet = "Attendance"
)

var ExportFormats = []string{FormatCSV, FormatXLSX}

var exportHeader = []string{"id", "employee_id", "employee_name", "date", "status", "check_in_time", "check_out_time", "notes"}

// ContentType returns the MIME type for an export format.
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Export writes every record matching filter in the requested format.
func (s *Service) Export(ctx context.Context, filter Filter, format string, w io.Writer) error {
	records, err := s.Store.List(ctx, filter, 0, 0)
	if err != nil {
		return fmt.Errorf("load attendance for export: %w", err)
	}
	switch format {
	case FormatXLSX:
		return writeXLSX(w, records)
	case FormatCSV, "":
		return writeCSV(w, records)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func exportRow(rec Record) []string {
	return []string{
		rec.ID,
		rec.EmployeeID,
		rec.EmployeeName,
		rec.Date.Format("2006-01-02"),
		rec.Status,
		deref(rec.CheckInTime),
		deref(rec.CheckOutTime),
		rec.Notes,
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func writeCSV(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for _, rec := range records {
		if err := writer.Write(exportRow(rec)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeXLSX(w io.Writer, records []Record) error {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	if err := file.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	header := make([]any, len(exportHeader))
	for i, name := range exportHeader {
		header[i] = name
	}
	if err := file.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return err
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := exportRow(rec)
		row := make([]any, len(values))
		for j, value := range values {
			row[j] = value
		}
		if err := file.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}
	_, err := file.WriteTo(w)
	return err
}
