package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"clinic-booking/internal/domain/entity"

	"github.com/tealeg/xlsx"
)

type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// IsValid reports whether f is a supported export format
func (f ExportFormat) IsValid() bool {
	return f == ExportFormatCSV || f == ExportFormatXLSX
}

// ContentType returns the MIME type of the exported file
func (f ExportFormat) ContentType() string {
	if f == ExportFormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

const exportSheetName = "Appuntamenti"

// ExportHeaders are the column titles of an appointment export
var ExportHeaders = []string{
	"Data",
	"Ora",
	"Paziente",
	"Codice Fiscale",
	"Email",
	"Telefono",
	"Dottore",
	"Specializzazione",
	"Stato",
	"Note",
}

type ExportService interface {
	Write(w io.Writer, format ExportFormat, appointments []entity.Appointment) error
	FileName(format ExportFormat, at time.Time) string
}

type exportService struct{}

func NewExportService() ExportService {
	return &exportService{}
}

// FileName returns appuntamenti_dd_MM_yyyy with the format's extension
func (s *exportService) FileName(format ExportFormat, at time.Time) string {
	return fmt.Sprintf("appuntamenti_%s.%s", at.Format("02_01_2006"), format)
}

func (s *exportService) Write(w io.Writer, format ExportFormat, appointments []entity.Appointment) error {
	switch format {
	case ExportFormatCSV:
		return s.writeCSV(w, appointments)
	case ExportFormatXLSX:
		return s.writeXLSX(w, appointments)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func (s *exportService) writeCSV(w io.Writer, appointments []entity.Appointment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeaders); err != nil {
		return err
	}
	for i := range appointments {
		if err := cw.Write(exportRow(&appointments[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *exportService) writeXLSX(w io.Writer, appointments []entity.Appointment) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(exportSheetName)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	addRow(sheet, ExportHeaders)
	for i := range appointments {
		addRow(sheet, exportRow(&appointments[i]))
	}

	return file.Write(w)
}

func addRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func exportRow(a *entity.Appointment) []string {
	var patientName, fiscalCode, email, phone string
	if a.Patient != nil {
		patientName = a.Patient.FullName()
		email = a.Patient.Email
		if a.Patient.PatientProfile != nil {
			fiscalCode = a.Patient.PatientProfile.FiscalCode
			phone = a.Patient.PatientProfile.PhoneNumber
		}
	}

	return []string{
		formatExportDate(a.Date),
		a.Time,
		patientName,
		fiscalCode,
		email,
		phone,
		a.DoctorName,
		a.Specialization,
		string(a.Status),
		a.Notes,
	}
}

// formatExportDate turns 2025-06-10 into 10/06/2025; unparseable dates pass through
func formatExportDate(date string) string {
	t, err := time.Parse(entity.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}
