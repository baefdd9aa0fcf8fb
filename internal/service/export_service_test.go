package service_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func sampleAppointments() []entity.Appointment {
	patient := &entity.User{
		FirstName: "Mario",
		LastName:  "Rossi",
		Email:     "mario.rossi@example.com",
		PatientProfile: &entity.PatientProfile{
			FiscalCode:  "RSSMRA80A01H501U",
			PhoneNumber: "+39 333 1234567",
		},
	}
	return []entity.Appointment{
		{Date: "2025-06-10", Time: "09:00", DoctorName: "Laura Bianchi", Specialization: "Cardiologia", Status: entity.AppointmentStatusScheduled, Patient: patient},
		{Date: "2025-06-11", Time: "10:30", DoctorName: "Laura Bianchi", Specialization: "Cardiologia", Status: entity.AppointmentStatusCompleted, Patient: patient, Notes: "controllo, annuale"},
		{Date: "2025-07-01", Time: "15:00", DoctorName: "Paolo Verdi", Specialization: "Dermatologia", Status: entity.AppointmentStatusCancelled, Patient: patient},
	}
}

func TestExportService_WriteCSV(t *testing.T) {
	svc := service.NewExportService()
	var buf bytes.Buffer

	err := svc.Write(&buf, service.ExportFormatCSV, sampleAppointments())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 4)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, service.ExportHeaders, records[0])
	assert.Equal(t, []string{
		"10/06/2025", "09:00", "Mario Rossi", "RSSMRA80A01H501U", "mario.rossi@example.com",
		"+39 333 1234567", "Laura Bianchi", "Cardiologia", "scheduled", "",
	}, records[1])
	assert.Equal(t, "completed", records[2][8])
	assert.Equal(t, "controllo, annuale", records[2][9])
	assert.Equal(t, "cancelled", records[3][8])
}

func TestExportService_WriteCSV_MissingPatient(t *testing.T) {
	svc := service.NewExportService()
	var buf bytes.Buffer

	err := svc.Write(&buf, service.ExportFormatCSV, []entity.Appointment{
		{Date: "2025-06-10", Time: "09:00", DoctorName: "Laura Bianchi", Status: entity.AppointmentStatusScheduled},
	})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "", records[1][2])
}

func TestExportService_WriteXLSX(t *testing.T) {
	svc := service.NewExportService()
	var buf bytes.Buffer

	err := svc.Write(&buf, service.ExportFormatXLSX, sampleAppointments())
	require.NoError(t, err)

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	sheet, ok := file.Sheet["Appuntamenti"]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 4)
	assert.Equal(t, "Data", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "10/06/2025", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "cancelled", sheet.Rows[3].Cells[8].String())
}

func TestExportService_FileName(t *testing.T) {
	svc := service.NewExportService()
	at := time.Date(2025, 6, 9, 18, 0, 0, 0, time.UTC)

	assert.Equal(t, "appuntamenti_09_06_2025.csv", svc.FileName(service.ExportFormatCSV, at))
	assert.Equal(t, "appuntamenti_09_06_2025.xlsx", svc.FileName(service.ExportFormatXLSX, at))
}

func TestExportService_UnknownFormat(t *testing.T) {
	svc := service.NewExportService()
	assert.Error(t, svc.Write(&bytes.Buffer{}, service.ExportFormat("pdf"), nil))
	assert.False(t, service.ExportFormat("pdf").IsValid())
}
