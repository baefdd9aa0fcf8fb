package entity

import "github.com/google/uuid"

// AppointmentFilter is a domain-level filter for querying appointments.
// Used by repository layer to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	Status    AppointmentStatus // exact match, empty means any
	Search    string            // patient name, doctor name or specialization (ILIKE)
	StartDate string            // Format: YYYY-MM-DD, inclusive
	EndDate   string            // Format: YYYY-MM-DD, inclusive
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
}

// PatientFilter narrows the admin patient list
type PatientFilter struct {
	Search string // name, email or fiscal code (ILIKE)
}
