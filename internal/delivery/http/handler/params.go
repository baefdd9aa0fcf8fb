package handler

import (
	"net/http"
	"strconv"

	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// parseIDParam reads a uuid path variable
func parseIDParam(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// appointmentFilterFromQuery reads status, search, start_date and end_date
func appointmentFilterFromQuery(r *http.Request) entity.AppointmentFilter {
	query := r.URL.Query()
	return entity.AppointmentFilter{
		Status:    entity.AppointmentStatus(query.Get("status")),
		Search:    query.Get("search"),
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
	}
}
