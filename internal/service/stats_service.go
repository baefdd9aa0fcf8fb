package service

import (
	"sort"
	"time"

	"clinic-booking/internal/domain/entity"

	"github.com/goodsign/monday"
	"github.com/shopspring/decimal"
)

// MonthStats aggregates the appointments of one calendar month
type MonthStats struct {
	Month     string          `json:"month"`
	Total     int             `json:"total"`
	Completed int             `json:"completed"`
	Cancelled int             `json:"cancelled"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// DoctorStats aggregates the appointments of one doctor
type DoctorStats struct {
	DoctorName string `json:"doctor_name"`
	Total      int    `json:"total"`
	Completed  int    `json:"completed"`
	Cancelled  int    `json:"cancelled"`
}

type AppointmentStats struct {
	Total          int           `json:"total"`
	Completed      int           `json:"completed"`
	Cancelled      int           `json:"cancelled"`
	Scheduled      int           `json:"scheduled"`
	CompletionRate float64       `json:"completion_rate"`
	ByMonth        []MonthStats  `json:"by_month"`
	ByDoctor       []DoctorStats `json:"by_doctor"`
}

// MonthLabel renders the Italian month label used in statistics, e.g. "giugno 2025"
func MonthLabel(t time.Time) string {
	return monday.Format(t, "January 2006", monday.LocaleItIT)
}

// ComputeAppointmentStats counts appointments by status, month and doctor.
// Every completed appointment earns revenuePerVisit. Months are returned
// chronologically and doctors by name.
func ComputeAppointmentStats(appointments []entity.Appointment, revenuePerVisit decimal.Decimal) *AppointmentStats {
	stats := &AppointmentStats{
		Total:    len(appointments),
		ByMonth:  []MonthStats{},
		ByDoctor: []DoctorStats{},
	}

	type monthKey struct {
		year  int
		month time.Month
	}
	months := make(map[monthKey]*MonthStats)
	doctors := make(map[string]*DoctorStats)

	for i := range appointments {
		a := &appointments[i]
		switch a.Status {
		case entity.AppointmentStatusCompleted:
			stats.Completed++
		case entity.AppointmentStatusCancelled:
			stats.Cancelled++
		case entity.AppointmentStatusScheduled:
			stats.Scheduled++
		}

		if d, err := time.Parse(entity.DateLayout, a.Date); err == nil {
			key := monthKey{year: d.Year(), month: d.Month()}
			m, ok := months[key]
			if !ok {
				m = &MonthStats{Month: MonthLabel(d), Revenue: decimal.Zero}
				months[key] = m
			}
			m.Total++
			switch a.Status {
			case entity.AppointmentStatusCompleted:
				m.Completed++
				m.Revenue = m.Revenue.Add(revenuePerVisit)
			case entity.AppointmentStatusCancelled:
				m.Cancelled++
			}
		}

		doc, ok := doctors[a.DoctorName]
		if !ok {
			doc = &DoctorStats{DoctorName: a.DoctorName}
			doctors[a.DoctorName] = doc
		}
		doc.Total++
		switch a.Status {
		case entity.AppointmentStatusCompleted:
			doc.Completed++
		case entity.AppointmentStatusCancelled:
			doc.Cancelled++
		}
	}

	if stats.Total > 0 {
		rate := float64(stats.Completed) / float64(stats.Total) * 100
		stats.CompletionRate = float64(int(rate*100+0.5)) / 100
	}

	keys := make([]monthKey, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})
	for _, k := range keys {
		stats.ByMonth = append(stats.ByMonth, *months[k])
	}

	for _, d := range doctors {
		stats.ByDoctor = append(stats.ByDoctor, *d)
	}
	sort.Slice(stats.ByDoctor, func(i, j int) bool {
		return stats.ByDoctor[i].DoctorName < stats.ByDoctor[j].DoctorName
	})

	return stats
}
