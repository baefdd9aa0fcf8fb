package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Weekdays lists every key a WeeklySlots may hold
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// OpeningWeekdays are the days present in a freshly created schedule
var OpeningWeekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// WeekdayName maps a time.Weekday to its schedule key
func WeekdayName(d time.Weekday) string {
	return strings.ToLower(d.String())
}

// IsWeekday reports whether name is a valid schedule key
func IsWeekday(name string) bool {
	for _, d := range Weekdays {
		if d == name {
			return true
		}
	}
	return false
}

// DefaultSlotLabels returns the half-hour grid offered to admins:
// 09:00 to 17:30, lunch break at 13:00 and 13:30 excluded.
func DefaultSlotLabels() []string {
	labels := make([]string, 0, 16)
	for h := 9; h < 18; h++ {
		if h == 13 {
			continue
		}
		labels = append(labels, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return labels
}

// WeeklySlots maps a weekday key to the ordered slot labels offered that day
type WeeklySlots map[string][]string

// NewWeeklySkeleton returns an empty template for the opening weekdays
func NewWeeklySkeleton() WeeklySlots {
	w := make(WeeklySlots, len(OpeningWeekdays))
	for _, d := range OpeningWeekdays {
		w[d] = []string{}
	}
	return w
}

// Normalize validates keys and labels, then returns a copy with every
// day's labels de-duplicated and sorted.
func (w WeeklySlots) Normalize() (WeeklySlots, error) {
	out := make(WeeklySlots, len(w))
	for day, labels := range w {
		key := strings.ToLower(strings.TrimSpace(day))
		if !IsWeekday(key) {
			return nil, fmt.Errorf("unknown weekday %q", day)
		}
		seen := make(map[string]struct{}, len(labels))
		clean := make([]string, 0, len(labels))
		for _, label := range labels {
			if !IsValidSlotLabel(label) {
				return nil, fmt.Errorf("invalid slot label %q on %s", label, key)
			}
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			clean = append(clean, label)
		}
		// HH:MM labels sort chronologically
		sort.Strings(clean)
		out[key] = clean
	}
	return out, nil
}

// Merge returns a copy of w where every day present in update replaces the stored one
func (w WeeklySlots) Merge(update WeeklySlots) WeeklySlots {
	out := make(WeeklySlots, len(w)+len(update))
	for day, labels := range w {
		out[day] = append([]string(nil), labels...)
	}
	for day, labels := range update {
		out[day] = append([]string(nil), labels...)
	}
	return out
}

// SlotsOn returns the labels offered on the weekday of date
func (w WeeklySlots) SlotsOn(date time.Time) []string {
	return w[WeekdayName(date.Weekday())]
}

// Offers reports whether label is offered on the weekday of date
func (w WeeklySlots) Offers(date time.Time, label string) bool {
	for _, l := range w.SlotsOn(date) {
		if l == label {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer
func (w WeeklySlots) Value() (driver.Value, error) {
	normalized, err := w.Normalize()
	if err != nil {
		return nil, err
	}
	return json.Marshal(normalized)
}

// Scan implements sql.Scanner; stored data is validated before use
func (w *WeeklySlots) Scan(value interface{}) error {
	if value == nil {
		*w = WeeklySlots{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal weekly slots value: %v", value)
	}

	raw := WeeklySlots{}
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("invalid weekly slots: %w", err)
	}
	normalized, err := raw.Normalize()
	if err != nil {
		return fmt.Errorf("invalid weekly slots: %w", err)
	}
	*w = normalized
	return nil
}

// DoctorSchedule is the weekly slot template of one doctor
type DoctorSchedule struct {
	DoctorID  uuid.UUID   `gorm:"type:uuid;primaryKey" json:"doctor_id"`
	Slots     WeeklySlots `gorm:"type:jsonb;not null" json:"slots"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DoctorSchedule) TableName() string {
	return "doctor_schedules"
}
