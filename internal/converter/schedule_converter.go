package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
)

// ScheduleToResponse converts a DoctorSchedule entity to DoctorScheduleResponse DTO
func ScheduleToResponse(schedule *entity.DoctorSchedule) *dto.DoctorScheduleResponse {
	if schedule == nil {
		return nil
	}

	slots := make(map[string][]string, len(schedule.Slots))
	for day, labels := range schedule.Slots {
		slots[day] = append([]string{}, labels...)
	}

	return &dto.DoctorScheduleResponse{
		DoctorID:  schedule.DoctorID,
		Slots:     slots,
		UpdatedAt: schedule.UpdatedAt,
	}
}
