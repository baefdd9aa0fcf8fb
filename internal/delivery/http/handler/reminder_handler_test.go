package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/delivery/http/handler"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type callableBody struct {
	Success bool              `json:"success"`
	Error   dto.CallableError `json:"error"`
}

func TestReminderHandler_ScheduleReminder(t *testing.T) {
	appointmentID := uuid.New()
	body := func(id string) *bytes.Buffer {
		return bytes.NewBufferString(`{"appointmentId":"` + id + `"}`)
	}

	t.Run("success", func(t *testing.T) {
		mockUsecase := new(mockReminderUsecase)
		h := handler.NewReminderHandler(mockUsecase, validator.NewValidator(), quietLogger())
		mockUsecase.On("ScheduleReminder", mock.Anything, appointmentID).Return(&dto.ScheduleReminderResponse{Success: true}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/reminders/schedule", body(appointmentID.String()))
		w := httptest.NewRecorder()
		h.ScheduleReminder(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.ScheduleReminderResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.True(t, resp.Success)
	})

	t.Run("missing appointment id", func(t *testing.T) {
		mockUsecase := new(mockReminderUsecase)
		h := handler.NewReminderHandler(mockUsecase, validator.NewValidator(), quietLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/reminders/schedule", bytes.NewBufferString(`{}`))
		w := httptest.NewRecorder()
		h.ScheduleReminder(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp callableBody
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, handler.CodeInvalidArgument, resp.Error.Code)
		mockUsecase.AssertNotCalled(t, "ScheduleReminder", mock.Anything, mock.Anything)
	})

	errorCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthenticated", usecase.ErrUnauthenticated, http.StatusUnauthorized, handler.CodeUnauthenticated},
		{"appointment not found", usecase.ErrAppointmentNotFound, http.StatusNotFound, handler.CodeNotFound},
		{"patient not found", usecase.ErrPatientNotFound, http.StatusNotFound, handler.CodeNotFound},
		{"permission denied", usecase.ErrPermissionDenied, http.StatusForbidden, handler.CodePermissionDenied},
		{"internal", errors.New("db down"), http.StatusInternalServerError, handler.CodeInternal},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			mockUsecase := new(mockReminderUsecase)
			h := handler.NewReminderHandler(mockUsecase, validator.NewValidator(), quietLogger())
			mockUsecase.On("ScheduleReminder", mock.Anything, appointmentID).Return(nil, tc.err)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/reminders/schedule", body(appointmentID.String()))
			w := httptest.NewRecorder()
			h.ScheduleReminder(w, req)

			assert.Equal(t, tc.status, w.Code)
			var resp callableBody
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tc.code, resp.Error.Code)
		})
	}
}
