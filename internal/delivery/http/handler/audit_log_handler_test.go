package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/delivery/http/handler"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/usecase"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuditLogHandler_GetAllAuditLogs_ForwardsFilter(t *testing.T) {
	mockUsecase := new(mockAuditLogUsecase)
	h := handler.NewAuditLogHandler(mockUsecase)
	userID := uuid.New()
	appointmentID := uuid.NewString()

	want := entity.AuditLogFilter{
		Action:     "appointment.",
		UserID:     &userID,
		EntityName: "appointment",
		EntityID:   appointmentID,
	}
	mockUsecase.On("GetAllAuditLogs", mock.Anything, want, 2, 20).
		Return(&dto.AuditLogListResponse{Logs: []dto.AuditLogResponse{}, Total: 21}, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/admin/audit-logs?action=appointment.&entity=appointment&entity_id="+appointmentID+"&user_id="+userID.String()+"&page=2&limit=20", nil)
	w := httptest.NewRecorder()
	h.GetAllAuditLogs(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUsecase.AssertExpectations(t)
}

func TestAuditLogHandler_GetAllAuditLogs_BadUserID(t *testing.T) {
	mockUsecase := new(mockAuditLogUsecase)
	h := handler.NewAuditLogHandler(mockUsecase)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/audit-logs?user_id=nope", nil)
	w := httptest.NewRecorder()
	h.GetAllAuditLogs(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUsecase.AssertNotCalled(t, "GetAllAuditLogs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuditLogHandler_GetAuditLog(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		err    error
		status int
	}{
		{"found", "7", nil, http.StatusOK},
		{"missing", "8", usecase.ErrAuditLogNotFound, http.StatusNotFound},
		{"bad id", "x", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsecase := new(mockAuditLogUsecase)
			h := handler.NewAuditLogHandler(mockUsecase)
			if tt.err != nil {
				mockUsecase.On("GetAuditLog", mock.Anything, mock.Anything).Return(nil, tt.err)
			} else {
				mockUsecase.On("GetAuditLog", mock.Anything, int64(7)).Return(&dto.AuditLogResponse{ID: 7}, nil)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/audit-logs/"+tt.id, nil)
			req = mux.SetURLVars(req, map[string]string{"id": tt.id})
			w := httptest.NewRecorder()
			h.GetAuditLog(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
