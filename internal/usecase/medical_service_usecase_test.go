package usecase

import (
	"encoding/json"
	"testing"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMedicalServiceUsecase() (*medicalServiceUsecase, *mockMedicalServiceRepository, *mockAuditService) {
	repo := new(mockMedicalServiceRepository)
	audit := new(mockAuditService)
	return &medicalServiceUsecase{
		log:          newTestLogger(),
		serviceRepo:  repo,
		auditService: audit,
	}, repo, audit
}

func TestMedicalService_CreateKeepsDecimalPrice(t *testing.T) {
	uc, repo, audit := newMedicalServiceUsecase()
	adminID := uuid.New()

	var req dto.CreateMedicalServiceRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"title": "Visita cardiologica",
		"description": "Visita specialistica con ECG",
		"duration": "45 min",
		"price_from": "120.50"
	}`), &req))

	var stored *entity.MedicalService
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.MedicalService")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*entity.MedicalService) }).
		Return(nil)
	audit.On("LogEvent", mock.Anything, &adminID, entity.AuditActionServiceCreate, mock.Anything).Return(nil)

	resp, err := uc.Create(adminCtx(adminID), &req)

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.PriceFrom.Equal(decimal.RequireFromString("120.5")))
	assert.True(t, resp.PriceFrom.Equal(decimal.RequireFromString("120.50")))
	assert.Equal(t, []string{}, resp.Includes)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"price_from":"120.5"`)
	audit.AssertExpectations(t)
}

func TestMedicalService_UpdateReplacesFields(t *testing.T) {
	uc, repo, audit := newMedicalServiceUsecase()
	id := uuid.New()
	existing := &entity.MedicalService{
		ID:        id,
		Title:     "Ecografia",
		Includes:  entity.StringList{"Referto"},
		PriceFrom: decimal.NewFromInt(80),
	}

	repo.On("FindByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(s *entity.MedicalService) bool {
		return s.Title == "Ecografia addominale" && s.PriceFrom.Equal(decimal.RequireFromString("95.00"))
	})).Return(nil)
	audit.On("LogEvent", mock.Anything, mock.Anything, entity.AuditActionServiceUpdate, mock.Anything).Return(nil)

	resp, err := uc.Update(adminCtx(uuid.New()), id, &dto.UpdateMedicalServiceRequest{
		Title:     "Ecografia addominale",
		Includes:  []string{"Referto", "Immagini su CD"},
		PriceFrom: decimal.RequireFromString("95.00"),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Referto", "Immagini su CD"}, resp.Includes)
	assert.Equal(t, "95", resp.PriceFrom.String())
	repo.AssertExpectations(t)
}

func TestMedicalService_Rejections(t *testing.T) {
	t.Run("negative price", func(t *testing.T) {
		uc, repo, _ := newMedicalServiceUsecase()

		_, err := uc.Create(adminCtx(uuid.New()), &dto.CreateMedicalServiceRequest{
			Title:     "Visita",
			PriceFrom: decimal.NewFromInt(-1),
		})

		assert.ErrorIs(t, err, ErrInvalidPrice)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("update unknown service", func(t *testing.T) {
		uc, repo, _ := newMedicalServiceUsecase()
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, nil)

		_, err := uc.Update(adminCtx(uuid.New()), id, &dto.UpdateMedicalServiceRequest{
			Title:     "Visita",
			PriceFrom: decimal.NewFromInt(50),
		})

		assert.ErrorIs(t, err, ErrMedicalServiceNotFound)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
