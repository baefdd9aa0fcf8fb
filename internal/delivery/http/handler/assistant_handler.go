package handler

import (
	"encoding/json"
	"net/http"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"
	"clinic-booking/pkg/validator"
)

type AssistantHandler struct {
	assistantUsecase usecase.AssistantUsecase
	validator        *validator.CustomValidator
}

func NewAssistantHandler(assistantUsecase usecase.AssistantUsecase, validator *validator.CustomValidator) *AssistantHandler {
	return &AssistantHandler{
		assistantUsecase: assistantUsecase,
		validator:        validator,
	}
}

func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	reply, err := h.assistantUsecase.Chat(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrAssistantDisabled:
			response.ServiceUnavailable(w, "Virtual assistant is not available")
		case usecase.ErrEmptyMessage:
			response.BadRequest(w, err.Error())
		default:
			response.Error(w, http.StatusBadGateway, "Assistant did not answer, try again later", nil)
		}
		return
	}

	response.Success(w, http.StatusOK, "Reply generated successfully", reply)
}
