package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/delivery/dto"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/usecase"
	"github.com/LeeDev428/smile-republic-dcms-sub000/pkg/response"
	"github.com/LeeDev428/smile-republic-dcms-sub000/pkg/validator"

	"github.com/gorilla/mux"
)

type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase, validator *validator.CustomValidator) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

func (h *AvailabilityHandler) CreateAvailability(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	availability, err := h.availabilityUsecase.CreateAvailability(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create availability")
		return
	}

	response.Success(w, http.StatusCreated, "Availability created successfully", availability)
}

func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid availability ID", nil)
		return
	}

	availability, err := h.availabilityUsecase.GetAvailability(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", availability)
}

func (h *AvailabilityHandler) ListAvailabilities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := dto.AvailabilityFilterRequest{
		DentistID: query.Get("dentist_id"),
		StartAt:   query.Get("start_at"),
		EndAt:     query.Get("end_at"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	availabilities, err := h.availabilityUsecase.ListAvailabilities(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to get availabilities")
		return
	}

	response.Success(w, http.StatusOK, "Availabilities retrieved successfully", availabilities)
}

func (h *AvailabilityHandler) DeleteAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid availability ID", nil)
		return
	}

	if err := h.availabilityUsecase.DeleteAvailability(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability deleted successfully", nil)
}
