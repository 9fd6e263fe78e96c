package handler

import (
	"net/http"
	"strconv"

	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/delivery/dto"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/usecase"
	"github.com/LeeDev428/smile-republic-dcms-sub000/pkg/response"
	"github.com/LeeDev428/smile-republic-dcms-sub000/pkg/validator"

	"github.com/gorilla/mux"
)

type SlotHandler struct {
	slotUsecase usecase.SlotUsecase
	validator   *validator.CustomValidator
}

func NewSlotHandler(slotUsecase usecase.SlotUsecase, validator *validator.CustomValidator) *SlotHandler {
	return &SlotHandler{
		slotUsecase: slotUsecase,
		validator:   validator,
	}
}

// GetSlots previews bookable start times.
// Query: date=YYYY-MM-DD and either duration=<minutes> or service_id=<uuid>
func (h *SlotHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := dto.SlotQueryRequest{
		DentistID: mux.Vars(r)["dentistId"],
		Date:      query.Get("date"),
		ServiceID: query.Get("service_id"),
	}
	if raw := query.Get("duration"); raw != "" {
		duration, err := strconv.Atoi(raw)
		if err != nil {
			response.ValidationError(w, map[string]string{"duration": "duration must be a whole number of minutes"})
			return
		}
		req.DurationMinutes = duration
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	slots, err := h.slotUsecase.GenerateSlots(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to generate slots")
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", slots)
}
