package handler

import (
	"encoding/json"
	"net/http"

	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/delivery/dto"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/usecase"
	"github.com/LeeDev428/smile-republic-dcms-sub000/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// IdempotencyKeyHeader lets clients retry a submission safely
const IdempotencyKeyHeader = "Idempotency-Key"

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
	}
}

func (h *AppointmentHandler) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	req.IdempotencyKey = r.Header.Get(IdempotencyKeyHeader)

	appointment, err := h.appointmentUsecase.SubmitBooking(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) ListDentistDay(w http.ResponseWriter, r *http.Request) {
	dentistID, err := uuid.Parse(mux.Vars(r)["dentistId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid dentist ID", nil)
		return
	}

	appointments, err := h.appointmentUsecase.ListDentistDay(r.Context(), dentistID, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	var req dto.CancelAppointmentRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
			return
		}
	}

	appointment, err := h.appointmentUsecase.CancelAppointment(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to cancel appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", appointment)
}

func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	appointment, err := h.appointmentUsecase.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update appointment status")
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}

func (h *AppointmentHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	entries, err := h.appointmentUsecase.History(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get appointment history")
		return
	}

	response.Success(w, http.StatusOK, "Appointment history retrieved successfully", entries)
}

func appointmentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return uuid.Nil, false
	}
	return id, true
}
