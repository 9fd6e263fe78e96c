package http

import (
	"net/http"

	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/delivery/http/handler"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	slotHandler         *handler.SlotHandler
	appointmentHandler  *handler.AppointmentHandler
	availabilityHandler *handler.AvailabilityHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	metricsHandler      http.Handler
}

func NewRouter(
	slotHandler *handler.SlotHandler,
	appointmentHandler *handler.AppointmentHandler,
	availabilityHandler *handler.AvailabilityHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		slotHandler:         slotHandler,
		appointmentHandler:  appointmentHandler,
		availabilityHandler: availabilityHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		metricsHandler:      metricsHandler,
	}
}

func (r *Router) Setup() *mux.Router {
	// Prometheus scrape endpoint
	r.router.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Staff routes (any clinic role)
	staff := api.NewRoute().Subrouter()
	staff.Use(r.authMiddleware.Authenticate)
	staff.Use(middleware.RequireStaff)

	staff.HandleFunc("/dentists/{dentistId}/slots", r.slotHandler.GetSlots).Methods(http.MethodGet)
	staff.HandleFunc("/dentists/{dentistId}/appointments", r.appointmentHandler.ListDentistDay).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{id}/history", r.appointmentHandler.GetHistory).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{id}/status", r.appointmentHandler.UpdateStatus).Methods(http.MethodPatch)

	// Booking desk routes (admin, front desk)
	desk := api.NewRoute().Subrouter()
	desk.Use(r.authMiddleware.Authenticate)
	desk.Use(middleware.RequireFrontDesk)

	desk.HandleFunc("/appointments", r.appointmentHandler.SubmitBooking).Methods(http.MethodPost)
	desk.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.CancelAppointment).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Dentist working hours (admin)
	admin.HandleFunc("/availabilities", r.availabilityHandler.CreateAvailability).Methods(http.MethodPost)
	admin.HandleFunc("/availabilities", r.availabilityHandler.ListAvailabilities).Methods(http.MethodGet)
	admin.HandleFunc("/availabilities/{id}", r.availabilityHandler.GetAvailability).Methods(http.MethodGet)
	admin.HandleFunc("/availabilities/{id}", r.availabilityHandler.DeleteAvailability).Methods(http.MethodDelete)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
