package http

import (
	"net/http"

	"clinic-queue-engine/internal/delivery/http/handler"
	"clinic-queue-engine/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router                *mux.Router
	doctorHandler         *handler.DoctorHandler
	doctorScheduleHandler *handler.DoctorScheduleHandler
	slotHandler           *handler.SlotHandler
	queueHandler          *handler.QueueHandler
	queueEventHandler     *handler.QueueEventHandler
	authMiddleware        *middleware.AuthMiddleware
	corsMiddleware        *middleware.CORSMiddleware
}

func NewRouter(
	doctorHandler *handler.DoctorHandler,
	doctorScheduleHandler *handler.DoctorScheduleHandler,
	slotHandler *handler.SlotHandler,
	queueHandler *handler.QueueHandler,
	queueEventHandler *handler.QueueEventHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:                mux.NewRouter(),
		doctorHandler:         doctorHandler,
		doctorScheduleHandler: doctorScheduleHandler,
		slotHandler:           slotHandler,
		queueHandler:          queueHandler,
		queueEventHandler:     queueEventHandler,
		authMiddleware:        authMiddleware,
		corsMiddleware:        corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Slot discovery (protected, any staff role)
	slots := api.PathPrefix("/clinics").Subrouter()
	slots.Use(r.authMiddleware.Authenticate)
	slots.HandleFunc("/{clinicId}/slots", r.slotHandler.GetAvailableSlots).Methods(http.MethodGet)

	// Schedule and time-off management (admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors", r.doctorHandler.ListActiveDoctors).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.UpdateDoctor).Methods(http.MethodPut)
	admin.HandleFunc("/schedules", r.doctorScheduleHandler.CreateSchedule).Methods(http.MethodPost)
	admin.HandleFunc("/schedules/bulk-replace", r.doctorScheduleHandler.BulkReplaceSchedules).Methods(http.MethodPut)
	admin.HandleFunc("/schedules/{id}", r.doctorScheduleHandler.UpdateSchedule).Methods(http.MethodPut)
	admin.HandleFunc("/schedules/{id}", r.doctorScheduleHandler.DeleteSchedule).Methods(http.MethodDelete)
	admin.HandleFunc("/doctors/{doctorId}/schedules", r.doctorScheduleHandler.ListSchedules).Methods(http.MethodGet)
	admin.HandleFunc("/time-off", r.doctorScheduleHandler.CreateTimeOff).Methods(http.MethodPost)
	admin.HandleFunc("/time-off/{id}", r.doctorScheduleHandler.DeleteTimeOff).Methods(http.MethodDelete)
	admin.HandleFunc("/doctors/{doctorId}/time-off", r.doctorScheduleHandler.ListTimeOff).Methods(http.MethodGet)
	admin.HandleFunc("/clinics/{clinicId}/settings", r.queueHandler.GetSettings).Methods(http.MethodGet)
	admin.HandleFunc("/clinics/{clinicId}/settings", r.queueHandler.UpdateSettings).Methods(http.MethodPut)
	admin.HandleFunc("/clinics/{clinicId}/events", r.queueEventHandler.ListEvents).Methods(http.MethodGet)

	// Queue operations (front desk: admin, receptionist, doctor)
	queue := api.PathPrefix("/queue").Subrouter()
	queue.Use(r.authMiddleware.Authenticate)
	queue.Use(middleware.RequireFrontDesk)
	queue.HandleFunc("/walk-in", r.queueHandler.CreateWalkIn).Methods(http.MethodPost)
	queue.HandleFunc("/check-in", r.queueHandler.CheckIn).Methods(http.MethodPost)
	queue.HandleFunc("/call-next", r.queueHandler.CallNext).Methods(http.MethodPost)
	queue.HandleFunc("/tokens/{tokenId}/status", r.queueHandler.UpdateTokenStatus).Methods(http.MethodPut)
	queue.HandleFunc("/tokens/{tokenId}/wait-time", r.queueHandler.GetEstimatedWaitTime).Methods(http.MethodGet)
	queue.HandleFunc("/clinics/{clinicId}", r.queueHandler.ListQueue).Methods(http.MethodGet)
	queue.HandleFunc("/clinics/{clinicId}/stats", r.queueHandler.GetQueueStats).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
