package get_machine_status

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"laundry-booking-service/internal/api/handlers"
	"laundry-booking-service/internal/domain"
)

const msgUnknownMachine = "неизвестная машина"

type Handler struct {
	states StateProvider
	logger Logger
}

func NewHandler(states StateProvider, logger Logger) *Handler {
	return &Handler{
		states: states,
		logger: logger,
	}
}

// Handle GET /api/v1/machines/{machineId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	machine := domain.ResourceID(vars["machineId"])

	if !domain.KnownResource(machine) {
		h.logger.Warn("GET /machines/{id}/status - Unknown machine %q", machine)
		handlers.RespondNotFound(w, msgUnknownMachine)
		return
	}

	state := h.states.Snapshot(machine, time.Now())
	handlers.RespondJSON(w, http.StatusOK, FromDerivedState(machine, state))
}
