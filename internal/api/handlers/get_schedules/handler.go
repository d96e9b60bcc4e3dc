package get_schedules

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TurnsBookingService/internal/api/handlers"
	"github.com/m04kA/TurnsBookingService/internal/service/schedules"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgBusinessNotFound  = "бизнес не найден"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/schedules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/schedules - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	week, err := h.service.GetWeek(r.Context(), businessID)
	if err != nil {
		if errors.Is(err, schedules.ErrBusinessNotFound) {
			handlers.RespondNotFound(w, msgBusinessNotFound)
			return
		}
		h.logger.Error("GET /businesses/{id}/schedules - Failed to get schedule: business_id=%d, error=%v", businessID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, week)
}
