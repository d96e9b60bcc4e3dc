package get_business_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TurnsBookingService/internal/api/handlers"
	"github.com/m04kA/TurnsBookingService/internal/api/middleware"
	"github.com/m04kA/TurnsBookingService/internal/service/appointments"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidQuery      = "некорректные параметры фильтра"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgBusinessNotFound  = "бизнес не найден"
	msgForbidden         = "записи бизнеса доступны только владельцу"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/appointments
// Query params: date | startDate, endDate (YYYY-MM-DD), status, includeInactive
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/appointments - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req, err := ParseQuery(userID, businessID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/appointments - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.service.ListByBusiness(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /businesses/{id}/appointments - Access denied: business_id=%d, user_id=%d", businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidQuery)

		default:
			h.logger.Error("GET /businesses/{id}/appointments - Failed to list appointments: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/appointments - Appointments retrieved: business_id=%d, count=%d",
		businessID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
