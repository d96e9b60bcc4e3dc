package upsert_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TurnsBookingService/internal/api/handlers"
	"github.com/m04kA/TurnsBookingService/internal/api/middleware"
	"github.com/m04kA/TurnsBookingService/internal/service/schedules"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidDayOfWeek   = "некорректный день недели, ожидается 0..6"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgInvalidInterval    = "начало рабочего окна должно быть раньше конца"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgBusinessNotFound   = "бизнес не найден"
	msgForbidden          = "расписание может менять только владелец бизнеса"
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

// Handle PUT /api/v1/businesses/{businessId}/schedules/{dayOfWeek}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/schedules/{day} - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	dayOfWeek, err := strconv.Atoi(vars["dayOfWeek"])
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/schedules/{day} - Invalid day of week: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDayOfWeek)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpsertScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/schedules/{day} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(userID, businessID, dayOfWeek)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/schedules/{day} - Invalid time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.service.Upsert(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrInvalidInput):
			h.logger.Warn("PUT /businesses/{id}/schedules/{day} - Invalid input: %v", err)
			if dayOfWeek < 0 || dayOfWeek > 6 {
				handlers.RespondBadRequest(w, msgInvalidDayOfWeek)
			} else {
				handlers.RespondBadRequest(w, msgInvalidInterval)
			}

		case errors.Is(err, schedules.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, schedules.ErrAccessDenied):
			h.logger.Warn("PUT /businesses/{id}/schedules/{day} - Access denied: business_id=%d, user_id=%d", businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /businesses/{id}/schedules/{day} - Failed to save schedule: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/schedules/{day} - Schedule saved: business_id=%d, day=%d, %s-%s",
		businessID, dayOfWeek, result.StartTime, result.EndTime)
	handlers.RespondJSON(w, http.StatusOK, result)
}
