package reschedule_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TurnsBookingService/internal/api/handlers"
	"github.com/m04kA/TurnsBookingService/internal/api/middleware"
	rescheduleAppointment "github.com/m04kA/TurnsBookingService/internal/usecase/reschedule_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateTime      = "некорректная дата (YYYY-MM-DD) или время (HH:MM)"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "запись не найдена"
	msgForbidden            = "доступ запрещен"
	msgCannotReschedule     = "запись уже отменена или завершена"
	msgBusinessNotFound     = "бизнес записи не найден"
	msgServiceNotFound      = "услуга записи больше не оказывается"
	msgInvalidInterval      = "некорректный интервал: начало должно быть раньше конца, длительность равна длительности услуги"
	msgOutOfSchedule        = "интервал не совпадает со свободным слотом расписания"
	msgSlotNotAvailable     = "выбранный временной слот уже занят"
	msgInvalidInput         = "некорректные данные переноса"
)

type Handler struct {
	useCase RescheduleAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, appointmentID)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleAppointment.ErrAccessDenied):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Access denied: appointment_id=%d, user_id=%d", appointmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, rescheduleAppointment.ErrCannotReschedule):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Cannot reschedule: appointment_id=%d: %v", appointmentID, err)
			handlers.RespondBadRequest(w, msgCannotReschedule)

		case errors.Is(err, rescheduleAppointment.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, rescheduleAppointment.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, rescheduleAppointment.ErrConflict):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Slot not available: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, rescheduleAppointment.ErrOutOfSchedule):
			handlers.RespondUnprocessable(w, msgOutOfSchedule)

		case errors.Is(err, rescheduleAppointment.ErrInvalidInterval):
			handlers.RespondBadRequest(w, msgInvalidInterval)

		case errors.Is(err, rescheduleAppointment.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /appointments/{id}/reschedule - Failed to reschedule: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/reschedule - Appointment rescheduled: appointment_id=%d, user_id=%d",
		appointmentID, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
