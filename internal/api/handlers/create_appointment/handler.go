package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/TurnsBookingService/internal/api/handlers"
	"github.com/m04kA/TurnsBookingService/internal/api/middleware"
	createAppointment "github.com/m04kA/TurnsBookingService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные записи"
	msgInvalidInterval    = "некорректный интервал: начало должно быть раньше конца, длительность равна длительности услуги"
	msgOutOfSchedule      = "интервал не совпадает со свободным слотом расписания"
	msgSlotNotAvailable   = "выбранный временной слот уже занят"
	msgBusinessNotFound   = "бизнес не найден"
	msgServiceNotFound    = "услуга не найдена"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrConflict):
			h.logger.Warn("POST /appointments - Slot not available: user_id=%d, business_id=%d, date=%s, start=%s",
				userID, req.BusinessID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrOutOfSchedule):
			h.logger.Warn("POST /appointments - Out of schedule: user_id=%d, business_id=%d: %v", userID, req.BusinessID, err)
			handlers.RespondUnprocessable(w, msgOutOfSchedule)

		case errors.Is(err, createAppointment.ErrInvalidInterval):
			h.logger.Warn("POST /appointments - Invalid interval: user_id=%d, business_id=%d: %v", userID, req.BusinessID, err)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: user_id=%d: %v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createAppointment.ErrBusinessNotFound):
			h.logger.Warn("POST /appointments - Business not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: business_id=%d, service_id=%d", req.BusinessID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: user_id=%d, business_id=%d, error=%v",
				userID, req.BusinessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, user_id=%d, business_id=%d",
		result.ID, userID, req.BusinessID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
