package create_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/TurnsBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/appointment"
	"github.com/m04kA/TurnsBookingService/internal/service/availability"
	"github.com/m04kA/TurnsBookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if !req.EndTime.IsZero() {
		if err := req.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
		}
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// resolveEnd возвращает конец интервала: переданный или начало + длительность услуги
func resolveEnd(start, end types.TimeString, durationMinutes int) (types.TimeString, error) {
	if !end.IsZero() {
		return end, nil
	}

	computed, err := start.AddMinutes(durationMinutes)
	if err != nil {
		// слот переходит через полночь - такого окна в расписании быть не может
		return "", fmt.Errorf("%w: %s + %d minutes crosses midnight", ErrOutOfSchedule, start, durationMinutes)
	}
	return computed, nil
}

// mapSlotError переводит ошибки движка и хранилища в ошибки use case
func mapSlotError(err error) error {
	switch {
	case errors.Is(err, availability.ErrInvalidInterval):
		return fmt.Errorf("%w: %v", ErrInvalidInterval, err)
	case errors.Is(err, availability.ErrOutOfSchedule):
		return fmt.Errorf("%w: %v", ErrOutOfSchedule, err)
	case errors.Is(err, availability.ErrConflict), errors.Is(err, appointmentRepo.ErrSlotNotAvailable):
		return ErrConflict
	case errors.Is(err, availability.ErrBusinessNotFound):
		return ErrBusinessNotFound
	case errors.Is(err, availability.ErrServiceNotFound):
		return ErrServiceNotFound
	case appointmentRepo.IsSlotTaken(err):
		// сериализационный конфликт на COMMIT
		return ErrConflict
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

// outcome метка исхода для метрики booking_attempts_total
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInternal):
		return "error"
	default:
		return "rejected"
	}
}
