package reschedule_appointment

import (
	"errors"
	"fmt"

	appointmentRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/appointment"
	"github.com/m04kA/TurnsBookingService/internal/service/availability"
	"github.com/m04kA/TurnsBookingService/pkg/types"
)

func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if !req.EndTime.IsZero() {
		if err := req.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
		}
	}

	return nil
}

func resolveEnd(start, end types.TimeString, durationMinutes int) (types.TimeString, error) {
	if !end.IsZero() {
		return end, nil
	}

	computed, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return "", fmt.Errorf("%w: %s + %d minutes crosses midnight", ErrOutOfSchedule, start, durationMinutes)
	}
	return computed, nil
}

// mapError переводит ошибки движка и хранилища в ошибки use case
func mapError(err error) error {
	switch {
	case errors.Is(err, ErrAppointmentNotFound), errors.Is(err, ErrCannotReschedule):
		return err
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		return ErrAppointmentNotFound
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
		return ErrConflict
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

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
