package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrAccessDenied возвращается, когда пользователь не клиент и не владелец бизнеса
	ErrAccessDenied = errors.New("reschedule_appointment: access denied")

	// ErrCannotReschedule возвращается, когда запись уже отменена или завершена
	ErrCannotReschedule = errors.New("reschedule_appointment: appointment cannot be rescheduled")

	// ErrBusinessNotFound возвращается, когда бизнес записи удалён или неактивен
	ErrBusinessNotFound = errors.New("reschedule_appointment: business not found")

	// ErrServiceNotFound возвращается, когда услуга записи больше не оказывается
	ErrServiceNotFound = errors.New("reschedule_appointment: service not found")

	// ErrInvalidInterval возвращается, когда начало не раньше конца или длительность не совпадает с услугой
	ErrInvalidInterval = errors.New("reschedule_appointment: invalid interval")

	// ErrOutOfSchedule возвращается, когда новый интервал не является слотом расписания
	ErrOutOfSchedule = errors.New("reschedule_appointment: interval is out of schedule")

	// ErrConflict возвращается, когда новый интервал уже занят
	ErrConflict = errors.New("reschedule_appointment: slot is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_appointment: internal error")
)
