package create_appointment

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден или неактивен
	ErrBusinessNotFound = errors.New("create_appointment: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или не принадлежит бизнесу
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrInvalidInterval возвращается, когда начало не раньше конца или длительность не совпадает с услугой
	ErrInvalidInterval = errors.New("create_appointment: invalid interval")

	// ErrOutOfSchedule возвращается, когда интервал не является слотом расписания или уже начался
	ErrOutOfSchedule = errors.New("create_appointment: interval is out of schedule")

	// ErrConflict возвращается, когда интервал уже занят
	ErrConflict = errors.New("create_appointment: slot is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
