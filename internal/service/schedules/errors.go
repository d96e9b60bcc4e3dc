package schedules

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден или неактивен
	ErrBusinessNotFound = errors.New("business not found")

	// ErrAccessDenied возвращается, когда пользователь не владелец бизнеса
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
