package availability

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound бизнес, услуга или расписание не найдены (или неактивны)
	ErrNotFound = errors.New("availability: not found")

	// ErrBusinessNotFound бизнес не найден или неактивен
	ErrBusinessNotFound = fmt.Errorf("%w: business", ErrNotFound)

	// ErrServiceNotFound услуга не найдена, неактивна или принадлежит другому бизнесу
	ErrServiceNotFound = fmt.Errorf("%w: service", ErrNotFound)

	// ErrOutOfSchedule интервал не совпадает ни с одним допустимым окном расписания
	ErrOutOfSchedule = errors.New("availability: interval is out of schedule")

	// ErrConflict интервал пересекается с существующей активной записью
	ErrConflict = errors.New("availability: interval conflicts with an existing appointment")

	// ErrInvalidInterval начало не раньше конца или длительность не равна длительности услуги
	ErrInvalidInterval = errors.New("availability: invalid interval")

	// ErrInternal внутренняя ошибка (хранилище недоступно и т.п.)
	ErrInternal = errors.New("availability: internal error")
)
