package notifier

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifier client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе шлюза уведомлений
	ErrInvalidResponse = errors.New("notifier client: invalid response")

	// ErrServiceDegraded шлюз недоступен, событие не доставлено
	// Запись при этом уже сохранена, клиенты увидят изменение при следующем запросе
	ErrServiceDegraded = errors.New("notifier unavailable: graceful degradation applied")
)
