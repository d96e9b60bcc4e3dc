package reschedule_appointment

import (
	"context"
	"time"

	"github.com/m04kA/TurnsBookingService/internal/domain"
	"github.com/m04kA/TurnsBookingService/internal/integrations/notifier"
	"github.com/m04kA/TurnsBookingService/internal/service/availability"
	"github.com/m04kA/TurnsBookingService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	LockDay(ctx context.Context, businessID int64, date time.Time) error
	Reschedule(ctx context.Context, id int64, date time.Time, start, end types.TimeString) error
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// ServiceRepository интерфейс каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// SlotValidator проверка интервала по текущему состоянию дня
type SlotValidator interface {
	ValidateBookingSlot(ctx context.Context, req availability.ValidateRequest) error
}

// KeyLocker внутрипроцессная блокировка по ключу
type KeyLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// TransactionManager интерфейс для управления транзакциями
// Do - READ COMMITTED: каждый запрос после блокировки дня видит закоммиченные записи
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier интерфейс шлюза уведомлений
type Notifier interface {
	PublishWithGracefulDegradation(ctx context.Context, event notifier.Event) error
}

// Metrics счётчик исходов бронирования
type Metrics interface {
	IncBookingAttempt(serviceName, operation, outcome string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}
