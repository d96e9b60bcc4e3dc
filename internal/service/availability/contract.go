package availability

import (
	"context"
	"time"

	"github.com/m04kA/TurnsBookingService/internal/domain"
)

// BusinessRepository источник бизнесов (часовой пояс, активность)
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// ServiceRepository источник услуг (длительность, активность)
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// ScheduleRepository источник недельного расписания
type ScheduleRepository interface {
	GetByBusinessAndDay(ctx context.Context, businessID int64, dayOfWeek int) (*domain.WeeklySchedule, error)
}

// AppointmentRepository источник текущих записей
// Возвращает только PENDING/CONFIRMED записи за дату, отсортированные по началу.
// Внутри транзакции блокирует выбранные строки (FOR UPDATE).
type AppointmentRepository interface {
	GetBlockingByBusinessAndDate(ctx context.Context, businessID int64, date time.Time) ([]*domain.Appointment, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
