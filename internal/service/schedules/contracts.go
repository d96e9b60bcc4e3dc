package schedules

import (
	"context"

	"github.com/m04kA/TurnsBookingService/internal/domain"
)

// ScheduleRepository интерфейс репозитория недельного расписания
type ScheduleRepository interface {
	GetByBusiness(ctx context.Context, businessID int64) ([]*domain.WeeklySchedule, error)
	Upsert(ctx context.Context, schedule *domain.WeeklySchedule) (*domain.WeeklySchedule, error)
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
