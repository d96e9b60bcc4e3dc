package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/TurnsBookingService/internal/domain"
)

// SlotEngine движок расчёта доступности
type SlotEngine interface {
	ComputeAvailableSlots(ctx context.Context, businessID, serviceID int64, date time.Time) ([]domain.Slot, error)
}

// Metrics метрики расчёта слотов
type Metrics interface {
	ObserveSlotComputation(serviceName string, d time.Duration)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
