package get_schedules

import (
	"context"

	"github.com/m04kA/TurnsBookingService/internal/service/schedules/models"
)

type ScheduleService interface {
	GetWeek(ctx context.Context, businessID int64) (*models.WeekResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
