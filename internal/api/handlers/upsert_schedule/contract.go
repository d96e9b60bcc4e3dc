package upsert_schedule

import (
	"context"

	"github.com/m04kA/TurnsBookingService/internal/service/schedules/models"
)

type ScheduleService interface {
	Upsert(ctx context.Context, req *models.UpsertScheduleRequest) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
