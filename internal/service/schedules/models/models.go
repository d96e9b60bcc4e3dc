package models

import (
	"time"

	"github.com/m04kA/TurnsBookingService/internal/domain"
	"github.com/m04kA/TurnsBookingService/pkg/types"
)

// Request модели

// UpsertScheduleRequest запрос на установку рабочего окна дня недели
type UpsertScheduleRequest struct {
	UserID     int64            `json:"userId"`
	BusinessID int64            `json:"businessId"`
	DayOfWeek  int              `json:"dayOfWeek"` // 0 = воскресенье ... 6 = суббота
	StartTime  types.TimeString `json:"startTime"` // "09:00"
	EndTime    types.TimeString `json:"endTime"`   // "18:00", допускается "24:00"
	IsActive   *bool            `json:"isActive,omitempty"`
}

// Response модели

// ScheduleResponse рабочее окно дня недели
type ScheduleResponse struct {
	ID         int64     `json:"id"`
	BusinessID int64     `json:"businessId"`
	DayOfWeek  int       `json:"dayOfWeek"`
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	IsActive   bool      `json:"isActive"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// WeekResponse расписание бизнеса на неделю
type WeekResponse struct {
	BusinessID int64              `json:"businessId"`
	Timezone   string             `json:"timezone"`
	Days       []ScheduleResponse `json:"days"`
}

// FromDomainSchedule конвертирует domain модель в DTO
func FromDomainSchedule(s *domain.WeeklySchedule) ScheduleResponse {
	return ScheduleResponse{
		ID:         s.ID,
		BusinessID: s.BusinessID,
		DayOfWeek:  s.DayOfWeek,
		StartTime:  s.StartTime.String(),
		EndTime:    s.EndTime.String(),
		IsActive:   s.IsActive,
		UpdatedAt:  s.UpdatedAt,
	}
}
