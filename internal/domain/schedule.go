package domain

import (
	"time"

	"github.com/m04kA/TurnsBookingService/pkg/types"
)

// WeeklySchedule рабочее окно бизнеса в один день недели
// Не более одной записи на (бизнес, день недели)
type WeeklySchedule struct {
	ID         int64
	BusinessID int64
	DayOfWeek  int // 0 = воскресенье ... 6 = суббота (как time.Weekday)
	StartTime  types.TimeString
	EndTime    types.TimeString
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Interval окно расписания
func (s *WeeklySchedule) Interval() Interval {
	return Interval{Start: s.StartTime, End: s.EndTime}
}

// DayOfWeekOf индекс дня недели для даты
func DayOfWeekOf(date time.Time) int {
	return int(date.Weekday())
}

// IsValidDayOfWeek проверяет диапазон 0..6
func IsValidDayOfWeek(day int) bool {
	return day >= int(time.Sunday) && day <= int(time.Saturday)
}
