package domain

import "github.com/m04kA/TurnsBookingService/pkg/types"

// Interval полуоткрытый интервал времени суток [Start, End)
type Interval struct {
	Start types.TimeString
	End   types.TimeString
}

// DurationMinutes длительность интервала
func (i Interval) DurationMinutes() int {
	return i.End.Minutes() - i.Start.Minutes()
}

// IsValid true, если Start < End и оба значения корректны
func (i Interval) IsValid() bool {
	return i.Start.Validate() == nil && i.End.Validate() == nil && i.Start.IsBefore(i.End)
}

// Overlaps проверяет пересечение полуоткрытых интервалов
// Граничащие интервалы (один заканчивается там, где начинается другой) не пересекаются
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.IsBefore(other.End) && other.Start.IsBefore(i.End)
}

// Contains true, если other целиком внутри i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.IsBefore(i.Start) && !other.End.IsAfter(i.End)
}

// Slot кандидат на запись. Не хранится, вычисляется на каждый запрос
type Slot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Available bool
}

// Interval интервал слота
func (s Slot) Interval() Interval {
	return Interval{Start: s.StartTime, End: s.EndTime}
}
