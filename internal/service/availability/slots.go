package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/TurnsBookingService/internal/domain"
	"github.com/m04kA/TurnsBookingService/pkg/types"
)

// Snapshot состояние, по которому считается доступность на одну дату
// Now должен быть уже переведён в часовой пояс бизнеса
type Snapshot struct {
	Schedule        *domain.WeeklySchedule // nil - бизнес в этот день не работает
	DurationMinutes int
	Appointments    []*domain.Appointment
	Date            time.Time
	Now             time.Time
}

// BuildSlots нарезает окно расписания на слоты длительностью услуги и размечает доступность
//
// Слоты идут подряд от начала окна с шагом DurationMinutes, хвост короче длительности отбрасывается.
// Слот недоступен, если пересекается с PENDING/CONFIRMED записью,
// если дата в прошлом, или если дата сегодня и слот начинается не строго позже текущего момента.
func BuildSlots(s Snapshot) []domain.Slot {
	windows := generateWindows(s.Schedule, s.DurationMinutes)
	slots := make([]domain.Slot, len(windows))

	day := dayPosition(s.Date, s.Now)

	for i, w := range windows {
		slots[i] = domain.Slot{
			StartTime: w.Start,
			EndTime:   w.End,
			Available: !startsTooEarly(w.Start, day, s.Now) && !overlapsAny(w, s.Appointments, 0),
		}
	}

	return slots
}

// CheckSlot проверяет предложенный интервал по тем же правилам, что и BuildSlots
// excludeID - запись, которую не учитывать (перенос самой себя), 0 - не исключать
func CheckSlot(s Snapshot, proposed domain.Interval, excludeID int64) error {
	if !proposed.IsValid() {
		return fmt.Errorf("%w: start must be before end", ErrInvalidInterval)
	}
	if proposed.DurationMinutes() != s.DurationMinutes {
		return fmt.Errorf("%w: duration %d does not match service duration %d",
			ErrInvalidInterval, proposed.DurationMinutes(), s.DurationMinutes)
	}

	if s.Schedule == nil || !s.Schedule.IsActive {
		return fmt.Errorf("%w: business does not work on this day", ErrOutOfSchedule)
	}

	window := s.Schedule.Interval()
	if !window.Contains(proposed) {
		return fmt.Errorf("%w: %s-%s is outside %s-%s",
			ErrOutOfSchedule, proposed.Start, proposed.End, window.Start, window.End)
	}
	if (proposed.Start.Minutes()-window.Start.Minutes())%s.DurationMinutes != 0 {
		return fmt.Errorf("%w: %s is not a slot boundary", ErrOutOfSchedule, proposed.Start)
	}

	if startsTooEarly(proposed.Start, dayPosition(s.Date, s.Now), s.Now) {
		return fmt.Errorf("%w: slot %s has already started", ErrOutOfSchedule, proposed.Start)
	}

	if overlapsAny(proposed, s.Appointments, excludeID) {
		return ErrConflict
	}

	return nil
}

// generateWindows делит окно расписания на последовательные интервалы длительности duration
func generateWindows(schedule *domain.WeeklySchedule, duration int) []domain.Interval {
	if schedule == nil || !schedule.IsActive || duration <= 0 {
		return []domain.Interval{}
	}

	start := schedule.StartTime.Minutes()
	end := schedule.EndTime.Minutes()
	if start < 0 || end < 0 || start >= end {
		return []domain.Interval{}
	}

	windows := make([]domain.Interval, 0, (end-start)/duration)
	for cur := start; cur+duration <= end; cur += duration {
		// границы проверены выше, FromMinutes не может вернуть ошибку
		slotStart, _ := types.FromMinutes(cur)
		slotEnd, _ := types.FromMinutes(cur + duration)
		windows = append(windows, domain.Interval{Start: slotStart, End: slotEnd})
	}

	return windows
}

// overlapsAny проверяет пересечение с любой блокирующей записью
// Записи в неблокирующих статусах игнорируются, даже если хранилище их вернуло
func overlapsAny(w domain.Interval, appointments []*domain.Appointment, excludeID int64) bool {
	for _, a := range appointments {
		if a == nil || !a.IsBlocking() {
			continue
		}
		if excludeID != 0 && a.ID == excludeID {
			continue
		}
		if w.Overlaps(a.Interval()) {
			return true
		}
	}
	return false
}

type position int

const (
	dayPast position = iota
	dayToday
	dayFuture
)

// dayPosition сравнивает календарную дату с сегодняшним днём (по часам now)
func dayPosition(date, now time.Time) position {
	d := civilDate(date)
	n := civilDate(now)
	switch {
	case d.Before(n):
		return dayPast
	case d.Equal(n):
		return dayToday
	default:
		return dayFuture
	}
}

// startsTooEarly true, если слот начинается не строго позже текущего момента
func startsTooEarly(start types.TimeString, day position, now time.Time) bool {
	switch day {
	case dayPast:
		return true
	case dayToday:
		return time.Duration(start.Minutes())*time.Minute <= sinceMidnight(now)
	default:
		return false
	}
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sinceMidnight время от полуночи по настенным часам (без учёта перехода на летнее время)
func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}
