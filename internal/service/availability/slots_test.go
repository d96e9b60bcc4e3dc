package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TurnsBookingService/internal/domain"
	"github.com/m04kA/TurnsBookingService/pkg/types"
)

var (
	testDate  = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC) // среда
	dayBefore = time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
)

func schedule(start, end string) *domain.WeeklySchedule {
	return &domain.WeeklySchedule{
		BusinessID: 1,
		DayOfWeek:  int(time.Wednesday),
		StartTime:  types.TimeString(start),
		EndTime:    types.TimeString(end),
		IsActive:   true,
	}
}

func appointment(id int64, start, end string, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		BusinessID:      1,
		AppointmentDate: testDate,
		StartTime:       types.TimeString(start),
		EndTime:         types.TimeString(end),
		Status:          status,
	}
}

func interval(start, end string) domain.Interval {
	return domain.Interval{Start: types.TimeString(start), End: types.TimeString(end)}
}

func availableStarts(slots []domain.Slot) []string {
	starts := make([]string, 0)
	for _, s := range slots {
		if s.Available {
			starts = append(starts, s.StartTime.String())
		}
	}
	return starts
}

func TestBuildSlots_FullDay(t *testing.T) {
	slots := BuildSlots(Snapshot{
		Schedule:        schedule("09:00", "18:00"),
		DurationMinutes: 30,
		Date:            testDate,
		Now:             dayBefore,
	})

	require.Len(t, slots, 18)
	assert.Equal(t, types.TimeString("09:00"), slots[0].StartTime)
	assert.Equal(t, types.TimeString("09:30"), slots[0].EndTime)
	assert.Equal(t, types.TimeString("17:30"), slots[17].StartTime)
	assert.Equal(t, types.TimeString("18:00"), slots[17].EndTime)

	for i, s := range slots {
		assert.True(t, s.Available, "slot %d", i)
		assert.Equal(t, 30, s.Interval().DurationMinutes())
		if i > 0 {
			assert.Equal(t, slots[i-1].EndTime, s.StartTime, "slots must be contiguous")
		}
	}
}

func TestBuildSlots_DropsPartialTail(t *testing.T) {
	slots := BuildSlots(Snapshot{
		Schedule:        schedule("09:00", "10:40"),
		DurationMinutes: 45,
		Date:            testDate,
		Now:             dayBefore,
	})

	require.Len(t, slots, 2)
	assert.Equal(t, types.TimeString("09:45"), slots[1].StartTime)
	assert.Equal(t, types.TimeString("10:30"), slots[1].EndTime)
}

func TestBuildSlots_WindowShorterThanService(t *testing.T) {
	slots := BuildSlots(Snapshot{
		Schedule:        schedule("09:00", "09:20"),
		DurationMinutes: 30,
		Date:            testDate,
		Now:             dayBefore,
	})

	assert.Empty(t, slots)
}

func TestBuildSlots_ClosedDay(t *testing.T) {
	t.Run("no schedule", func(t *testing.T) {
		slots := BuildSlots(Snapshot{DurationMinutes: 30, Date: testDate, Now: dayBefore})
		assert.NotNil(t, slots)
		assert.Empty(t, slots)
	})

	t.Run("inactive schedule", func(t *testing.T) {
		s := schedule("09:00", "18:00")
		s.IsActive = false
		slots := BuildSlots(Snapshot{Schedule: s, DurationMinutes: 30, Date: testDate, Now: dayBefore})
		assert.Empty(t, slots)
	})
}

func TestBuildSlots_BlockingAppointments(t *testing.T) {
	tests := []struct {
		name        string
		appointment *domain.Appointment
		blocked     []string
	}{
		{
			name:        "confirmed blocks its slot",
			appointment: appointment(1, "10:00", "10:30", domain.StatusConfirmed),
			blocked:     []string{"10:00"},
		},
		{
			name:        "pending blocks its slot",
			appointment: appointment(1, "10:00", "10:30", domain.StatusPending),
			blocked:     []string{"10:00"},
		},
		{
			name:        "cancelled frees the slot",
			appointment: appointment(1, "10:00", "10:30", domain.StatusCancelled),
			blocked:     []string{},
		},
		{
			name:        "completed does not block",
			appointment: appointment(1, "10:00", "10:30", domain.StatusCompleted),
			blocked:     []string{},
		},
		{
			name:        "no-show does not block",
			appointment: appointment(1, "10:00", "10:30", domain.StatusNoShow),
			blocked:     []string{},
		},
		{
			name:        "off-grid appointment blocks both neighbours",
			appointment: appointment(1, "10:15", "10:45", domain.StatusConfirmed),
			blocked:     []string{"10:00", "10:30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := BuildSlots(Snapshot{
				Schedule:        schedule("09:00", "12:00"),
				DurationMinutes: 30,
				Appointments:    []*domain.Appointment{tt.appointment},
				Date:            testDate,
				Now:             dayBefore,
			})

			require.Len(t, slots, 6)
			blocked := make([]string, 0)
			for _, s := range slots {
				if !s.Available {
					blocked = append(blocked, s.StartTime.String())
				}
			}
			assert.Equal(t, tt.blocked, blocked)
		})
	}
}

func TestBuildSlots_AdjacentAppointmentDoesNotBlock(t *testing.T) {
	slots := BuildSlots(Snapshot{
		Schedule:        schedule("09:00", "10:00"),
		DurationMinutes: 30,
		Appointments:    []*domain.Appointment{appointment(1, "08:30", "09:00", domain.StatusConfirmed)},
		Date:            testDate,
		Now:             dayBefore,
	})

	assert.Equal(t, []string{"09:00", "09:30"}, availableStarts(slots))
}

func TestBuildSlots_Today(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		available []string
	}{
		{
			name:      "before opening",
			now:       time.Date(2025, 10, 15, 8, 0, 0, 0, time.UTC),
			available: []string{"09:00", "09:30", "10:00", "10:30"},
		},
		{
			name:      "slot starting exactly now is unavailable",
			now:       time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC),
			available: []string{"10:30"},
		},
		{
			name:      "one second before slot start",
			now:       time.Date(2025, 10, 15, 9, 59, 59, 0, time.UTC),
			available: []string{"10:00", "10:30"},
		},
		{
			name:      "after closing",
			now:       time.Date(2025, 10, 15, 19, 0, 0, 0, time.UTC),
			available: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := BuildSlots(Snapshot{
				Schedule:        schedule("09:00", "11:00"),
				DurationMinutes: 30,
				Date:            testDate,
				Now:             tt.now,
			})

			require.Len(t, slots, 4)
			assert.Equal(t, tt.available, availableStarts(slots))
		})
	}
}

func TestBuildSlots_PastDate(t *testing.T) {
	slots := BuildSlots(Snapshot{
		Schedule:        schedule("09:00", "11:00"),
		DurationMinutes: 30,
		Date:            testDate,
		Now:             time.Date(2025, 10, 16, 8, 0, 0, 0, time.UTC),
	})

	require.Len(t, slots, 4)
	assert.Empty(t, availableStarts(slots))
}

func TestBuildSlots_Idempotent(t *testing.T) {
	s := Snapshot{
		Schedule:        schedule("09:00", "18:00"),
		DurationMinutes: 30,
		Appointments:    []*domain.Appointment{appointment(1, "10:00", "10:30", domain.StatusConfirmed)},
		Date:            testDate,
		Now:             dayBefore,
	}

	assert.Equal(t, BuildSlots(s), BuildSlots(s))
}

func TestCheckSlot(t *testing.T) {
	base := Snapshot{
		Schedule:        schedule("09:00", "18:00"),
		DurationMinutes: 30,
		Appointments: []*domain.Appointment{
			appointment(7, "10:00", "10:30", domain.StatusConfirmed),
			appointment(8, "11:00", "11:30", domain.StatusCancelled),
		},
		Date: testDate,
		Now:  dayBefore,
	}

	tests := []struct {
		name      string
		snapshot  func() Snapshot
		interval  domain.Interval
		excludeID int64
		wantErr   error
	}{
		{name: "free slot", interval: interval("09:30", "10:00")},
		{name: "first slot", interval: interval("09:00", "09:30")},
		{name: "last slot", interval: interval("17:30", "18:00")},
		{name: "slot freed by cancellation", interval: interval("11:00", "11:30")},
		{name: "taken slot", interval: interval("10:00", "10:30"), wantErr: ErrConflict},
		{name: "own appointment excluded", interval: interval("10:00", "10:30"), excludeID: 7},
		{name: "other appointment not excluded", interval: interval("10:00", "10:30"), excludeID: 99, wantErr: ErrConflict},
		{name: "start equals end", interval: interval("10:00", "10:00"), wantErr: ErrInvalidInterval},
		{name: "start after end", interval: interval("10:30", "10:00"), wantErr: ErrInvalidInterval},
		{name: "duration mismatch", interval: interval("09:00", "10:00"), wantErr: ErrInvalidInterval},
		{name: "before opening", interval: interval("08:30", "09:00"), wantErr: ErrOutOfSchedule},
		{name: "crosses closing", interval: interval("17:45", "18:15"), wantErr: ErrOutOfSchedule},
		{name: "misaligned start", interval: interval("09:15", "09:45"), wantErr: ErrOutOfSchedule},
		{
			name:     "closed day",
			snapshot: func() Snapshot { s := base; s.Schedule = nil; return s },
			interval: interval("09:00", "09:30"),
			wantErr:  ErrOutOfSchedule,
		},
		{
			name: "already started today",
			snapshot: func() Snapshot {
				s := base
				s.Now = time.Date(2025, 10, 15, 9, 30, 0, 0, time.UTC)
				return s
			},
			interval: interval("09:30", "10:00"),
			wantErr:  ErrOutOfSchedule,
		},
		{
			name: "past date",
			snapshot: func() Snapshot {
				s := base
				s.Now = time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)
				return s
			},
			interval: interval("12:00", "12:30"),
			wantErr:  ErrOutOfSchedule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			if tt.snapshot != nil {
				s = tt.snapshot()
			}

			err := CheckSlot(s, tt.interval, tt.excludeID)

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// Интервал проходит проверку тогда и только тогда, когда он есть среди доступных слотов
func TestCheckSlot_AgreesWithBuildSlots(t *testing.T) {
	s := Snapshot{
		Schedule:        schedule("09:00", "13:00"),
		DurationMinutes: 40,
		Appointments: []*domain.Appointment{
			appointment(1, "10:20", "11:00", domain.StatusPending),
			appointment(2, "11:50", "12:10", domain.StatusConfirmed),
		},
		Date: testDate,
		Now:  time.Date(2025, 10, 15, 9, 10, 0, 0, time.UTC),
	}

	slots := BuildSlots(s)
	require.NotEmpty(t, slots)

	for _, slot := range slots {
		err := CheckSlot(s, slot.Interval(), 0)
		if slot.Available {
			assert.NoError(t, err, "slot %s", slot.StartTime)
		} else {
			assert.Error(t, err, "slot %s", slot.StartTime)
		}
	}
}
