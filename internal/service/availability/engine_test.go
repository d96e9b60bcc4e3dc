package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TurnsBookingService/internal/domain"
	businessRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/schedule"
)

type fakeBusinessRepo struct {
	getByID func(ctx context.Context, id int64) (*domain.Business, error)
}

func (f *fakeBusinessRepo) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	return f.getByID(ctx, id)
}

type fakeServiceRepo struct {
	getByID func(ctx context.Context, id int64) (*domain.Service, error)
}

func (f *fakeServiceRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	return f.getByID(ctx, id)
}

type fakeScheduleRepo struct {
	getByBusinessAndDay func(ctx context.Context, businessID int64, dayOfWeek int) (*domain.WeeklySchedule, error)
}

func (f *fakeScheduleRepo) GetByBusinessAndDay(ctx context.Context, businessID int64, dayOfWeek int) (*domain.WeeklySchedule, error) {
	return f.getByBusinessAndDay(ctx, businessID, dayOfWeek)
}

type fakeAppointmentRepo struct {
	calls                        int
	getBlockingByBusinessAndDate func(ctx context.Context, businessID int64, date time.Time) ([]*domain.Appointment, error)
}

func (f *fakeAppointmentRepo) GetBlockingByBusinessAndDate(ctx context.Context, businessID int64, date time.Time) ([]*domain.Appointment, error) {
	f.calls++
	return f.getBlockingByBusinessAndDate(ctx, businessID, date)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type engineFixture struct {
	business     *domain.Business
	service      *domain.Service
	schedules    map[int]*domain.WeeklySchedule
	appointments []*domain.Appointment
	now          time.Time

	appointmentRepo *fakeAppointmentRepo
}

func newFixture() *engineFixture {
	return &engineFixture{
		business: &domain.Business{ID: 1, Name: "Barber", Timezone: "UTC", IsActive: true},
		service:  &domain.Service{ID: 10, BusinessID: 1, Name: "Haircut", DurationMinutes: 30, IsActive: true},
		schedules: map[int]*domain.WeeklySchedule{
			int(time.Wednesday): schedule("09:00", "18:00"),
		},
		now: dayBefore,
	}
}

func (f *engineFixture) engine() *Engine {
	f.appointmentRepo = &fakeAppointmentRepo{
		getBlockingByBusinessAndDate: func(ctx context.Context, businessID int64, date time.Time) ([]*domain.Appointment, error) {
			return f.appointments, nil
		},
	}

	return NewEngine(
		&fakeBusinessRepo{getByID: func(ctx context.Context, id int64) (*domain.Business, error) {
			if f.business == nil || f.business.ID != id {
				return nil, businessRepo.ErrBusinessNotFound
			}
			return f.business, nil
		}},
		&fakeServiceRepo{getByID: func(ctx context.Context, id int64) (*domain.Service, error) {
			if f.service == nil || f.service.ID != id {
				return nil, catalogRepo.ErrServiceNotFound
			}
			return f.service, nil
		}},
		&fakeScheduleRepo{getByBusinessAndDay: func(ctx context.Context, businessID int64, dayOfWeek int) (*domain.WeeklySchedule, error) {
			s, ok := f.schedules[dayOfWeek]
			if !ok {
				return nil, scheduleRepo.ErrScheduleNotFound
			}
			return s, nil
		}},
		f.appointmentRepo,
		fixedTime{now: f.now},
	)
}

func TestEngine_ComputeAvailableSlots(t *testing.T) {
	ctx := context.Background()

	t.Run("open day with one confirmed appointment", func(t *testing.T) {
		f := newFixture()
		f.appointments = []*domain.Appointment{appointment(1, "10:00", "10:30", domain.StatusConfirmed)}

		slots, err := f.engine().ComputeAvailableSlots(ctx, 1, 10, testDate)

		require.NoError(t, err)
		require.Len(t, slots, 18)
		for _, s := range slots {
			if s.StartTime == "10:00" {
				assert.False(t, s.Available)
				continue
			}
			assert.True(t, s.Available, "slot %s", s.StartTime)
		}
	})

	t.Run("cancellation frees the slot", func(t *testing.T) {
		f := newFixture()
		booked := appointment(1, "10:00", "10:30", domain.StatusConfirmed)
		f.appointments = []*domain.Appointment{booked}
		e := f.engine()

		before, err := e.ComputeAvailableSlots(ctx, 1, 10, testDate)
		require.NoError(t, err)
		assert.False(t, before[2].Available)

		booked.Status = domain.StatusCancelled

		after, err := e.ComputeAvailableSlots(ctx, 1, 10, testDate)
		require.NoError(t, err)
		assert.True(t, after[2].Available)
	})

	t.Run("closed day returns empty list", func(t *testing.T) {
		f := newFixture()

		slots, err := f.engine().ComputeAvailableSlots(ctx, 1, 10, testDate.AddDate(0, 0, 1))

		require.NoError(t, err)
		assert.Empty(t, slots)
		assert.Equal(t, 0, f.appointmentRepo.calls)
	})

	t.Run("today uses business timezone", func(t *testing.T) {
		f := newFixture()
		f.business.Timezone = "America/Argentina/Buenos_Aires" // UTC-3
		// 12:10 UTC = 09:10 в Буэнос-Айресе
		f.now = time.Date(2025, 10, 15, 12, 10, 0, 0, time.UTC)

		slots, err := f.engine().ComputeAvailableSlots(ctx, 1, 10, testDate)

		require.NoError(t, err)
		require.Len(t, slots, 18)
		assert.False(t, slots[0].Available)
		assert.True(t, slots[1].Available)
	})

	t.Run("unknown business", func(t *testing.T) {
		f := newFixture()

		_, err := f.engine().ComputeAvailableSlots(ctx, 2, 10, testDate)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, err, ErrBusinessNotFound)
	})

	t.Run("inactive business", func(t *testing.T) {
		f := newFixture()
		f.business.IsActive = false

		_, err := f.engine().ComputeAvailableSlots(ctx, 1, 10, testDate)

		assert.ErrorIs(t, err, ErrBusinessNotFound)
	})

	t.Run("unknown service", func(t *testing.T) {
		f := newFixture()

		_, err := f.engine().ComputeAvailableSlots(ctx, 1, 11, testDate)

		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("service of another business", func(t *testing.T) {
		f := newFixture()
		f.service.BusinessID = 2

		_, err := f.engine().ComputeAvailableSlots(ctx, 1, 10, testDate)

		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newFixture()
		e := f.engine()
		f.appointmentRepo.getBlockingByBusinessAndDate = func(ctx context.Context, businessID int64, date time.Time) ([]*domain.Appointment, error) {
			return nil, errors.New("connection refused")
		}

		_, err := e.ComputeAvailableSlots(ctx, 1, 10, testDate)

		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestEngine_ValidateBookingSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("free slot", func(t *testing.T) {
		f := newFixture()

		err := f.engine().ValidateBookingSlot(ctx, ValidateRequest{
			BusinessID: 1, ServiceID: 10, Date: testDate, Interval: interval("09:00", "09:30"),
		})

		assert.NoError(t, err)
	})

	t.Run("taken slot", func(t *testing.T) {
		f := newFixture()
		f.appointments = []*domain.Appointment{appointment(5, "09:00", "09:30", domain.StatusPending)}

		err := f.engine().ValidateBookingSlot(ctx, ValidateRequest{
			BusinessID: 1, ServiceID: 10, Date: testDate, Interval: interval("09:00", "09:30"),
		})

		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("rescheduling onto own interval", func(t *testing.T) {
		f := newFixture()
		f.appointments = []*domain.Appointment{appointment(5, "09:00", "09:30", domain.StatusPending)}

		err := f.engine().ValidateBookingSlot(ctx, ValidateRequest{
			BusinessID: 1, ServiceID: 10, Date: testDate, Interval: interval("09:00", "09:30"),
			ExcludeAppointmentID: 5,
		})

		assert.NoError(t, err)
	})

	t.Run("invalid interval is rejected before any lookup", func(t *testing.T) {
		f := newFixture()
		f.business = nil

		err := f.engine().ValidateBookingSlot(ctx, ValidateRequest{
			BusinessID: 1, ServiceID: 10, Date: testDate, Interval: interval("10:00", "09:30"),
		})

		assert.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("closed day", func(t *testing.T) {
		f := newFixture()

		err := f.engine().ValidateBookingSlot(ctx, ValidateRequest{
			BusinessID: 1, ServiceID: 10, Date: testDate.AddDate(0, 0, 1), Interval: interval("09:00", "09:30"),
		})

		assert.ErrorIs(t, err, ErrOutOfSchedule)
	})

	t.Run("unknown service", func(t *testing.T) {
		f := newFixture()

		err := f.engine().ValidateBookingSlot(ctx, ValidateRequest{
			BusinessID: 1, ServiceID: 99, Date: testDate, Interval: interval("09:00", "09:30"),
		})

		assert.ErrorIs(t, err, ErrNotFound)
	})
}
