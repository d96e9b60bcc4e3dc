package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TurnsBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/appointment"
	businessRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/business"
	"github.com/m04kA/TurnsBookingService/internal/integrations/notifier"
	"github.com/m04kA/TurnsBookingService/internal/service/appointments/models"
	"github.com/m04kA/TurnsBookingService/pkg/logger"
	"github.com/m04kA/TurnsBookingService/pkg/ptr"
)

const (
	ownerID    int64 = 100
	customerID int64 = 7
	strangerID int64 = 55
)

type fakeAppointmentRepo struct {
	items         map[int64]*domain.Appointment
	lastFilter    domain.AppointmentsFilter
	statusUpdates []domain.AppointmentStatus
	cancelled     []int64
	failWrites    error
}

func newFakeAppointmentRepo(items ...*domain.Appointment) *fakeAppointmentRepo {
	r := &fakeAppointmentRepo{items: make(map[int64]*domain.Appointment)}
	for _, a := range items {
		r.items[a.ID] = a
	}
	return r
}

func (r *fakeAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	a, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAppointmentRepo) GetByCustomerID(ctx context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, a := range r.items {
		if a.CustomerID == customerID && (status == nil || a.Status == *status) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *fakeAppointmentRepo) GetByBusinessWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	r.lastFilter = filter
	result := make([]*domain.Appointment, 0)
	for _, a := range r.items {
		if a.BusinessID == filter.BusinessID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	if r.failWrites != nil {
		return r.failWrites
	}
	r.statusUpdates = append(r.statusUpdates, status)
	r.items[id].Status = status
	return nil
}

func (r *fakeAppointmentRepo) Cancel(ctx context.Context, id int64, reason *string) error {
	if r.failWrites != nil {
		return r.failWrites
	}
	r.cancelled = append(r.cancelled, id)
	r.items[id].Status = domain.StatusCancelled
	r.items[id].CancellationReason = reason
	return nil
}

type fakeBusinessRepo struct {
	businesses map[int64]*domain.Business
}

func (r *fakeBusinessRepo) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	b, ok := r.businesses[id]
	if !ok {
		return nil, businessRepo.ErrBusinessNotFound
	}
	return b, nil
}

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type fakeNotifier struct {
	events []notifier.Event
	err    error
}

func (n *fakeNotifier) PublishWithGracefulDegradation(ctx context.Context, event notifier.Event) error {
	n.events = append(n.events, event)
	return n.err
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fixture struct {
	repo     *fakeAppointmentRepo
	notifier *fakeNotifier
	tx       *fakeTxManager
	service  *Service
}

func newFixture(items ...*domain.Appointment) *fixture {
	f := &fixture{
		repo:     newFakeAppointmentRepo(items...),
		notifier: &fakeNotifier{},
		tx:       &fakeTxManager{},
	}
	businesses := &fakeBusinessRepo{businesses: map[int64]*domain.Business{
		1: {ID: 1, Name: "Barber", OwnerUserID: ownerID, IsActive: true},
	}}
	f.service = NewService(f.repo, businesses, f.tx, f.notifier,
		fixedTime{now: time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)}, logger.NewNop())
	return f
}

func pending(id int64) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		BusinessID:      1,
		ServiceID:       10,
		CustomerID:      customerID,
		AppointmentDate: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		EndTime:         "10:30",
		Status:          domain.StatusPending,
		ServiceName:     "Haircut",
	}
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  int64
		id      int64
		wantErr error
	}{
		{name: "customer", userID: customerID, id: 1},
		{name: "owner", userID: ownerID, id: 1},
		{name: "stranger", userID: strangerID, id: 1, wantErr: ErrAccessDenied},
		{name: "missing", userID: customerID, id: 2, wantErr: ErrAppointmentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(pending(1))

			resp, err := f.service.GetByID(ctx, tt.id, tt.userID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "2025-10-15", resp.AppointmentDate)
			assert.Equal(t, "10:00", resp.StartTime)
			assert.Equal(t, "10:30", resp.EndTime)
			assert.Equal(t, "PENDING", resp.Status)
		})
	}
}

func TestService_ListByCustomer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(pending(1), pending(2))

	resp, err := f.service.ListByCustomer(ctx, &models.GetCustomerAppointmentsRequest{UserID: customerID, CustomerID: customerID})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 2)

	_, err = f.service.ListByCustomer(ctx, &models.GetCustomerAppointmentsRequest{UserID: strangerID, CustomerID: customerID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.service.ListByCustomer(ctx, &models.GetCustomerAppointmentsRequest{
		UserID: customerID, CustomerID: customerID, Status: ptr.Ptr("BOOKED"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ListByBusiness(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	t.Run("owner with filter", func(t *testing.T) {
		f := newFixture(pending(1))

		resp, err := f.service.ListByBusiness(ctx, &models.GetBusinessAppointmentsRequest{
			UserID: ownerID, BusinessID: 1, StartDate: &date, EndDate: &date, Status: ptr.Ptr("PENDING"),
		})

		require.NoError(t, err)
		assert.Len(t, resp.Appointments, 1)
		require.NotNil(t, f.repo.lastFilter.Status)
		assert.Equal(t, domain.StatusPending, *f.repo.lastFilter.Status)
		assert.True(t, f.repo.lastFilter.IsSingleDay())
	})

	t.Run("not owner", func(t *testing.T) {
		f := newFixture(pending(1))

		_, err := f.service.ListByBusiness(ctx, &models.GetBusinessAppointmentsRequest{UserID: customerID, BusinessID: 1})

		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown business", func(t *testing.T) {
		f := newFixture()

		_, err := f.service.ListByBusiness(ctx, &models.GetBusinessAppointmentsRequest{UserID: ownerID, BusinessID: 9})

		assert.ErrorIs(t, err, ErrBusinessNotFound)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		current   domain.AppointmentStatus
		next      string
		userID    int64
		wantErr   error
		wantEvent notifier.EventType
	}{
		{name: "confirm pending", current: domain.StatusPending, next: "CONFIRMED", userID: ownerID, wantEvent: notifier.EventAppointmentStatus},
		{name: "complete confirmed", current: domain.StatusConfirmed, next: "COMPLETED", userID: ownerID, wantEvent: notifier.EventAppointmentStatus},
		{name: "no-show confirmed", current: domain.StatusConfirmed, next: "NO_SHOW", userID: ownerID, wantEvent: notifier.EventAppointmentStatus},
		{name: "cancel via status", current: domain.StatusConfirmed, next: "CANCELLED", userID: ownerID, wantEvent: notifier.EventAppointmentCancelled},
		{name: "complete pending", current: domain.StatusPending, next: "COMPLETED", userID: ownerID, wantErr: ErrInvalidTransition},
		{name: "revive cancelled", current: domain.StatusCancelled, next: "PENDING", userID: ownerID, wantErr: ErrInvalidTransition},
		{name: "customer cannot confirm", current: domain.StatusPending, next: "CONFIRMED", userID: customerID, wantErr: ErrAccessDenied},
		{name: "unknown status", current: domain.StatusPending, next: "DONE", userID: ownerID, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := pending(1)
			a.Status = tt.current
			f := newFixture(a)

			resp, err := f.service.UpdateStatus(ctx, 1, &models.UpdateStatusRequest{UserID: tt.userID, Status: tt.next})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.notifier.events)
				assert.Equal(t, tt.current, f.repo.items[1].Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.next, resp.Status)
			assert.Equal(t, domain.AppointmentStatus(tt.next), f.repo.items[1].Status)
			require.Len(t, f.notifier.events, 1)
			assert.Equal(t, tt.wantEvent, f.notifier.events[0].Type)
			assert.Equal(t, 1, f.tx.calls)
		})
	}
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("customer cancels with reason", func(t *testing.T) {
		f := newFixture(pending(1))

		resp, err := f.service.Cancel(ctx, 1, &models.CancelAppointmentRequest{UserID: customerID, CancellationReason: ptr.Ptr("sick")})

		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", resp.Status)
		require.NotNil(t, resp.CancelledAt)
		assert.Equal(t, "sick", *resp.CancellationReason)
		assert.Equal(t, []int64{1}, f.repo.cancelled)
		require.Len(t, f.notifier.events, 1)
		assert.Equal(t, notifier.EventAppointmentCancelled, f.notifier.events[0].Type)
	})

	t.Run("owner cancels", func(t *testing.T) {
		f := newFixture(pending(1))

		_, err := f.service.Cancel(ctx, 1, &models.CancelAppointmentRequest{UserID: ownerID})

		assert.NoError(t, err)
	})

	t.Run("stranger", func(t *testing.T) {
		f := newFixture(pending(1))

		_, err := f.service.Cancel(ctx, 1, &models.CancelAppointmentRequest{UserID: strangerID})

		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Empty(t, f.repo.cancelled)
	})

	t.Run("already completed", func(t *testing.T) {
		a := pending(1)
		a.Status = domain.StatusCompleted
		f := newFixture(a)

		_, err := f.service.Cancel(ctx, 1, &models.CancelAppointmentRequest{UserID: customerID})

		assert.ErrorIs(t, err, ErrCannotCancel)
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newFixture(pending(1))
		f.repo.failWrites = errors.New("connection reset")

		_, err := f.service.Cancel(ctx, 1, &models.CancelAppointmentRequest{UserID: customerID})

		assert.ErrorIs(t, err, ErrInternal)
		assert.Empty(t, f.notifier.events)
	})

	t.Run("notifier failure does not fail cancellation", func(t *testing.T) {
		f := newFixture(pending(1))
		f.notifier.err = notifier.ErrServiceDegraded

		_, err := f.service.Cancel(ctx, 1, &models.CancelAppointmentRequest{UserID: customerID})

		assert.NoError(t, err)
	})
}
