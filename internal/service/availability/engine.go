package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/TurnsBookingService/internal/domain"
	businessRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/schedule"
)

// Engine считает доступные слоты и проверяет интервалы перед записью
// Не хранит состояния: каждый вызов читает актуальные данные из репозиториев.
// Если в контексте активная транзакция, чтения идут через неё.
type Engine struct {
	businessRepo    BusinessRepository
	serviceRepo     ServiceRepository
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	timeProvider    TimeProvider
}

// NewEngine создает движок доступности
func NewEngine(
	businessRepo BusinessRepository,
	serviceRepo ServiceRepository,
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	timeProvider TimeProvider,
) *Engine {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &Engine{
		businessRepo:    businessRepo,
		serviceRepo:     serviceRepo,
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		timeProvider:    timeProvider,
	}
}

// ValidateRequest интервал, предлагаемый к записи
type ValidateRequest struct {
	BusinessID           int64
	ServiceID            int64
	Date                 time.Time
	Interval             domain.Interval
	ExcludeAppointmentID int64 // 0 - не исключать
}

// ComputeAvailableSlots возвращает все слоты дня с признаком доступности
// Пустой список, если бизнес в этот день не работает.
// Слоты упорядочены по началу, соседние стыкуются без зазора.
func (e *Engine) ComputeAvailableSlots(ctx context.Context, businessID, serviceID int64, date time.Time) ([]domain.Slot, error) {
	snapshot, err := e.snapshot(ctx, businessID, serviceID, date)
	if err != nil {
		return nil, err
	}

	return BuildSlots(*snapshot), nil
}

// ValidateBookingSlot проверяет, что интервал можно занять
// Порядок проверок: корректность интервала, попадание в расписание, момент времени, конфликты.
func (e *Engine) ValidateBookingSlot(ctx context.Context, req ValidateRequest) error {
	if !req.Interval.IsValid() {
		return fmt.Errorf("%w: start must be before end", ErrInvalidInterval)
	}

	snapshot, err := e.snapshot(ctx, req.BusinessID, req.ServiceID, req.Date)
	if err != nil {
		return err
	}

	return CheckSlot(*snapshot, req.Interval, req.ExcludeAppointmentID)
}

// snapshot собирает всё, что нужно для расчёта на дату
func (e *Engine) snapshot(ctx context.Context, businessID, serviceID int64, date time.Time) (*Snapshot, error) {
	// 1. Бизнес: нужен часовой пояс для "сейчас"
	business, err := e.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrBusinessNotFound, businessID)
		}
		return nil, fmt.Errorf("%w: snapshot - get business: %w", ErrInternal, err)
	}
	if !business.IsActive {
		return nil, fmt.Errorf("%w: id=%d is inactive", ErrBusinessNotFound, businessID)
	}

	// 2. Услуга: длительность слота
	service, err := e.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrServiceNotFound, serviceID)
		}
		return nil, fmt.Errorf("%w: snapshot - get service: %w", ErrInternal, err)
	}
	if !service.IsActive || !service.BelongsTo(businessID) {
		return nil, fmt.Errorf("%w: id=%d is not offered by business %d", ErrServiceNotFound, serviceID, businessID)
	}
	if service.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: service %d has non-positive duration", ErrInternal, serviceID)
	}

	snapshot := &Snapshot{
		DurationMinutes: service.DurationMinutes,
		Date:            date,
		Now:             e.timeProvider.Now().In(business.Location()),
	}

	// 3. Расписание на день недели, отсутствие - выходной
	schedule, err := e.scheduleRepo.GetByBusinessAndDay(ctx, businessID, domain.DayOfWeekOf(date))
	if err != nil && !errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
		return nil, fmt.Errorf("%w: snapshot - get schedule: %w", ErrInternal, err)
	}
	if schedule == nil || !schedule.IsActive {
		return snapshot, nil
	}
	snapshot.Schedule = schedule

	// 4. Занятые интервалы
	appointments, err := e.appointmentRepo.GetBlockingByBusinessAndDate(ctx, businessID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: snapshot - get appointments: %w", ErrInternal, err)
	}
	snapshot.Appointments = appointments

	return snapshot, nil
}
