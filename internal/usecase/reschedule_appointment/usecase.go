package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TurnsBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/appointment"
	businessRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/TurnsBookingService/internal/integrations/notifier"
	"github.com/m04kA/TurnsBookingService/internal/service/availability"
)

const operation = "reschedule"

// UseCase use case для переноса записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	businessRepo    BusinessRepository
	serviceRepo     ServiceRepository
	validator       SlotValidator
	keyLock         KeyLocker
	txManager       TransactionManager
	notifier        Notifier
	metrics         Metrics
	serviceName     string
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	businessRepo BusinessRepository,
	serviceRepo ServiceRepository,
	validator SlotValidator,
	keyLock KeyLocker,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	serviceName string,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		businessRepo:    businessRepo,
		serviceRepo:     serviceRepo,
		validator:       validator,
		keyLock:         keyLock,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		serviceName:     serviceName,
		timeProvider:    realTimeProvider{},
		logger:          logger,
	}
}

// Execute переносит запись на новый интервал
//
// Собственная запись не считается пересечением: перенос внутри своего же интервала допустим.
// Статус записи сохраняется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	defer func() {
		uc.metrics.IncBookingAttempt(uc.serviceName, operation, outcome(err))
	}()

	uc.logger.Info("RescheduleAppointment: id=%d, user=%d, date=%s, time=%s",
		req.AppointmentID, req.UserID, req.Date.Format(domain.DateFormat), req.StartTime)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	// 1. Запись и права доступа
	current, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	business, err := uc.businessRepo.GetByID(ctx, current.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("RescheduleAppointment: business id=%d of appointment id=%d not found", current.BusinessID, req.AppointmentID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get business id=%d: %v", current.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	if current.CustomerID != req.UserID && !business.IsOwner(req.UserID) {
		uc.logger.Warn("RescheduleAppointment: user=%d has no access to appointment id=%d", req.UserID, req.AppointmentID)
		return nil, ErrAccessDenied
	}

	if !current.CanBeRescheduled() {
		return nil, fmt.Errorf("%w: status %s", ErrCannotReschedule, current.Status)
	}

	// 2. Конец нового интервала по длительности услуги
	service, err := uc.serviceRepo.GetByID(ctx, current.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get service id=%d: %v", current.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	endTime, err := resolveEnd(req.StartTime, req.EndTime, service.DurationMinutes)
	if err != nil {
		return nil, err
	}

	// 3. Блокируем целевой день; освобождение старого интервала конфликтов не создаёт
	unlock, err := uc.keyLock.Lock(ctx, appointmentRepo.DayLockKey(current.BusinessID, req.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: day lock: %v", ErrInternal, err)
	}
	defer unlock()

	var updated *domain.Appointment

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// Блокировка дня - первым запросом, как при создании: порядок "день, затем строки" общий
		if err := uc.appointmentRepo.LockDay(txCtx, current.BusinessID, req.Date); err != nil {
			return err
		}

		// Перечитываем под FOR UPDATE: статус мог измениться
		locked, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			return err
		}
		if !locked.CanBeRescheduled() {
			return fmt.Errorf("%w: status %s", ErrCannotReschedule, locked.Status)
		}

		if err := uc.validator.ValidateBookingSlot(txCtx, availability.ValidateRequest{
			BusinessID:           locked.BusinessID,
			ServiceID:            locked.ServiceID,
			Date:                 req.Date,
			Interval:             domain.Interval{Start: req.StartTime, End: endTime},
			ExcludeAppointmentID: locked.ID,
		}); err != nil {
			return err
		}

		if err := uc.appointmentRepo.Reschedule(txCtx, locked.ID, req.Date, req.StartTime, endTime); err != nil {
			return err
		}

		locked.AppointmentDate = req.Date
		locked.StartTime = req.StartTime
		locked.EndTime = endTime
		locked.UpdatedAt = uc.timeProvider.Now()
		updated = locked
		return nil
	})

	if err != nil {
		mapped := mapError(err)
		if errors.Is(mapped, ErrInternal) {
			uc.logger.Error("RescheduleAppointment: failed for id=%d: %v", req.AppointmentID, err)
		} else {
			uc.logger.Warn("RescheduleAppointment: rejected for id=%d: %v", req.AppointmentID, err)
		}
		return nil, mapped
	}

	uc.logger.Info("RescheduleAppointment: appointment id=%d moved to %s %s-%s",
		updated.ID, updated.AppointmentDate.Format(domain.DateFormat), updated.StartTime, updated.EndTime)

	event := notifier.NewEvent(notifier.EventAppointmentRescheduled, updated, uc.timeProvider.Now())
	if err := uc.notifier.PublishWithGracefulDegradation(ctx, event); err != nil {
		uc.logger.Warn("RescheduleAppointment: notification for id=%d not delivered: %v", updated.ID, err)
	}

	return &Response{
		ID:          updated.ID,
		BusinessID:  updated.BusinessID,
		ServiceID:   updated.ServiceID,
		CustomerID:  updated.CustomerID,
		Date:        updated.AppointmentDate,
		StartTime:   updated.StartTime,
		EndTime:     updated.EndTime,
		Status:      string(updated.Status),
		ServiceName: updated.ServiceName,
		Notes:       updated.Notes,
		UpdatedAt:   updated.UpdatedAt,
	}, nil
}
