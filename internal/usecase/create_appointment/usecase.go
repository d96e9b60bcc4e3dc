package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TurnsBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/TurnsBookingService/internal/integrations/notifier"
	"github.com/m04kA/TurnsBookingService/internal/service/availability"
)

const operation = "create"

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
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
		serviceRepo:     serviceRepo,
		validator:       validator,
		keyLock:         keyLock,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		serviceName:     serviceName,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
//
// Проверка интервала и вставка идут в одной транзакции под блокировкой дня бизнеса:
// сначала внутрипроцессной (keylock), затем pg_advisory_xact_lock для нескольких инстансов.
// Блокировка дня - первый запрос транзакции (READ COMMITTED), поэтому чтение записей дня
// после неё видит всё, что закоммитил предыдущий владелец блокировки.
// Из двух одновременных запросов на один интервал успешен ровно один, второй получает ErrConflict.
// Ограничение appointments_no_overlap остаётся последним рубежом.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	defer func() {
		uc.metrics.IncBookingAttempt(uc.serviceName, operation, outcome(err))
	}()

	uc.logger.Info("CreateAppointment: customer=%d, business=%d, service=%d, date=%s, time=%s",
		req.CustomerID, req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу: длительность и название для денормализации
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive || !service.BelongsTo(req.BusinessID) {
		uc.logger.Warn("CreateAppointment: service id=%d is not offered by business id=%d", req.ServiceID, req.BusinessID)
		return nil, ErrServiceNotFound
	}

	// 3. Конец интервала
	endTime, err := resolveEnd(req.StartTime, req.EndTime, service.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, err
	}

	// 4. Блокируем день бизнеса в процессе
	unlock, err := uc.keyLock.Lock(ctx, appointmentRepo.DayLockKey(req.BusinessID, req.Date))
	if err != nil {
		uc.logger.Warn("CreateAppointment: waiting for day lock aborted: %v", err)
		return nil, fmt.Errorf("%w: day lock: %v", ErrInternal, err)
	}
	defer unlock()

	var result *domain.Appointment

	// 5. Проверка и вставка в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 5.1. Блокируем день бизнеса в БД (первым запросом транзакции)
		if err := uc.appointmentRepo.LockDay(txCtx, req.BusinessID, req.Date); err != nil {
			return err
		}

		// 5.2. Проверяем интервал по текущим записям (строки дня под FOR UPDATE)
		if err := uc.validator.ValidateBookingSlot(txCtx, availability.ValidateRequest{
			BusinessID: req.BusinessID,
			ServiceID:  req.ServiceID,
			Date:       req.Date,
			Interval:   domain.Interval{Start: req.StartTime, End: endTime},
		}); err != nil {
			return err
		}

		// 5.3. Сохраняем запись
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			BusinessID:      req.BusinessID,
			ServiceID:       req.ServiceID,
			CustomerID:      req.CustomerID,
			AppointmentDate: req.Date,
			StartTime:       req.StartTime,
			EndTime:         endTime,
			Status:          domain.StatusPending,
			ServiceName:     service.Name,
			Notes:           req.Notes,
		})
		if err != nil {
			return err
		}

		result = created
		return nil
	})

	if err != nil {
		mapped := mapSlotError(err)
		if errors.Is(mapped, ErrInternal) {
			uc.logger.Error("CreateAppointment: failed for business=%d on %s %s: %v",
				req.BusinessID, req.Date.Format(domain.DateFormat), req.StartTime, err)
		} else {
			uc.logger.Warn("CreateAppointment: rejected for business=%d on %s %s: %v",
				req.BusinessID, req.Date.Format(domain.DateFormat), req.StartTime, err)
		}
		return nil, mapped
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 6. Уведомляем подписчиков (после коммита, без влияния на результат)
	event := notifier.NewEvent(notifier.EventAppointmentCreated, result, uc.timeProvider.Now())
	if err := uc.notifier.PublishWithGracefulDegradation(ctx, event); err != nil {
		uc.logger.Warn("CreateAppointment: notification for id=%d not delivered: %v", result.ID, err)
	}

	return &Response{
		ID:          result.ID,
		BusinessID:  result.BusinessID,
		ServiceID:   result.ServiceID,
		CustomerID:  result.CustomerID,
		Date:        result.AppointmentDate,
		StartTime:   result.StartTime,
		EndTime:     result.EndTime,
		Status:      string(result.Status),
		ServiceName: result.ServiceName,
		Notes:       result.Notes,
		CreatedAt:   result.CreatedAt,
		UpdatedAt:   result.UpdatedAt,
	}, nil
}
