package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TurnsBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/appointment"
	businessRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/business"
	"github.com/m04kA/TurnsBookingService/internal/integrations/notifier"
	"github.com/m04kA/TurnsBookingService/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	businessRepo    BusinessRepository
	txManager       TransactionManager
	notifier        Notifier
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	businessRepo BusinessRepository,
	txManager TransactionManager,
	notifier Notifier,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		businessRepo:    businessRepo,
		txManager:       txManager,
		notifier:        notifier,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Видеть запись может её клиент или владелец бизнеса
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appointment, err := s.getAppointment(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkParticipantAccess(ctx, appointment, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, err
	}

	return models.FromDomainAppointment(appointment), nil
}

// ListByCustomer получает историю записей клиента
// Клиент видит только свои записи
func (s *Service) ListByCustomer(ctx context.Context, req *models.GetCustomerAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByCustomer: fetching appointments for customer=%d, status=%v", req.CustomerID, req.Status)

	if req.UserID != req.CustomerID {
		s.logger.Warn("ListByCustomer: user=%d requested appointments of customer=%d", req.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	var status *domain.AppointmentStatus
	if req.Status != nil {
		st, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListByCustomer: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &st
	}

	appointments, err := s.appointmentRepo.GetByCustomerID(ctx, req.CustomerID, status)
	if err != nil {
		s.logger.Error("ListByCustomer: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: ListByCustomer - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByCustomer: fetched %d appointments for customer=%d", len(appointments), req.CustomerID)
	return models.FromDomainAppointmentList(appointments), nil
}

// ListByBusiness получает записи бизнеса с фильтрацией по периоду и статусу
// Доступно только владельцу бизнеса
func (s *Service) ListByBusiness(ctx context.Context, req *models.GetBusinessAppointmentsRequest) (*models.AppointmentListResponse, error) {
	logMsg := fmt.Sprintf("ListByBusiness: fetching appointments for business=%d, user=%d", req.BusinessID, req.UserID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info("%s", logMsg)

	if err := s.checkOwnerAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListByBusiness: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListByBusiness: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: ListByBusiness - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByBusiness: fetched %d appointments for business=%d", len(appointments), req.BusinessID)
	return models.FromDomainAppointmentList(appointments), nil
}

// UpdateStatus меняет статус записи по машине состояний
// Доступно только владельцу бизнеса
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d", id, req.Status, req.UserID)

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var updated *domain.Appointment
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Внутри транзакции строка записи блокируется до конца изменения
		appointment, err := s.getAppointment(txCtx, "UpdateStatus", id)
		if err != nil {
			return err
		}

		if err := s.checkOwnerAccess(txCtx, appointment.BusinessID, req.UserID); err != nil {
			return err
		}

		if !appointment.Status.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for appointment id=%d",
				appointment.Status, newStatus, id)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, newStatus)
		}

		if newStatus == domain.StatusCancelled {
			err = s.appointmentRepo.Cancel(txCtx, id, nil)
		} else {
			err = s.appointmentRepo.UpdateStatus(txCtx, id, newStatus)
		}
		if err != nil {
			return s.mapWriteError("UpdateStatus", id, err)
		}

		appointment.Status = newStatus
		updated = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	eventType := notifier.EventAppointmentStatus
	if newStatus == domain.StatusCancelled {
		eventType = notifier.EventAppointmentCancelled
	}
	s.publish(ctx, eventType, updated)

	s.logger.Info("UpdateStatus: appointment id=%d is now %s", id, newStatus)
	return models.FromDomainAppointment(updated), nil
}

// Cancel отменяет запись
// Отменить может клиент записи или владелец бизнеса, только пока запись PENDING/CONFIRMED
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", id, req.UserID)

	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	var cancelled *domain.Appointment
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.getAppointment(txCtx, "Cancel", id)
		if err != nil {
			return err
		}

		if err := s.checkParticipantAccess(txCtx, appointment, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to appointment id=%d", req.UserID, id)
			return err
		}

		if !appointment.CanBeCancelled() {
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appointment.Status)
			return ErrCannotCancel
		}

		if err := s.appointmentRepo.Cancel(txCtx, id, req.CancellationReason); err != nil {
			return s.mapWriteError("Cancel", id, err)
		}

		now := s.timeProvider.Now()
		appointment.Status = domain.StatusCancelled
		appointment.CancellationReason = req.CancellationReason
		appointment.CancelledAt = &now
		cancelled = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, notifier.EventAppointmentCancelled, cancelled)

	s.logger.Info("Cancel: appointment id=%d cancelled", id)
	return models.FromDomainAppointment(cancelled), nil
}

// Вспомогательные методы

func (s *Service) getAppointment(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}

func (s *Service) mapWriteError(op string, id int64, err error) error {
	if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		s.logger.Warn("%s: appointment id=%d disappeared during update", op, id)
		return ErrAppointmentNotFound
	}
	s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

// checkParticipantAccess клиент записи или владелец бизнеса
func (s *Service) checkParticipantAccess(ctx context.Context, appointment *domain.Appointment, userID int64) error {
	if appointment.CustomerID == userID {
		return nil
	}

	if err := s.checkOwnerAccess(ctx, appointment.BusinessID, userID); err != nil {
		if errors.Is(err, ErrInternal) {
			return err
		}
		return ErrAccessDenied
	}

	return nil
}

// checkOwnerAccess проверяет, что пользователь владелец бизнеса
func (s *Service) checkOwnerAccess(ctx context.Context, businessID int64, userID int64) error {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("checkOwnerAccess: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkOwnerAccess: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: checkOwnerAccess - failed to get business: %v", ErrInternal, err)
	}

	if !business.IsOwner(userID) {
		s.logger.Warn("checkOwnerAccess: user=%d is not the owner of business=%d", userID, businessID)
		return ErrAccessDenied
	}

	return nil
}

// publish отправляет событие, ошибка доставки не влияет на результат операции
func (s *Service) publish(ctx context.Context, eventType notifier.EventType, appointment *domain.Appointment) {
	event := notifier.NewEvent(eventType, appointment, s.timeProvider.Now())
	if err := s.notifier.PublishWithGracefulDegradation(ctx, event); err != nil {
		s.logger.Warn("publish: %s for appointment id=%d not delivered: %v", eventType, appointment.ID, err)
	}
}
