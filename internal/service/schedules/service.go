package schedules

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TurnsBookingService/internal/domain"
	businessRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/business"
	"github.com/m04kA/TurnsBookingService/internal/service/schedules/models"
	"github.com/m04kA/TurnsBookingService/pkg/ptr"
)

// Service сервис недельного расписания бизнеса
type Service struct {
	scheduleRepo ScheduleRepository
	businessRepo BusinessRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(scheduleRepo ScheduleRepository, businessRepo BusinessRepository, logger Logger) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		businessRepo: businessRepo,
		logger:       logger,
	}
}

// GetWeek возвращает расписание бизнеса на неделю (публичный метод)
// Дни без записи в расписании - выходные и в ответ не попадают
func (s *Service) GetWeek(ctx context.Context, businessID int64) (*models.WeekResponse, error) {
	s.logger.Info("GetWeek: fetching schedule for business=%d", businessID)

	business, err := s.getActiveBusiness(ctx, "GetWeek", businessID)
	if err != nil {
		return nil, err
	}

	schedules, err := s.scheduleRepo.GetByBusiness(ctx, businessID)
	if err != nil {
		s.logger.Error("GetWeek: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetWeek - repository error: %v", ErrInternal, err)
	}

	resp := &models.WeekResponse{
		BusinessID: businessID,
		Timezone:   business.Location().String(),
		Days:       make([]models.ScheduleResponse, 0, len(schedules)),
	}
	for _, sch := range schedules {
		resp.Days = append(resp.Days, models.FromDomainSchedule(sch))
	}

	return resp, nil
}

// Upsert задаёт рабочее окно на день недели
// Доступно только владельцу бизнеса. Существующие записи не пересматриваются.
func (s *Service) Upsert(ctx context.Context, req *models.UpsertScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Upsert: setting schedule business=%d day=%d %s-%s by user=%d",
		req.BusinessID, req.DayOfWeek, req.StartTime, req.EndTime, req.UserID)

	// 1. Валидируем входные данные
	if err := validateUpsert(req); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права доступа (только владелец)
	business, err := s.getActiveBusiness(ctx, "Upsert", req.BusinessID)
	if err != nil {
		return nil, err
	}
	if !business.IsOwner(req.UserID) {
		s.logger.Warn("Upsert: user=%d is not the owner of business=%d", req.UserID, req.BusinessID)
		return nil, ErrAccessDenied
	}

	// 3. Сохраняем
	saved, err := s.scheduleRepo.Upsert(ctx, &domain.WeeklySchedule{
		BusinessID: req.BusinessID,
		DayOfWeek:  req.DayOfWeek,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		IsActive:   req.IsActive == nil || ptr.Value(req.IsActive),
	})
	if err != nil {
		s.logger.Error("Upsert: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: schedule id=%d saved for business=%d day=%d", saved.ID, req.BusinessID, req.DayOfWeek)
	resp := models.FromDomainSchedule(saved)
	return &resp, nil
}

func validateUpsert(req *models.UpsertScheduleRequest) error {
	if !domain.IsValidDayOfWeek(req.DayOfWeek) {
		return fmt.Errorf("%w: dayOfWeek must be between 0 and 6", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}
	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: endTime: %v", ErrInvalidInput, err)
	}
	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}
	return nil
}

func (s *Service) getActiveBusiness(ctx context.Context, op string, businessID int64) (*domain.Business, error) {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("%s: business id=%d not found", op, businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("%s: failed to get business id=%d: %v", op, businessID, err)
		return nil, fmt.Errorf("%w: %s - failed to get business: %v", ErrInternal, op, err)
	}
	if !business.IsActive {
		s.logger.Warn("%s: business id=%d is inactive", op, businessID)
		return nil, ErrBusinessNotFound
	}
	return business, nil
}
