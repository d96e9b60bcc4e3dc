package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/TurnsBookingService/internal/domain"
	"github.com/m04kA/TurnsBookingService/internal/service/availability"
)

// UseCase use case для получения слотов дня
type UseCase struct {
	engine      SlotEngine
	metrics     Metrics
	serviceName string
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(engine SlotEngine, metrics Metrics, serviceName string, logger Logger) *UseCase {
	return &UseCase{
		engine:      engine,
		metrics:     metrics,
		serviceName: serviceName,
		logger:      logger,
	}
}

// Execute выполняет use case получения слотов
// Возвращает все слоты дня с признаком доступности, а не только свободные
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, business=%d, service=%d, date=%s",
		req.UserID, req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Считаем слоты
	started := time.Now()
	slots, err := uc.engine.ComputeAvailableSlots(ctx, req.BusinessID, req.ServiceID, req.Date)
	uc.metrics.ObserveSlotComputation(uc.serviceName, time.Since(started))

	if err != nil {
		switch {
		case errors.Is(err, availability.ErrBusinessNotFound):
			uc.logger.Warn("GetAvailableSlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		case errors.Is(err, availability.ErrServiceNotFound):
			uc.logger.Warn("GetAvailableSlots: service id=%d not found in business id=%d", req.ServiceID, req.BusinessID)
			return nil, ErrServiceNotFound
		default:
			uc.logger.Error("GetAvailableSlots: failed to compute slots: %v", err)
			return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
		}
	}

	// 3. Конвертируем в response
	resp := &Response{
		Date:       req.Date,
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		Slots:      make([]Slot, len(slots)),
	}

	available := 0
	for i, s := range slots {
		resp.Slots[i] = Slot{StartTime: s.StartTime, EndTime: s.EndTime, Available: s.Available}
		if s.Available {
			available++
		}
	}

	uc.logger.Info("GetAvailableSlots: %d slots, %d available for business=%d on %s",
		len(slots), available, req.BusinessID, req.Date.Format(domain.DateFormat))

	return resp, nil
}
