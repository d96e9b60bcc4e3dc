package reschedule_appointment

import (
	"time"

	"github.com/m04kA/TurnsBookingService/pkg/types"
)

// Request модель запроса на перенос записи
type Request struct {
	UserID        int64            // ID пользователя (из X-User-ID)
	AppointmentID int64            // ID переносимой записи
	Date          time.Time        // Новая дата
	StartTime     types.TimeString // Новое начало
	EndTime       types.TimeString // Новый конец, пусто - начало + длительность услуги
}

// Response модель ответа с перенесённой записью
type Response struct {
	ID          int64
	BusinessID  int64
	ServiceID   int64
	CustomerID  int64
	Date        time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	Status      string
	ServiceName string
	Notes       *string
	UpdatedAt   time.Time
}
