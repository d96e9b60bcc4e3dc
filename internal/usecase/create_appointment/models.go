package create_appointment

import (
	"time"

	"github.com/m04kA/TurnsBookingService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	CustomerID int64            // ID клиента (из X-User-ID)
	BusinessID int64            // ID бизнеса
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Начало слота, например "10:00"
	EndTime    types.TimeString // Конец слота, пусто - начало + длительность услуги
	Notes      *string          // Комментарий клиента (опционально)
}

// Response модель ответа с созданной записью
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
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
