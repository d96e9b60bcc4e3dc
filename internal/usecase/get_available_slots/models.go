package get_available_slots

import (
	"time"

	"github.com/m04kA/TurnsBookingService/pkg/types"
)

// Request модель запроса на получение слотов
type Request struct {
	UserID     int64     // ID пользователя (для логирования, 0 - аноним)
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	Date       time.Time // Дата (без времени)
}

// Response модель ответа со слотами дня
type Response struct {
	Date       time.Time // Дата, на которую запрашивались слоты
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	Slots      []Slot    // Все слоты дня по возрастанию начала, пусто - выходной
}

// Slot модель временного слота
type Slot struct {
	StartTime types.TimeString // "10:00"
	EndTime   types.TimeString // "10:30"
	Available bool
}
