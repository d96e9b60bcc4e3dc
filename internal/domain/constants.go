package domain

// Ограничения бизнес-валидации
const (
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 720 // 12 часов
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses статусы, занимающие время в расписании
var BlockingStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы, освобождающие слот
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}
