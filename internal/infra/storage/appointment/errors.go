package appointment

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotNotAvailable интервал занят: сработал appointments_no_overlap
	// или конкурентная сериализуемая транзакция откатилась
	ErrSlotNotAvailable = errors.New("appointment.repository: slot not available")

	// ErrTransaction возвращается, когда операция требует транзакции, а её нет
	ErrTransaction = errors.New("appointment.repository: transaction error")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)

// Коды ошибок PostgreSQL, означающие занятость интервала
const (
	pgExclusionViolation  pq.ErrorCode = "23P01"
	pgSerializationFailed pq.ErrorCode = "40001"
	pgDeadlockDetected    pq.ErrorCode = "40P01"
)

// IsSlotTaken true, если ошибка БД означает, что интервал уже занят
func IsSlotTaken(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case pgExclusionViolation, pgSerializationFailed, pgDeadlockDetected:
		return true
	}
	return false
}

// wrapDBError переводит ошибку БД в ErrSlotNotAvailable или в fallback
// *pq.Error остаётся в цепочке
func wrapDBError(fallback error, op string, err error) error {
	if IsSlotTaken(err) {
		return fmt.Errorf("%w: %s: %w", ErrSlotNotAvailable, op, err)
	}
	return fmt.Errorf("%w: %s: %w", fallback, op, err)
}

// wrapWriteError переводит ошибку записи в ErrSlotNotAvailable или ErrExecQuery
func wrapWriteError(op string, err error) error {
	return wrapDBError(ErrExecQuery, op, err)
}
