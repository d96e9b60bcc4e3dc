package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/TurnsBookingService/internal/domain"
	"github.com/m04kA/TurnsBookingService/pkg/dbmetrics"
	"github.com/m04kA/TurnsBookingService/pkg/psqlbuilder"
	"github.com/m04kA/TurnsBookingService/pkg/types"
)

const table = "appointments"

var columns = []string{
	"id",
	"business_id",
	"service_id",
	"customer_id",
	"appointment_date",
	"start_time",
	"end_time",
	"status",
	"service_name",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись
// Если в контексте передана активная транзакция, использует её.
// Пересечение с активной записью (constraint appointments_no_overlap) возвращается как ErrSlotNotAvailable.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"business_id",
			"service_id",
			"customer_id",
			"appointment_date",
			"start_time",
			"end_time",
			"status",
			"service_name",
			"notes",
		).
		Values(
			a.BusinessID,
			a.ServiceID,
			a.CustomerID,
			a.AppointmentDate,
			a.StartTime,
			a.EndTime,
			a.Status,
			a.ServiceName,
			a.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, wrapWriteError("Create - execute insert", err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции блокируем строку: перенос и смена статуса меняют её
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, wrapDBError(ErrScanRow, "GetByID - scan appointment", err)
	}

	return a, nil
}

// GetByCustomerID получает записи клиента, новые первыми
// Опционально фильтрует по статусу
func (r *Repository) GetByCustomerID(ctx context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("appointment_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetByBusinessWithFilter получает записи бизнеса с фильтрацией по периоду и статусу
//
// Примеры использования:
//
// 1. Все активные записи бизнеса:
//	filter := domain.AppointmentsFilter{BusinessID: 1}
//
// 2. Записи на конкретную дату:
//	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
//	filter := domain.AppointmentsFilter{BusinessID: 1, StartDate: &date, EndDate: &date}
//
// 3. Все записи включая отменённые:
//	filter := domain.AppointmentsFilter{BusinessID: 1, IncludeInactive: true}
func (r *Repository) GetByBusinessWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildFilterQuery(filter, dbmetrics.IsInTransaction(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(ErrExecQuery, "GetByBusinessWithFilter - execute query", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetBlockingByBusinessAndDate получает PENDING/CONFIRMED записи бизнеса на дату по возрастанию начала
// Внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) GetBlockingByBusinessAndDate(ctx context.Context, businessID int64, date time.Time) ([]*domain.Appointment, error) {
	return r.GetByBusinessWithFilter(ctx, domain.AppointmentsFilter{
		BusinessID: businessID,
		StartDate:  &date,
		EndDate:    &date,
	})
}

// LockDay берёт транзакционную advisory-блокировку на (бизнес, дата)
// Блокировка снимается при завершении транзакции. Вне транзакции возвращает ErrTransaction.
func (r *Repository) LockDay(ctx context.Context, businessID int64, date time.Time) error {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return fmt.Errorf("%w: LockDay - no active transaction", ErrTransaction)
	}

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", DayLockKey(businessID, date)); err != nil {
		return wrapDBError(ErrExecQuery, "LockDay - execute", err)
	}

	return nil
}

// DayLockKey ключ блокировки дня бизнеса
func DayLockKey(businessID int64, date time.Time) string {
	return fmt.Sprintf("appointments:%d:%s", businessID, date.Format(domain.DateFormat))
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args)
}

// Cancel отменяет запись с необязательной причиной
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Cancel", query, args)
}

// Reschedule переносит запись на другой интервал
// Пересечение с активной записью возвращается как ErrSlotNotAvailable
func (r *Repository) Reschedule(ctx context.Context, id int64, date time.Time, start, end types.TimeString) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("appointment_date", date).
		Set("start_time", start).
		Set("end_time", end).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Reschedule", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapWriteError(op+" - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// buildFilterQuery строит выборку записей бизнеса по фильтру
func buildFilterQuery(filter domain.AppointmentsFilter, inTx bool) (string, []interface{}, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"business_id": filter.BusinessID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"appointment_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"appointment_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		// Если не указан конкретный статус и не нужны неактивные - исключаем их
		inactive := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactive[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactive})
	}

	if filter.IsSingleDay() {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("appointment_date DESC", "start_time DESC")
	}

	// Блокировка строк только для одного дня - это выборка под проверку интервала
	if inTx && filter.IsSingleDay() {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return selectBuilder.ToSql()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.BusinessID,
		&a.ServiceID,
		&a.CustomerID,
		&a.AppointmentDate,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&a.ServiceName,
		&a.Notes,
		&a.CancellationReason,
		&a.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, wrapDBError(ErrScanRow, "scanAppointments - scan row", err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapDBError(ErrScanRow, "scanAppointments - rows error", err)
	}

	return appointments, nil
}
