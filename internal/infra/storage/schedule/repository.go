package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/TurnsBookingService/internal/domain"
	"github.com/m04kA/TurnsBookingService/pkg/dbmetrics"
	"github.com/m04kA/TurnsBookingService/pkg/psqlbuilder"
)

const table = "weekly_schedules"

var columns = []string{
	"id",
	"business_id",
	"day_of_week",
	"start_time",
	"end_time",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий недельного расписания
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBusinessAndDay получает расписание бизнеса на день недели (0 = воскресенье)
func (r *Repository) GetByBusinessAndDay(ctx context.Context, businessID int64, dayOfWeek int) (*domain.WeeklySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"business_id": businessID, "day_of_week": dayOfWeek}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessAndDay - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSchedule(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessAndDay - scan schedule: %v", ErrScanRow, err)
	}

	return s, nil
}

// GetByBusiness получает всю неделю бизнеса, упорядоченную по дню
func (r *Repository) GetByBusiness(ctx context.Context, businessID int64) ([]*domain.WeeklySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("day_of_week ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusiness - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusiness - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedules := make([]*domain.WeeklySchedule, 0, 7)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByBusiness - scan row: %v", ErrScanRow, err)
		}
		schedules = append(schedules, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByBusiness - rows error: %v", ErrScanRow, err)
	}

	return schedules, nil
}

// Upsert создаёт или заменяет расписание на день недели
// Одна запись на (бизнес, день недели) гарантируется weekly_schedules_one_per_day
func (r *Repository) Upsert(ctx context.Context, s *domain.WeeklySchedule) (*domain.WeeklySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildUpsertQuery(s)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

func buildUpsertQuery(s *domain.WeeklySchedule) (string, []interface{}, error) {
	return psqlbuilder.Insert(table).
		Columns("business_id", "day_of_week", "start_time", "end_time", "is_active").
		Values(s.BusinessID, s.DayOfWeek, s.StartTime, s.EndTime, s.IsActive).
		Suffix("ON CONFLICT (business_id, day_of_week) DO UPDATE SET " +
			"start_time = EXCLUDED.start_time, " +
			"end_time = EXCLUDED.end_time, " +
			"is_active = EXCLUDED.is_active, " +
			"updated_at = NOW() " +
			"RETURNING id, created_at, updated_at").
		ToSql()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSchedule(row rowScanner) (*domain.WeeklySchedule, error) {
	var s domain.WeeklySchedule
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.BusinessID,
		&s.DayOfWeek,
		&s.StartTime,
		&s.EndTime,
		&s.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}
