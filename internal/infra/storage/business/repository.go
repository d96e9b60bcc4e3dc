package business

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

// Repository репозиторий бизнесов (только чтение, бизнесы ведутся вне сервиса)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория бизнесов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает бизнес по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"timezone",
		"owner_user_id",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("businesses").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBusiness(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan business: %v", ErrScanRow, err)
	}

	return b, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBusiness(row rowScanner) (*domain.Business, error) {
	var b domain.Business
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Timezone,
		&b.OwnerUserID,
		&b.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}
