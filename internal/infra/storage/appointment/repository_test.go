package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TurnsBookingService/internal/domain"
	"github.com/m04kA/TurnsBookingService/pkg/dbmetrics"
)

// recordingTx запоминает запросы и возвращает заданную ошибку
type recordingTx struct {
	queries []string
	args    [][]interface{}
	err     error
}

func (t *recordingTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	t.queries = append(t.queries, query)
	t.args = append(t.args, args)
	return nil, t.err
}

func (t *recordingTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	t.queries = append(t.queries, query)
	t.args = append(t.args, args)
	return nil, t.err
}

func (t *recordingTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	panic("not used")
}

func (t *recordingTx) Commit() error   { return nil }
func (t *recordingTx) Rollback() error { return nil }

var day = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

func TestBuildFilterQuery(t *testing.T) {
	confirmed := domain.StatusConfirmed
	other := day.AddDate(0, 0, 7)

	tests := []struct {
		name        string
		filter      domain.AppointmentsFilter
		inTx        bool
		contains    []string
		notContains []string
		args        []interface{}
	}{
		{
			name:        "active only by default",
			filter:      domain.AppointmentsFilter{BusinessID: 1},
			contains:    []string{"business_id = $1", "status NOT IN ($2,$3,$4)", "ORDER BY appointment_date DESC, start_time DESC"},
			notContains: []string{"FOR UPDATE"},
			args:        []interface{}{int64(1), "CANCELLED", "COMPLETED", "NO_SHOW"},
		},
		{
			name:        "include inactive",
			filter:      domain.AppointmentsFilter{BusinessID: 1, IncludeInactive: true},
			notContains: []string{"NOT IN"},
		},
		{
			name:     "explicit status",
			filter:   domain.AppointmentsFilter{BusinessID: 1, Status: &confirmed},
			contains: []string{"status = $2"},
		},
		{
			name:        "single day outside transaction",
			filter:      domain.AppointmentsFilter{BusinessID: 1, StartDate: &day, EndDate: &day},
			contains:    []string{"appointment_date >= $2", "appointment_date <= $3", "ORDER BY start_time ASC"},
			notContains: []string{"FOR UPDATE"},
		},
		{
			name:     "single day in transaction locks rows",
			filter:   domain.AppointmentsFilter{BusinessID: 1, StartDate: &day, EndDate: &day},
			inTx:     true,
			contains: []string{"ORDER BY start_time ASC FOR UPDATE"},
		},
		{
			name:        "period in transaction does not lock",
			filter:      domain.AppointmentsFilter{BusinessID: 1, StartDate: &day, EndDate: &other},
			inTx:        true,
			notContains: []string{"FOR UPDATE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildFilterQuery(tt.filter, tt.inTx)

			require.NoError(t, err)
			assert.Contains(t, query, "FROM appointments")
			for _, s := range tt.contains {
				assert.Contains(t, query, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, query, s)
			}
			if tt.args != nil {
				assert.Equal(t, tt.args, args)
			}
		})
	}
}

func TestRepository_GetBlockingByBusinessAndDate_LocksInTransaction(t *testing.T) {
	tx := &recordingTx{err: errors.New("boom")}
	repo := NewRepository(tx)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	_, err := repo.GetBlockingByBusinessAndDate(ctx, 3, day)

	assert.ErrorIs(t, err, ErrExecQuery)
	require.Len(t, tx.queries, 1)
	assert.Contains(t, tx.queries[0], "FOR UPDATE")
	assert.Contains(t, tx.queries[0], "status NOT IN")
}

func TestRepository_LockDay(t *testing.T) {
	t.Run("requires transaction", func(t *testing.T) {
		repo := NewRepository(&recordingTx{})

		err := repo.LockDay(context.Background(), 1, day)

		assert.ErrorIs(t, err, ErrTransaction)
	})

	t.Run("takes advisory lock by day key", func(t *testing.T) {
		tx := &recordingTx{}
		repo := NewRepository(tx)

		err := repo.LockDay(dbmetrics.WithTx(context.Background(), tx), 1, day)

		require.NoError(t, err)
		require.Len(t, tx.queries, 1)
		assert.Equal(t, "SELECT pg_advisory_xact_lock(hashtext($1))", tx.queries[0])
		assert.Equal(t, []interface{}{"appointments:1:2025-10-15"}, tx.args[0])
	})
}

func TestRepository_Reschedule_MapsOverlap(t *testing.T) {
	tx := &recordingTx{err: &pq.Error{Code: "23P01", Constraint: "appointments_no_overlap"}}
	repo := NewRepository(tx)

	err := repo.Reschedule(context.Background(), 1, day, "10:00", "10:30")

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestIsSlotTaken(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "exclusion violation", err: &pq.Error{Code: "23P01"}, want: true},
		{name: "serialization failure", err: &pq.Error{Code: "40001"}, want: true},
		{name: "wrapped serialization failure", err: fmt.Errorf("commit: %w", &pq.Error{Code: "40001"}), want: true},
		{name: "deadlock", err: &pq.Error{Code: "40P01"}, want: true},
		{name: "unique violation", err: &pq.Error{Code: "23505"}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSlotTaken(tt.err))
		})
	}
}

func TestRepository_ReadsInTransactionKeepSlotErrors(t *testing.T) {
	tests := []struct {
		name    string
		call    func(repo *Repository, ctx context.Context) error
		dbErr   error
		wantErr error
		code    pq.ErrorCode
	}{
		{
			name: "serialization failure on day read",
			call: func(repo *Repository, ctx context.Context) error {
				_, err := repo.GetBlockingByBusinessAndDate(ctx, 1, day)
				return err
			},
			dbErr:   &pq.Error{Code: "40001"},
			wantErr: ErrSlotNotAvailable,
			code:    "40001",
		},
		{
			name: "deadlock on day lock",
			call: func(repo *Repository, ctx context.Context) error {
				return repo.LockDay(ctx, 1, day)
			},
			dbErr:   &pq.Error{Code: "40P01"},
			wantErr: ErrSlotNotAvailable,
			code:    "40P01",
		},
		{
			name: "other driver error on lock",
			call: func(repo *Repository, ctx context.Context) error {
				return repo.LockDay(ctx, 1, day)
			},
			dbErr:   &pq.Error{Code: "57014"},
			wantErr: ErrExecQuery,
			code:    "57014",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &recordingTx{err: tt.dbErr}
			repo := NewRepository(tx)

			err := tt.call(repo, dbmetrics.WithTx(context.Background(), tx))

			assert.ErrorIs(t, err, tt.wantErr)
			var pqErr *pq.Error
			require.ErrorAs(t, err, &pqErr)
			assert.Equal(t, tt.code, pqErr.Code)
		})
	}
}
