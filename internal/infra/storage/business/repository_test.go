package business

import (
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow раскладывает значения по указателям, как *sql.Row.Scan
type fakeRow struct {
	values []interface{}
	err    error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

func TestScanBusiness(t *testing.T) {
	created := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)

	b, err := scanBusiness(fakeRow{values: []interface{}{
		int64(3),
		"Barber on Main",
		"America/Argentina/Buenos_Aires",
		int64(100),
		true,
		sql.NullTime{Time: created, Valid: true},
		sql.NullTime{},
	}})

	require.NoError(t, err)
	assert.Equal(t, int64(3), b.ID)
	assert.Equal(t, "Barber on Main", b.Name)
	assert.Equal(t, int64(100), b.OwnerUserID)
	assert.True(t, b.IsActive)
	assert.Equal(t, created, b.CreatedAt)
	assert.True(t, b.UpdatedAt.IsZero())
	assert.True(t, b.IsOwner(100))
	assert.Equal(t, "America/Argentina/Buenos_Aires", b.Location().String())
}

func TestScanBusiness_Errors(t *testing.T) {
	t.Run("no rows passes through", func(t *testing.T) {
		_, err := scanBusiness(fakeRow{err: sql.ErrNoRows})
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("driver error passes through", func(t *testing.T) {
		boom := errors.New("driver: bad connection")
		_, err := scanBusiness(fakeRow{err: boom})
		assert.ErrorIs(t, err, boom)
	})
}
