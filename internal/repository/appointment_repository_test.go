package repository

import (
	"context"
	"testing"

	"project_turnos/internal/entities"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccupiedReturnsBookedIntervals(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT a.time, s.duration").
		WithArgs(1, "2026-09-01").
		WillReturnRows(pgxmock.NewRows([]string{"time", "duration"}).
			AddRow("10:00", 30).
			AddRow("11:30", 60))

	repo := NewAppointmentRepository(mock)
	occupied, err := repo.Occupied(context.Background(), 1, "2026-09-01")
	require.NoError(t, err)
	require.Len(t, occupied, 2)
	assert.Equal(t, "10:00", occupied[0].Time)
	assert.Equal(t, 30, occupied[0].Duration)
	assert.Equal(t, "11:30", occupied[1].Time)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsAtTrueWhenRowPresent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT 1 FROM appointments").
		WithArgs(1, "2026-09-01", "10:00").
		WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))

	repo := NewAppointmentRepository(mock)
	taken, err := repo.ExistsAt(context.Background(), 1, "2026-09-01", "10:00")
	require.NoError(t, err)
	assert.True(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsAtFalseWhenNoRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT 1 FROM appointments").
		WithArgs(1, "2026-09-01", "16:00").
		WillReturnRows(pgxmock.NewRows([]string{"?column?"}))

	repo := NewAppointmentRepository(mock)
	taken, err := repo.ExistsAt(context.Background(), 1, "2026-09-01", "16:00")
	require.NoError(t, err)
	assert.False(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE appointments SET status").
		WithArgs(entities.StatusCancelled, 1, 99).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewAppointmentRepository(mock)
	err = repo.UpdateStatus(context.Background(), 1, 99, entities.StatusCancelled)
	assert.ErrorIs(t, err, entities.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountActiveByPhone(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(1, "5491112223334").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	repo := NewAppointmentRepository(mock)
	n, err := repo.CountActiveByPhone(context.Background(), 1, "5491112223334")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
