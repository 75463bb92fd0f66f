package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-service/internal/model"
)

var reservationCols = []string{"id", "customer_name", "customer_email", "customer_phone", "party_size",
	"reservation_date", "reservation_time", "table_id", "status", "special_requests", "created_at", "updated_at"}

func TestReservationRepo_CreateTx_Waitlisted(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepo(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reservations")).
		WithArgs("Bob", nil, "555-2222", 12, "2099-06-01", "19:00", nil, model.ReservationWaitlist, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(11, now, now))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	res := &model.Reservation{
		CustomerName: "Bob", CustomerPhone: "555-2222", PartySize: 12,
		Date: "2099-06-01", Time: "19:00", Status: model.ReservationWaitlist,
	}
	require.NoError(t, repo.CreateTx(context.Background(), tx, res))
	require.NoError(t, tx.Commit())
	assert.Equal(t, uint64(11), res.ID)
	assert.Nil(t, res.TableID)
}

func TestReservationRepo_List_Filters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepo(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE reservation_date = $1 AND status = $2 ORDER BY reservation_date, reservation_time, id")).
		WithArgs("2099-06-01", "confirmed").
		WillReturnRows(sqlmock.NewRows(reservationCols).
			AddRow(1, "Ann", "ann@example.com", "555", 2, "2099-06-01", "18:00", 3, "confirmed", nil, now, now))

	list, err := repo.List(context.Background(), ReservationFilter{Date: "2099-06-01", Status: "confirmed"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].TableID)
	assert.Equal(t, uint64(3), *list[0].TableID)
	require.NotNil(t, list[0].CustomerEmail)
	assert.Equal(t, "ann@example.com", *list[0].CustomerEmail)
	assert.Nil(t, list[0].SpecialRequests)
}

func TestReservationRepo_Update_BuildsSetClause(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepo(db)
	now := time.Now()
	status := model.ReservationCancelled
	size := 4

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE reservations SET status = $1, party_size = $2, updated_at = NOW() WHERE id = $3 RETURNING")).
		WithArgs(status, size, uint64(9)).
		WillReturnRows(sqlmock.NewRows(reservationCols).
			AddRow(9, "Ann", nil, "555", 4, "2099-06-01", "18:00", nil, "cancelled", nil, now, now))

	res, err := repo.Update(context.Background(), 9, ReservationPatch{Status: &status, PartySize: &size})
	require.NoError(t, err)
	assert.Equal(t, model.ReservationCancelled, res.Status)
	assert.Equal(t, 4, res.PartySize)
}

func TestReservationRepo_Cancel_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE reservations SET status = 'cancelled'")).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows(reservationCols))

	_, err := repo.Cancel(context.Background(), 404)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}
