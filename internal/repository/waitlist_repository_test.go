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

var waitlistCols = []string{"id", "customer_name", "customer_email", "customer_phone", "party_size",
	"requested_date", "requested_time", "status", "estimated_wait_time", "notified", "special_requests",
	"created_at", "updated_at"}

func TestWaitlistRepo_SlotLockCountInsert(t *testing.T) {
	db, mock := newMock(t)
	repo := NewWaitlistRepo(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("waitlist:2099-06-01 18:30").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM waitlist_entries")).
		WithArgs("2099-06-01", "18:30").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO waitlist_entries")).
		WithArgs("Alice", nil, "555-1111", 2, "2099-06-01", "18:30", model.WaitlistWaiting, 30, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "notified", "created_at", "updated_at"}).AddRow(5, false, now, now))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.LockSlotTx(ctx, tx, "2099-06-01", "18:30"))
	n, err := repo.CountWaitingTx(ctx, tx, "2099-06-01", "18:30")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	e := &model.WaitlistEntry{CustomerName: "Alice", CustomerPhone: "555-1111", PartySize: 2,
		Date: "2099-06-01", Time: "18:30", EstimatedWaitTime: 30}
	require.NoError(t, repo.CreateTx(ctx, tx, e))
	require.NoError(t, tx.Commit())
	assert.Equal(t, uint64(5), e.ID)
	assert.Equal(t, model.WaitlistWaiting, e.Status)
}

func TestWaitlistRepo_Update(t *testing.T) {
	db, mock := newMock(t)
	repo := NewWaitlistRepo(db)
	now := time.Now()
	status := model.WaitlistSeated

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE waitlist_entries SET status = $1, updated_at = NOW() WHERE id = $2")).
		WithArgs(status, uint64(5)).
		WillReturnRows(sqlmock.NewRows(waitlistCols).
			AddRow(5, "Alice", nil, "555-1111", 2, "2099-06-01", "18:30", "seated", 0, false, nil, now, now))

	e, err := repo.Update(context.Background(), 5, WaitlistPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, model.WaitlistSeated, e.Status)
}

func TestWaitlistRepo_Delete_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewWaitlistRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM waitlist_entries WHERE id = $1")).
		WithArgs(uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 8), ErrWaitlistEntryNotFound)
}
