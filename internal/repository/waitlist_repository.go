package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/iliyamo/restaurant-service/internal/model"
)

// WaitlistRepo provides data access to waitlist_entries.
type WaitlistRepo struct {
	db *sql.DB
}

// NewWaitlistRepo returns a WaitlistRepo bound to the given database.
func NewWaitlistRepo(db *sql.DB) *WaitlistRepo { return &WaitlistRepo{db: db} }

// DB exposes the underlying handle so services can begin transactions.
func (r *WaitlistRepo) DB() *sql.DB { return r.db }

const waitlistColumns = `id, customer_name, customer_email, customer_phone, party_size,
	to_char(requested_date, 'YYYY-MM-DD'), to_char(requested_time, 'HH24:MI'),
	status, estimated_wait_time, notified, special_requests, created_at, updated_at`

func scanWaitlistEntry(row rowScanner) (*model.WaitlistEntry, error) {
	var e model.WaitlistEntry
	var email, special sql.NullString
	err := row.Scan(&e.ID, &e.CustomerName, &email, &e.CustomerPhone, &e.PartySize,
		&e.Date, &e.Time, &e.Status, &e.EstimatedWaitTime, &e.Notified, &special, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.CustomerEmail = stringPtr(email)
	e.SpecialRequests = stringPtr(special)
	return &e, nil
}

// LockSlotTx serializes waitlist inserts for one date and time slot until
// the transaction ends.
func (r *WaitlistRepo) LockSlotTx(ctx context.Context, tx *sql.Tx, date, at string) error {
	_, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "waitlist:"+date+" "+at)
	return err
}

// CountWaitingTx counts entries still waiting for the slot.
func (r *WaitlistRepo) CountWaitingTx(ctx context.Context, tx *sql.Tx, date, at string) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM waitlist_entries WHERE requested_date = $1 AND requested_time = $2 AND status = 'waiting'`,
		date, at).Scan(&n)
	return n, err
}

// CreateTx inserts an entry inside the caller's transaction.
func (r *WaitlistRepo) CreateTx(ctx context.Context, tx *sql.Tx, e *model.WaitlistEntry) error {
	if e.Status == "" {
		e.Status = model.WaitlistWaiting
	}
	return tx.QueryRowContext(ctx,
		`INSERT INTO waitlist_entries (customer_name, customer_email, customer_phone, party_size,
		                               requested_date, requested_time, status, estimated_wait_time, special_requests)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, notified, created_at, updated_at`,
		e.CustomerName, nullString(e.CustomerEmail), e.CustomerPhone, e.PartySize,
		e.Date, e.Time, e.Status, e.EstimatedWaitTime, nullString(e.SpecialRequests),
	).Scan(&e.ID, &e.Notified, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID returns an entry or ErrWaitlistEntryNotFound.
func (r *WaitlistRepo) GetByID(ctx context.Context, id uint64) (*model.WaitlistEntry, error) {
	e, err := scanWaitlistEntry(r.db.QueryRowContext(ctx, `SELECT `+waitlistColumns+` FROM waitlist_entries WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWaitlistEntryNotFound
	}
	return e, err
}

// WaitlistFilter narrows List.  Empty fields are ignored.
type WaitlistFilter struct {
	Date   string
	Status string
}

// List returns entries in queue order.
func (r *WaitlistRepo) List(ctx context.Context, f WaitlistFilter) ([]model.WaitlistEntry, error) {
	q := `SELECT ` + waitlistColumns + ` FROM waitlist_entries`
	var where []string
	var args []any
	if f.Date != "" {
		args = append(args, f.Date)
		where = append(where, "requested_date = $"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY requested_date, requested_time, created_at, id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.WaitlistEntry{}
	for rows.Next() {
		e, err := scanWaitlistEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// WaitlistPatch holds the optional fields of a waitlist update.
type WaitlistPatch struct {
	Status   *string
	Notified *bool
}

// Update applies a patch and returns the updated entry.
func (r *WaitlistRepo) Update(ctx context.Context, id uint64, p WaitlistPatch) (*model.WaitlistEntry, error) {
	if p.Status == nil && p.Notified == nil {
		return r.GetByID(ctx, id)
	}
	var sets []string
	var args []any
	if p.Status != nil {
		args = append(args, *p.Status)
		sets = append(sets, "status = $"+strconv.Itoa(len(args)))
	}
	if p.Notified != nil {
		args = append(args, *p.Notified)
		sets = append(sets, "notified = $"+strconv.Itoa(len(args)))
	}
	args = append(args, id)
	q := `UPDATE waitlist_entries SET ` + strings.Join(sets, ", ") + `, updated_at = NOW() WHERE id = $` +
		strconv.Itoa(len(args)) + ` RETURNING ` + waitlistColumns

	e, err := scanWaitlistEntry(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWaitlistEntryNotFound
	}
	return e, err
}

// Delete removes an entry.
func (r *WaitlistRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM waitlist_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrWaitlistEntryNotFound
	}
	return nil
}

// MarkNotified records that the customer was notified about the entry.
// A missing entry is not an error; it may have been removed meanwhile.
func (r *WaitlistRepo) MarkNotified(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE waitlist_entries SET notified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	return err
}
