package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/iliyamo/restaurant-service/internal/model"
)

// ReservationRepo provides data access to the reservations table.  Dates
// and times are exchanged as YYYY-MM-DD and HH:MM strings.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so services can begin transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = `id, customer_name, customer_email, customer_phone, party_size,
	to_char(reservation_date, 'YYYY-MM-DD'), to_char(reservation_time, 'HH24:MI'),
	table_id, status, special_requests, created_at, updated_at`

func scanReservation(row rowScanner) (*model.Reservation, error) {
	var res model.Reservation
	var email, special sql.NullString
	var tableID sql.NullInt64
	err := row.Scan(&res.ID, &res.CustomerName, &email, &res.CustomerPhone, &res.PartySize,
		&res.Date, &res.Time, &tableID, &res.Status, &special, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	res.CustomerEmail = stringPtr(email)
	res.SpecialRequests = stringPtr(special)
	if tableID.Valid {
		id := uint64(tableID.Int64)
		res.TableID = &id
	}
	return &res, nil
}

// CreateTx inserts a reservation inside the caller's transaction and
// populates the generated columns.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	return tx.QueryRowContext(ctx,
		`INSERT INTO reservations (customer_name, customer_email, customer_phone, party_size,
		                           reservation_date, reservation_time, table_id, status, special_requests)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		res.CustomerName, nullString(res.CustomerEmail), res.CustomerPhone, res.PartySize,
		res.Date, res.Time, nullUint(res.TableID), res.Status, nullString(res.SpecialRequests),
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
}

// GetByID returns a reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

// ReservationFilter narrows List.  Empty fields are ignored.
type ReservationFilter struct {
	Date   string
	Status string
}

// List returns reservations ordered by slot.
func (r *ReservationRepo) List(ctx context.Context, f ReservationFilter) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations`
	var where []string
	var args []any
	if f.Date != "" {
		args = append(args, f.Date)
		where = append(where, "reservation_date = $"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY reservation_date, reservation_time, id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// ReservationPatch holds the optional fields of a reservation update.
// Nil fields are left unchanged.
type ReservationPatch struct {
	Status          *string
	Date            *string
	Time            *string
	PartySize       *int
	TableID         *uint64
	SpecialRequests *string
}

// Empty reports whether the patch changes nothing.
func (p ReservationPatch) Empty() bool {
	return p.Status == nil && p.Date == nil && p.Time == nil && p.PartySize == nil &&
		p.TableID == nil && p.SpecialRequests == nil
}

// Update applies a patch and returns the updated row.  An empty patch
// behaves like GetByID.
func (r *ReservationRepo) Update(ctx context.Context, id uint64, p ReservationPatch) (*model.Reservation, error) {
	if p.Empty() {
		return r.GetByID(ctx, id)
	}
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.Date != nil {
		add("reservation_date", *p.Date)
	}
	if p.Time != nil {
		add("reservation_time", *p.Time)
	}
	if p.PartySize != nil {
		add("party_size", *p.PartySize)
	}
	if p.TableID != nil {
		add("table_id", int64(*p.TableID))
	}
	if p.SpecialRequests != nil {
		add("special_requests", *p.SpecialRequests)
	}
	args = append(args, id)
	q := `UPDATE reservations SET ` + strings.Join(sets, ", ") + `, updated_at = NOW() WHERE id = $` +
		strconv.Itoa(len(args)) + ` RETURNING ` + reservationColumns

	res, err := scanReservation(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

// Cancel marks a reservation cancelled.  Rows are never deleted.
func (r *ReservationRepo) Cancel(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		`UPDATE reservations SET status = 'cancelled', updated_at = NOW() WHERE id = $1 RETURNING `+reservationColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullUint(v *uint64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
