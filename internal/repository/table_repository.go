package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-service/internal/model"
)

// TableRepo provides data access to restaurant_tables.  Methods with a Tx
// suffix run inside a caller supplied transaction; the caller commits or
// rolls back.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// DB exposes the underlying handle so services can begin transactions.
func (r *TableRepo) DB() *sql.DB { return r.db }

const tableColumns = `id, table_number, seats, is_smoking, status, qr_code_url, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTable(row rowScanner) (*model.Table, error) {
	var t model.Table
	var qr sql.NullString
	if err := row.Scan(&t.ID, &t.Number, &t.Seats, &t.IsSmoking, &t.Status, &qr, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if qr.Valid {
		s := qr.String
		t.QRCodeURL = &s
	}
	return &t, nil
}

// List returns every table ordered by table number.
func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+tableColumns+` FROM restaurant_tables ORDER BY table_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Table{}
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// GetByID returns a single table or ErrTableNotFound.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	t, err := scanTable(r.db.QueryRowContext(ctx, `SELECT `+tableColumns+` FROM restaurant_tables WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	return t, err
}

// GetByIDForUpdateTx loads a table and locks its row until the
// transaction ends.
func (r *TableRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Table, error) {
	t, err := scanTable(tx.QueryRowContext(ctx, `SELECT `+tableColumns+` FROM restaurant_tables WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	return t, err
}

// FindBestFitTx returns the smallest available table that seats the party
// and has no confirmed reservation for the same date and time.  Rows
// already locked by a concurrent allocation are skipped, so two requests
// never receive the same table.  It returns nil, nil when nothing fits.
func (r *TableRepo) FindBestFitTx(ctx context.Context, tx *sql.Tx, partySize int, date, at string) (*model.Table, error) {
	const q = `SELECT ` + tableColumns + `
		FROM restaurant_tables t
		WHERE t.seats >= $1
		  AND t.status = 'available'
		  AND NOT EXISTS (
		      SELECT 1 FROM reservations r
		      WHERE r.table_id = t.id
		        AND r.status = 'confirmed'
		        AND r.reservation_date = $2
		        AND r.reservation_time = $3
		  )
		ORDER BY t.seats, t.id
		LIMIT 1
		FOR UPDATE SKIP LOCKED`
	t, err := scanTable(tx.QueryRowContext(ctx, q, partySize, date, at))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// MarkReservedTx moves an available table to reserved.  It reports false
// when the table was not available, leaving its status untouched.
func (r *TableRepo) MarkReservedTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE restaurant_tables SET status = 'reserved', updated_at = NOW() WHERE id = $1 AND status = 'available'`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// HasConfirmedAtTx reports whether the table already holds a confirmed
// reservation for the slot.
func (r *TableRepo) HasConfirmedAtTx(ctx context.Context, tx *sql.Tx, id uint64, date, at string) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reservations WHERE table_id = $1 AND status = 'confirmed' AND reservation_date = $2 AND reservation_time = $3)`,
		id, date, at).Scan(&exists)
	return exists, err
}

// HasActiveReservationsTx reports whether any confirmed reservation
// references the table.
func (r *TableRepo) HasActiveReservationsTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reservations WHERE table_id = $1 AND status = 'confirmed')`, id).Scan(&exists)
	return exists, err
}

// CreateTx inserts a table and fills in the generated columns.  A taken
// table number yields ErrDuplicateTableNumber.
func (r *TableRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *model.Table) error {
	if t.Status == "" {
		t.Status = model.TableAvailable
	}
	err := tx.QueryRowContext(ctx,
		`INSERT INTO restaurant_tables (table_number, seats, is_smoking, status, qr_code_url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		t.Number, t.Seats, t.IsSmoking, t.Status, nullString(t.QRCodeURL),
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateTableNumber
	}
	return err
}

// SetQRCodeTx stores the QR code URL for a table.
func (r *TableRepo) SetQRCodeTx(ctx context.Context, tx *sql.Tx, id uint64, url string) error {
	_, err := tx.ExecContext(ctx, `UPDATE restaurant_tables SET qr_code_url = $1, updated_at = NOW() WHERE id = $2`, url, id)
	return err
}

// UpdateStatusTx writes a new status and returns the updated row.
func (r *TableRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) (*model.Table, error) {
	t, err := scanTable(tx.QueryRowContext(ctx,
		`UPDATE restaurant_tables SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING `+tableColumns, status, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	return t, err
}

// DeleteTx removes a table row.
func (r *TableRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM restaurant_tables WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTableNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
