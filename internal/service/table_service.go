package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-service/internal/logger"
	"github.com/iliyamo/restaurant-service/internal/model"
	"github.com/iliyamo/restaurant-service/internal/qrcode"
	"github.com/iliyamo/restaurant-service/internal/repository"
)

// ErrInvalidTableToken is returned when a scanned QR token does not verify.
var ErrInvalidTableToken = errors.New("invalid table code")

// CreateTableInput describes a new table.  Without a QR code URL a signed
// one is generated.
type CreateTableInput struct {
	Number    int
	Seats     int
	IsSmoking bool
	Status    string
	QRCodeURL string
}

// TableService manages the floor plan.
type TableService struct {
	db       *sql.DB
	tables   *repository.TableRepo
	qrSecret string
	qrBase   string
}

// NewTableService wires the service.
func NewTableService(db *sql.DB, tables *repository.TableRepo, qrSecret, qrBase string) *TableService {
	return &TableService{db: db, tables: tables, qrSecret: qrSecret, qrBase: qrBase}
}

// List returns every table.
func (s *TableService) List(ctx context.Context) ([]model.Table, error) {
	return s.tables.List(ctx)
}

// Create inserts a table and its QR code URL in one transaction.
func (s *TableService) Create(ctx context.Context, in CreateTableInput) (*model.Table, error) {
	if in.Number <= 0 {
		return nil, invalidf("tableNumber must be a positive number")
	}
	if in.Seats <= 0 {
		return nil, invalidf("seats must be a positive number")
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = model.TableAvailable
	}
	if !model.IsTableStatus(status) {
		return nil, invalidf("invalid status %q", status)
	}
	t := &model.Table{Number: in.Number, Seats: in.Seats, IsSmoking: in.IsSmoking, Status: status, QRCodeURL: optional(in.QRCodeURL)}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := s.tables.CreateTx(ctx, tx, t); err != nil {
		return nil, err
	}
	if t.QRCodeURL == nil {
		token, err := qrcode.NewTableToken(s.qrSecret, t.ID, t.Number)
		if err != nil {
			return nil, fmt.Errorf("sign table token: %w", err)
		}
		url := qrcode.TableURL(s.qrBase, token)
		if err := s.tables.SetQRCodeTx(ctx, tx, t.ID, url); err != nil {
			return nil, fmt.Errorf("store qr code: %w", err)
		}
		t.QRCodeURL = &url
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	committed = true
	logger.FromContext(ctx).WithFields(logrus.Fields{"table_id": t.ID, "number": t.Number}).Info("table created")
	return t, nil
}

// UpdateStatus moves a table through its state machine.
func (s *TableService) UpdateStatus(ctx context.Context, id uint64, status string) (*model.Table, error) {
	status = strings.TrimSpace(status)
	if !model.IsTableStatus(status) {
		return nil, invalidf("invalid status %q", status)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	current, err := s.tables.GetByIDForUpdateTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(current.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, status)
	}
	updated, err := s.tables.UpdateStatusTx(ctx, tx, id, status)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	committed = true
	logger.FromContext(ctx).WithFields(logrus.Fields{"table_id": id, "from": current.Status, "to": status}).Info("table status changed")
	return updated, nil
}

// Delete removes a table that no confirmed reservation references.
func (s *TableService) Delete(ctx context.Context, id uint64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := s.tables.GetByIDForUpdateTx(ctx, tx, id); err != nil {
		return err
	}
	inUse, err := s.tables.HasActiveReservationsTx(ctx, tx, id)
	if err != nil {
		return fmt.Errorf("check reservations: %w", err)
	}
	if inUse {
		return repository.ErrTableInUse
	}
	if err := s.tables.DeleteTx(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// Scan resolves a QR token to its table.
func (s *TableService) Scan(ctx context.Context, token string) (*model.Table, error) {
	id, number, err := qrcode.ParseTableToken(s.qrSecret, strings.TrimSpace(token))
	if err != nil {
		return nil, ErrInvalidTableToken
	}
	t, err := s.tables.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Number != number {
		return nil, ErrInvalidTableToken
	}
	return t, nil
}
