package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-service/internal/logger"
	"github.com/iliyamo/restaurant-service/internal/model"
	"github.com/iliyamo/restaurant-service/internal/queue"
	"github.com/iliyamo/restaurant-service/internal/repository"
)

// CreateReservationInput is a booking request.  TableID pins the booking
// to one table and skips the best-fit search.
type CreateReservationInput struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	PartySize       int
	Date            string
	Time            string
	SpecialRequests string
	TableID         *uint64
}

// ReservationResult is a created reservation and the table it got, if any.
type ReservationResult struct {
	Reservation *model.Reservation
	Table       *model.Table
}

// UpdateReservationInput lists the fields a PATCH may change.
type UpdateReservationInput struct {
	Status              *string
	Date                *string
	Time                *string
	PartySize           *int
	TableID             *uint64
	SpecialInstructions *string
}

// ReservationService allocates tables to reservations.
type ReservationService struct {
	db           *sql.DB
	tables       *repository.TableRepo
	reservations *repository.ReservationRepo
	publisher    EventPublisher
	loc          *time.Location
	now          func() time.Time
}

// NewReservationService wires the service.  loc is the restaurant's time
// zone; publisher may be nil.
func NewReservationService(db *sql.DB, tables *repository.TableRepo, reservations *repository.ReservationRepo, publisher EventPublisher, loc *time.Location) *ReservationService {
	return &ReservationService{
		db:           db,
		tables:       tables,
		reservations: reservations,
		publisher:    publisher,
		loc:          orUTC(loc),
		now:          time.Now,
	}
}

func (in CreateReservationInput) validate() error {
	var missing []string
	if strings.TrimSpace(in.CustomerName) == "" {
		missing = append(missing, "customerName")
	}
	if strings.TrimSpace(in.CustomerPhone) == "" {
		missing = append(missing, "customerPhone")
	}
	if in.PartySize == 0 {
		missing = append(missing, "partySize")
	}
	if strings.TrimSpace(in.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(in.Time) == "" {
		missing = append(missing, "time")
	}
	if len(missing) > 0 {
		return invalidf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if in.PartySize < 0 {
		return invalidf("partySize must be positive")
	}
	return nil
}

// Create books a table for the request inside one transaction.  An
// explicit table is locked and checked for the slot; otherwise the
// smallest available table that fits is taken.  Without a table the
// reservation is stored on the waitlist.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*ReservationResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := parseFutureSlot(in.Date, in.Time, s.loc, s.now()); err != nil {
		return nil, err
	}
	date, at := strings.TrimSpace(in.Date), strings.TrimSpace(in.Time)
	log := logger.FromContext(ctx)

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

	var table *model.Table
	if in.TableID != nil {
		table, err = s.claimTable(ctx, tx, *in.TableID, in.PartySize, date, at)
		if err != nil {
			return nil, err
		}
	} else {
		table, err = s.tables.FindBestFitTx(ctx, tx, in.PartySize, date, at)
		if err != nil {
			return nil, fmt.Errorf("find table: %w", err)
		}
		if table != nil {
			ok, err := s.tables.MarkReservedTx(ctx, tx, table.ID)
			if err != nil {
				return nil, fmt.Errorf("reserve table: %w", err)
			}
			if !ok {
				return nil, repository.ErrConflict
			}
			table.Status = model.TableReserved
		}
	}

	res := &model.Reservation{
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerEmail:   optional(in.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
		PartySize:       in.PartySize,
		Date:            date,
		Time:            at,
		Status:          model.ReservationWaitlist,
		SpecialRequests: optional(in.SpecialRequests),
	}
	if table != nil {
		id := table.ID
		res.TableID = &id
		res.Status = model.ReservationConfirmed
	}
	if err := s.reservations.CreateTx(ctx, tx, res); err != nil {
		return nil, fmt.Errorf("insert reservation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	committed = true

	log.WithFields(logrus.Fields{"reservation_id": res.ID, "status": res.Status, "table_id": res.TableID}).Info("reservation created")
	publish(ctx, s.publisher, queue.RoutingReservationCreated, reservationEvent(res, table))
	return &ReservationResult{Reservation: res, Table: table}, nil
}

// claimTable locks a caller chosen table.  An available table becomes
// reserved; other statuses are left as they are.
func (s *ReservationService) claimTable(ctx context.Context, tx *sql.Tx, id uint64, partySize int, date, at string) (*model.Table, error) {
	table, err := s.tables.GetByIDForUpdateTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if table.Status == model.TableMaintenance {
		return nil, ErrTableUnavailable
	}
	if table.Seats < partySize {
		return nil, invalidf("table %d seats %d, party of %d does not fit", table.Number, table.Seats, partySize)
	}
	booked, err := s.tables.HasConfirmedAtTx(ctx, tx, id, date, at)
	if err != nil {
		return nil, fmt.Errorf("check table slot: %w", err)
	}
	if booked {
		return nil, ErrTableUnavailable
	}
	ok, err := s.tables.MarkReservedTx(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("reserve table: %w", err)
	}
	if ok {
		table.Status = model.TableReserved
	}
	return table, nil
}

func reservationEvent(res *model.Reservation, table *model.Table) queue.ReservationCreatedEvent {
	ev := queue.ReservationCreatedEvent{
		ReservationID: res.ID,
		CustomerName:  res.CustomerName,
		CustomerPhone: res.CustomerPhone,
		PartySize:     res.PartySize,
		Date:          res.Date,
		Time:          res.Time,
		Status:        res.Status,
		TableID:       res.TableID,
		CreatedAt:     res.CreatedAt.UTC().Format(time.RFC3339),
	}
	if res.CustomerEmail != nil {
		ev.CustomerEmail = *res.CustomerEmail
	}
	if table != nil {
		n := table.Number
		ev.TableNumber = &n
	}
	return ev
}

// Get returns one reservation.
func (s *ReservationService) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

// List returns reservations, optionally narrowed to a date and status.
func (s *ReservationService) List(ctx context.Context, f repository.ReservationFilter) ([]model.Reservation, error) {
	if f.Date != "" && !validDate(f.Date) {
		return nil, invalidf("invalid date %q, expected YYYY-MM-DD", f.Date)
	}
	if f.Status != "" && !model.IsReservationStatus(f.Status) {
		return nil, invalidf("invalid status %q", f.Status)
	}
	return s.reservations.List(ctx, f)
}

// Update applies a PATCH.  Table status is not touched; freeing a table
// is a separate table update.
func (s *ReservationService) Update(ctx context.Context, id uint64, in UpdateReservationInput) (*model.Reservation, error) {
	if id == 0 {
		return nil, invalidf("id is required")
	}
	if in.Status != nil && !model.IsReservationStatus(*in.Status) {
		return nil, invalidf("invalid status %q", *in.Status)
	}
	if in.Date != nil && !validDate(*in.Date) {
		return nil, invalidf("invalid date %q, expected YYYY-MM-DD", *in.Date)
	}
	if in.Time != nil && !validTime(*in.Time) {
		return nil, invalidf("invalid time %q, expected HH:MM (24-hour)", *in.Time)
	}
	if in.PartySize != nil && *in.PartySize <= 0 {
		return nil, invalidf("partySize must be positive")
	}
	if in.TableID != nil {
		if _, err := s.tables.GetByID(ctx, *in.TableID); err != nil {
			return nil, err
		}
	}
	return s.reservations.Update(ctx, id, repository.ReservationPatch{
		Status:          in.Status,
		Date:            in.Date,
		Time:            in.Time,
		PartySize:       in.PartySize,
		TableID:         in.TableID,
		SpecialRequests: in.SpecialInstructions,
	})
}

// Cancel soft-cancels a reservation.
func (s *ReservationService) Cancel(ctx context.Context, id uint64) (*model.Reservation, error) {
	if id == 0 {
		return nil, invalidf("id is required")
	}
	res, err := s.reservations.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).WithField("reservation_id", id).Info("reservation cancelled")
	return res, nil
}
