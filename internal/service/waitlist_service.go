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

// Minutes added to the estimate for every two waiting parties.
const waitIncrement = 15

// EstimateWait returns the static wait estimate in minutes for a party
// joining a slot that already has waiting parties ahead of it.
func EstimateWait(waiting int) int {
	if waiting <= 0 {
		return 0
	}
	return (waiting + 1) / 2 * waitIncrement
}

// JoinWaitlistInput is a waitlist request.
type JoinWaitlistInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	PartySize       int
	Date            string
	Time            string
	SpecialRequests string
}

// JoinResult is the stored entry with its queue position.
type JoinResult struct {
	Entry             *model.WaitlistEntry
	Position          int
	EstimatedWaitTime int
}

// WaitlistService queues parties for a date and time slot.
type WaitlistService struct {
	db        *sql.DB
	waitlist  *repository.WaitlistRepo
	hours     *repository.HoursRepo
	publisher EventPublisher
	loc       *time.Location
	now       func() time.Time
}

// NewWaitlistService wires the service.  publisher may be nil.
func NewWaitlistService(db *sql.DB, waitlist *repository.WaitlistRepo, hours *repository.HoursRepo, publisher EventPublisher, loc *time.Location) *WaitlistService {
	return &WaitlistService{
		db:        db,
		waitlist:  waitlist,
		hours:     hours,
		publisher: publisher,
		loc:       orUTC(loc),
		now:       time.Now,
	}
}

// Join validates the request, checks opening hours and inserts a waiting
// entry.  Inserts for one slot are serialized so positions are unique.
func (s *WaitlistService) Join(ctx context.Context, in JoinWaitlistInput) (*JoinResult, error) {
	if strings.TrimSpace(in.CustomerName) == "" || strings.TrimSpace(in.CustomerPhone) == "" || in.PartySize == 0 {
		return nil, invalidf("customerName, customerPhone and partySize are required")
	}
	if in.PartySize < 0 {
		return nil, invalidf("partySize must be positive")
	}
	slot, err := parseFutureSlot(in.Date, in.Time, s.loc, s.now())
	if err != nil {
		return nil, err
	}
	date, at := strings.TrimSpace(in.Date), strings.TrimSpace(in.Time)

	hours, err := s.hours.GetByDay(ctx, int(slot.Weekday()))
	if err != nil {
		return nil, fmt.Errorf("load business hours: %w", err)
	}
	if hours == nil || !hours.IsActive {
		return nil, invalidf("the restaurant is closed on %s", slot.Weekday())
	}
	if !hours.Contains(at) {
		return nil, invalidf("requested time is outside business hours (%s-%s)", hours.OpenTime, hours.CloseTime)
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

	if err := s.waitlist.LockSlotTx(ctx, tx, date, at); err != nil {
		return nil, fmt.Errorf("lock slot: %w", err)
	}
	waiting, err := s.waitlist.CountWaitingTx(ctx, tx, date, at)
	if err != nil {
		return nil, fmt.Errorf("count waiting: %w", err)
	}
	entry := &model.WaitlistEntry{
		CustomerName:      strings.TrimSpace(in.CustomerName),
		CustomerEmail:     optional(in.CustomerEmail),
		CustomerPhone:     strings.TrimSpace(in.CustomerPhone),
		PartySize:         in.PartySize,
		Date:              date,
		Time:              at,
		Status:            model.WaitlistWaiting,
		EstimatedWaitTime: EstimateWait(waiting),
		SpecialRequests:   optional(in.SpecialRequests),
	}
	if err := s.waitlist.CreateTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	committed = true

	result := &JoinResult{Entry: entry, Position: waiting + 1, EstimatedWaitTime: entry.EstimatedWaitTime}
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"entry_id": entry.ID, "position": result.Position, "estimate": result.EstimatedWaitTime,
	}).Info("waitlist entry created")
	publish(ctx, s.publisher, queue.RoutingWaitlistJoined, waitlistEvent(result))
	return result, nil
}

func waitlistEvent(r *JoinResult) queue.WaitlistJoinedEvent {
	ev := queue.WaitlistJoinedEvent{
		EntryID:           r.Entry.ID,
		CustomerName:      r.Entry.CustomerName,
		CustomerPhone:     r.Entry.CustomerPhone,
		PartySize:         r.Entry.PartySize,
		Date:              r.Entry.Date,
		Time:              r.Entry.Time,
		Position:          r.Position,
		EstimatedWaitTime: r.EstimatedWaitTime,
		CreatedAt:         r.Entry.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.Entry.CustomerEmail != nil {
		ev.CustomerEmail = *r.Entry.CustomerEmail
	}
	return ev
}

// List returns entries in queue order.
func (s *WaitlistService) List(ctx context.Context, f repository.WaitlistFilter) ([]model.WaitlistEntry, error) {
	if f.Date != "" && !validDate(f.Date) {
		return nil, invalidf("invalid date %q, expected YYYY-MM-DD", f.Date)
	}
	if f.Status != "" && !model.IsWaitlistStatus(f.Status) {
		return nil, invalidf("invalid status %q", f.Status)
	}
	return s.waitlist.List(ctx, f)
}

// Update changes an entry's status or notified flag.  Estimates of other
// entries are not recomputed.
func (s *WaitlistService) Update(ctx context.Context, id uint64, p repository.WaitlistPatch) (*model.WaitlistEntry, error) {
	if id == 0 {
		return nil, invalidf("id is required")
	}
	if p.Status != nil && !model.IsWaitlistStatus(*p.Status) {
		return nil, invalidf("invalid status %q", *p.Status)
	}
	return s.waitlist.Update(ctx, id, p)
}

// Remove deletes an entry.
func (s *WaitlistService) Remove(ctx context.Context, id uint64) error {
	if id == 0 {
		return invalidf("id is required")
	}
	return s.waitlist.Delete(ctx, id)
}
