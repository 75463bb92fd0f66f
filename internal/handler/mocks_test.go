package handler

import (
	"context"

	"github.com/iliyamo/restaurant-service/internal/model"
	"github.com/iliyamo/restaurant-service/internal/repository"
	"github.com/iliyamo/restaurant-service/internal/service"
)

type mockReservationService struct {
	createFn func(ctx context.Context, in service.CreateReservationInput) (*service.ReservationResult, error)
	getFn    func(ctx context.Context, id uint64) (*model.Reservation, error)
	listFn   func(ctx context.Context, f repository.ReservationFilter) ([]model.Reservation, error)
	updateFn func(ctx context.Context, id uint64, in service.UpdateReservationInput) (*model.Reservation, error)
	cancelFn func(ctx context.Context, id uint64) (*model.Reservation, error)
}

func (m *mockReservationService) Create(ctx context.Context, in service.CreateReservationInput) (*service.ReservationResult, error) {
	return m.createFn(ctx, in)
}
func (m *mockReservationService) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
	return m.getFn(ctx, id)
}
func (m *mockReservationService) List(ctx context.Context, f repository.ReservationFilter) ([]model.Reservation, error) {
	return m.listFn(ctx, f)
}
func (m *mockReservationService) Update(ctx context.Context, id uint64, in service.UpdateReservationInput) (*model.Reservation, error) {
	return m.updateFn(ctx, id, in)
}
func (m *mockReservationService) Cancel(ctx context.Context, id uint64) (*model.Reservation, error) {
	return m.cancelFn(ctx, id)
}

type mockWaitlistService struct {
	joinFn   func(ctx context.Context, in service.JoinWaitlistInput) (*service.JoinResult, error)
	listFn   func(ctx context.Context, f repository.WaitlistFilter) ([]model.WaitlistEntry, error)
	updateFn func(ctx context.Context, id uint64, p repository.WaitlistPatch) (*model.WaitlistEntry, error)
	removeFn func(ctx context.Context, id uint64) error
}

func (m *mockWaitlistService) Join(ctx context.Context, in service.JoinWaitlistInput) (*service.JoinResult, error) {
	return m.joinFn(ctx, in)
}
func (m *mockWaitlistService) List(ctx context.Context, f repository.WaitlistFilter) ([]model.WaitlistEntry, error) {
	return m.listFn(ctx, f)
}
func (m *mockWaitlistService) Update(ctx context.Context, id uint64, p repository.WaitlistPatch) (*model.WaitlistEntry, error) {
	return m.updateFn(ctx, id, p)
}
func (m *mockWaitlistService) Remove(ctx context.Context, id uint64) error {
	return m.removeFn(ctx, id)
}

type mockTableService struct {
	listFn   func(ctx context.Context) ([]model.Table, error)
	createFn func(ctx context.Context, in service.CreateTableInput) (*model.Table, error)
	statusFn func(ctx context.Context, id uint64, status string) (*model.Table, error)
	deleteFn func(ctx context.Context, id uint64) error
	scanFn   func(ctx context.Context, token string) (*model.Table, error)
}

func (m *mockTableService) List(ctx context.Context) ([]model.Table, error) { return m.listFn(ctx) }
func (m *mockTableService) Create(ctx context.Context, in service.CreateTableInput) (*model.Table, error) {
	return m.createFn(ctx, in)
}
func (m *mockTableService) UpdateStatus(ctx context.Context, id uint64, status string) (*model.Table, error) {
	return m.statusFn(ctx, id, status)
}
func (m *mockTableService) Delete(ctx context.Context, id uint64) error { return m.deleteFn(ctx, id) }
func (m *mockTableService) Scan(ctx context.Context, token string) (*model.Table, error) {
	return m.scanFn(ctx, token)
}

type mockPlanService struct {
	listFn func(ctx context.Context) ([]model.PlanView, error)
}

func (m *mockPlanService) List(ctx context.Context) ([]model.PlanView, error) { return m.listFn(ctx) }

type mockEntitlementService struct {
	checkFn func(ctx context.Context, userID uint64, feature string) (*service.EntitlementDecision, error)
	listFn  func(ctx context.Context, userID uint64) (*service.EntitlementSummary, error)
}

func (m *mockEntitlementService) Check(ctx context.Context, userID uint64, feature string) (*service.EntitlementDecision, error) {
	return m.checkFn(ctx, userID, feature)
}
func (m *mockEntitlementService) List(ctx context.Context, userID uint64) (*service.EntitlementSummary, error) {
	return m.listFn(ctx, userID)
}
