package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-service/internal/model"
	"github.com/iliyamo/restaurant-service/internal/repository"
	"github.com/iliyamo/restaurant-service/internal/service"
)

func TestCreateTable(t *testing.T) {
	svc := &mockTableService{
		createFn: func(_ context.Context, in service.CreateTableInput) (*model.Table, error) {
			if in.Number == 1 {
				return nil, repository.ErrDuplicateTableNumber
			}
			return &model.Table{ID: 9, Number: in.Number, Seats: in.Seats, IsSmoking: in.IsSmoking, Status: model.TableAvailable}, nil
		},
	}
	h := NewTableHandler(svc)

	c, rec := jsonRequest(http.MethodPost, "/tables", `{"tableNumber":12,"seats":4,"isSmoking":true}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	tbl := decode(t, rec)["table"].(map[string]any)
	assert.Equal(t, float64(12), tbl["table_number"])
	assert.Equal(t, true, tbl["is_smoking"])

	c, rec = jsonRequest(http.MethodPost, "/tables", `{"tableNumber":1,"seats":4}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateTableStatus(t *testing.T) {
	svc := &mockTableService{
		statusFn: func(_ context.Context, id uint64, status string) (*model.Table, error) {
			if status == model.TableOccupied {
				return nil, fmt.Errorf("%w: dirty to occupied", service.ErrInvalidTransition)
			}
			return &model.Table{ID: id, Status: status}, nil
		},
	}
	h := NewTableHandler(svc)

	c, rec := jsonRequest(http.MethodPatch, "/", `{"status":"available"}`)
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = jsonRequest(http.MethodPatch, "/", `{"status":"occupied"}`)
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteTable_InUse(t *testing.T) {
	svc := &mockTableService{
		deleteFn: func(context.Context, uint64) error { return repository.ErrTableInUse },
	}
	c, rec := jsonRequest(http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, NewTableHandler(svc).Delete(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, repository.ErrTableInUse.Error(), decode(t, rec)["error"])
}

func TestScanTable(t *testing.T) {
	svc := &mockTableService{
		scanFn: func(_ context.Context, token string) (*model.Table, error) {
			if token == "good" {
				return &model.Table{ID: 1, Number: 5}, nil
			}
			return nil, service.ErrInvalidTableToken
		},
	}
	h := NewTableHandler(svc)

	c, rec := jsonRequest(http.MethodGet, "/tables/scan?token=good", "")
	require.NoError(t, h.Scan(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = jsonRequest(http.MethodGet, "/tables/scan?token=bad", "")
	require.NoError(t, h.Scan(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = jsonRequest(http.MethodGet, "/tables/scan", "")
	require.NoError(t, h.Scan(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
