package model

import "time"

// Table statuses.
const (
	TableAvailable   = "available"
	TableOccupied    = "occupied"
	TableReserved    = "reserved"
	TableDirty       = "dirty"
	TableMaintenance = "maintenance"
)

// Table is a physical seating unit as stored in restaurant_tables.
type Table struct {
	ID        uint64    `json:"id"`
	Number    int       `json:"table_number"`
	Seats     int       `json:"seats"`
	IsSmoking bool      `json:"is_smoking"`
	Status    string    `json:"status"`
	QRCodeURL *string   `json:"qr_code_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// tableTransitions lists the allowed status changes.  Maintenance is left
// only by an explicit revert to available.
var tableTransitions = map[string][]string{
	TableAvailable:   {TableReserved, TableMaintenance},
	TableReserved:    {TableOccupied, TableAvailable, TableMaintenance},
	TableOccupied:    {TableDirty, TableMaintenance},
	TableDirty:       {TableAvailable},
	TableMaintenance: {TableAvailable},
}

// IsTableStatus reports whether s is a known table status.
func IsTableStatus(s string) bool {
	_, ok := tableTransitions[s]
	return ok
}

// CanTransition reports whether a table may move from one status to
// another.  Setting the current status again is always allowed.
func CanTransition(from, to string) bool {
	if !IsTableStatus(from) || !IsTableStatus(to) {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range tableTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
