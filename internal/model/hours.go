package model

// BusinessHours is the opening window for one weekday (0 = Sunday).
// OpenTime and CloseTime are HH:MM.  A close time at or before the open
// time means the window runs past midnight.
type BusinessHours struct {
	DayOfWeek int    `json:"day_of_week"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	IsActive  bool   `json:"is_active"`
}

// Contains reports whether the HH:MM value t falls inside the window.
// The open bound is inclusive and the close bound exclusive.
func (h BusinessHours) Contains(t string) bool {
	if !h.IsActive {
		return false
	}
	if h.OpenTime < h.CloseTime {
		return t >= h.OpenTime && t < h.CloseTime
	}
	// overnight window, e.g. 18:00-02:00
	return t >= h.OpenTime || t < h.CloseTime
}
