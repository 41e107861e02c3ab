package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"gps-monitor/internal/models"
)

var ErrInvalidStatusFilter = errors.New("invalid status filter")

// StatusFilter selects units by status. StatusAll disables the check.
type StatusFilter string

const StatusAll StatusFilter = "all"

// StatusFilters lists every selectable option in display order.
var StatusFilters = []StatusFilter{
	StatusAll,
	StatusFilter(models.StatusActive),
	StatusFilter(models.StatusOffline),
	StatusFilter(models.StatusMaintenance),
	StatusFilter(models.StatusInactive),
}

// ParseStatusFilter accepts "all" or a unit status. The empty string means "all".
func ParseStatusFilter(raw string) (StatusFilter, error) {
	if raw == "" || raw == string(StatusAll) {
		return StatusAll, nil
	}
	if models.UnitStatus(raw).Valid() {
		return StatusFilter(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatusFilter, raw)
}

// Accepts reports whether status passes the selector.
func (f StatusFilter) Accepts(status models.UnitStatus) bool {
	return f == StatusAll || f == "" || models.UnitStatus(f) == status
}

// MatchesQuery reports whether the unit code, driver or address contains
// query, ignoring case. An empty query matches every unit.
func MatchesQuery(unit *models.Unit, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)

	if strings.Contains(strings.ToLower(unit.UnitCode), q) {
		return true
	}
	if unit.HasDriver() && strings.Contains(strings.ToLower(unit.Driver), q) {
		return true
	}
	return strings.Contains(strings.ToLower(unit.Location.Address), q)
}

// FilterUnits returns, in input order, the units matching both query and filter.
func FilterUnits(units []models.Unit, query string, filter StatusFilter) []models.Unit {
	matched := make([]models.Unit, 0, len(units))
	for i := range units {
		if filter.Accepts(units[i].Status) && MatchesQuery(&units[i], query) {
			matched = append(matched, units[i])
		}
	}
	return matched
}
