package dashboard

import (
	"net/url"
)

// ViewState is the page-local state of the dashboard: the search text, the
// status selector and the unit whose detail view is open. The detail view is
// open exactly when a unit is selected.
type ViewState struct {
	Query          string       `json:"query"`
	Status         StatusFilter `json:"status"`
	SelectedUnitID string       `json:"selectedUnitId,omitempty"`
}

// ViewStateFromQuery reads q, status and unit. An unknown status falls back to "all".
func ViewStateFromQuery(values url.Values) ViewState {
	status, err := ParseStatusFilter(values.Get("status"))
	if err != nil {
		status = StatusAll
	}
	return ViewState{
		Query:          values.Get("q"),
		Status:         status,
		SelectedUnitID: values.Get("unit"),
	}
}

// Select opens the detail view for unitID.
func (v *ViewState) Select(unitID string) {
	v.SelectedUnitID = unitID
}

// CloseDetail closes the detail view. Closing twice is a no-op.
func (v *ViewState) CloseDetail() {
	v.SelectedUnitID = ""
}

func (v ViewState) DetailOpen() bool {
	return v.SelectedUnitID != ""
}

// Values encodes the state back into page query parameters, omitting defaults.
func (v ViewState) Values() url.Values {
	values := url.Values{}
	if v.Query != "" {
		values.Set("q", v.Query)
	}
	if v.Status != "" && v.Status != StatusAll {
		values.Set("status", string(v.Status))
	}
	if v.SelectedUnitID != "" {
		values.Set("unit", v.SelectedUnitID)
	}
	return values
}

// SelectURL is the page link that opens unitID with the current filters kept.
func (v ViewState) SelectURL(unitID string) string {
	next := v
	next.Select(unitID)
	return next.href()
}

// CloseURL is the page link that closes the detail view.
func (v ViewState) CloseURL() string {
	next := v
	next.CloseDetail()
	return next.href()
}

func (v ViewState) href() string {
	encoded := v.Values().Encode()
	if encoded == "" {
		return "/"
	}
	return "/?" + encoded
}
