package service

import (
	"slices"

	"github.com/proveedores/liquidaciones/database/model"
	"github.com/proveedores/liquidaciones/web/session"
)

// Stage is the page the panel shows for a session.
type Stage int

const (
	StageLoggedOut Stage = iota
	StageLoggedInNoData
	StageLoggedInWithData
)

func (s Stage) String() string {
	switch s {
	case StageLoggedInNoData:
		return "logged_in_no_data"
	case StageLoggedInWithData:
		return "logged_in_with_data"
	}
	return "logged_out"
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Dashboard is everything the panel page renders for one request.
type Dashboard struct {
	Stage        Stage         `json:"stage"`
	Login        string        `json:"login,omitempty"`
	DisplayName  string        `json:"displayName,omitempty"`
	StatusFilter string        `json:"statusFilter,omitempty"`
	Statuses     []string      `json:"statuses,omitempty"`
	Distribution []StatusCount `json:"distribution,omitempty"`
	Columns      []string      `json:"columns,omitempty"`
	Rows         [][]string    `json:"rows,omitempty"`
	Count        int           `json:"count"`
}

// DashboardService turns a session state and the source tables into a
// Dashboard.
type DashboardService struct {
	userService UserService
}

// Build computes the dashboard. Nothing is read from the tables unless st is
// authenticated. A status filter that no longer exists in the user's rows
// falls back to session.StatusAll.
func (s *DashboardService) Build(st session.State, records *model.RecordTable, users *model.UserTable) *Dashboard {
	if !st.Authenticated {
		return &Dashboard{Stage: StageLoggedOut}
	}

	d := &Dashboard{
		Login:       st.CurrentUser,
		DisplayName: s.userService.DisplayName(users, st.CurrentUser),
	}

	scoped := ScopeToUser(records, st.CurrentUser)
	if scoped.Empty() {
		d.Stage = StageLoggedInNoData
		return d
	}

	d.Stage = StageLoggedInWithData
	d.Statuses = AvailableStatuses(scoped)
	d.StatusFilter = st.StatusFilter
	if !slices.Contains(d.Statuses, d.StatusFilter) {
		d.StatusFilter = session.StatusAll
	}
	d.Distribution = SortedDistribution(StatusDistribution(scoped))

	view := ApplyStatusFilter(scoped, d.StatusFilter)
	d.Columns = VisibleColumns(view)
	d.Rows = Project(view, d.Columns)
	d.Count = view.Len()
	return d
}

// HasStatus reports whether status is one of the selectable filters.
func (d *Dashboard) HasStatus(status string) bool {
	return slices.Contains(d.Statuses, status)
}
