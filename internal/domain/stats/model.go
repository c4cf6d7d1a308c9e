package stats

// Slice is one labelled value in a breakdown chart.
type Slice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// DashboardCounters are the headline numbers on the dashboard.
type DashboardCounters struct {
	Assigned   int `json:"assigned"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

// DashboardPies groups the dashboard breakdowns.
type DashboardPies struct {
	ProjectsByStatus []Slice `json:"projectsByStatus"`
	ProjectsByTeam   []Slice `json:"projectsByTeam"`
	WorkloadByTeam   []Slice `json:"workloadByTeam"`
}

// DashboardScope echoes the filter scope the backend applied.
type DashboardScope struct {
	Teams         []string `json:"teams"`
	SelectedTeams []string `json:"selectedTeams"`
	AssignedToMe  bool     `json:"assignedToMe"`
}

// Dashboard is the workspace dashboard aggregate.
type Dashboard struct {
	Counters DashboardCounters `json:"counters"`
	Pies     DashboardPies     `json:"pies"`
	Scope    DashboardScope    `json:"scope"`
}

// DashboardQuery scopes the dashboard aggregate request.
type DashboardQuery struct {
	Teams        []string
	AssignedToMe bool
}

// TeamAverages compares a user against their team.
type TeamAverages struct {
	ActiveProjects float64 `json:"activeProjects"`
}

// User is the per-user aggregate.
type User struct {
	UserID                  string        `json:"userId"`
	StatusBreakdown         []Slice       `json:"statusBreakdown"`
	ActiveInactiveBreakdown []Slice       `json:"activeInactiveBreakdown"`
	TimeSpentWeekMinutes    int           `json:"timeSpentWeekMinutes"`
	TimeSpentMonthMinutes   int           `json:"timeSpentMonthMinutes"`
	TeamAverages            *TeamAverages `json:"teamAverages,omitempty"`
}

// PeopleOverview is the people-page overview aggregate.
type PeopleOverview struct {
	Pies struct {
		PeopleByTeam   []Slice `json:"peopleByTeam"`
		WorkloadByTeam []Slice `json:"workloadByTeam"`
	} `json:"pies"`
}

// PeopleUser is the per-person aggregate on the people page.
type PeopleUser struct {
	UserID string `json:"userId"`
	Pies   struct {
		ProjectsByStatus []Slice `json:"projectsByStatus"`
		ActiveInactive   []Slice `json:"activeInactive"`
	} `json:"pies"`
}
