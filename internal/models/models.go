package models

type TicketStatus string

const (
	StatusTodo       TicketStatus = "To Do"
	StatusInProgress TicketStatus = "In Progress"
	StatusDone       TicketStatus = "Done"
	StatusBlocked    TicketStatus = "Blocked"
)

type AvailabilityType string

const (
	AvailabilityAvailable   AvailabilityType = "Available"
	AvailabilityOOO         AvailabilityType = "Out of Office"
	AvailabilityMaintenance AvailabilityType = "Maintenance"
	AvailabilityDowntime    AvailabilityType = "Downtime"
)

// UnassignedID is the sentinel assignee for tickets that could not be
// resolved to a known developer.
const UnassignedID = "unassigned"

const (
	LabelMajor = "Major"
	LabelBug   = "Bug"
)

// Developer is a canonical developer record. TrackerAccountID is the external
// issue-tracker account id used to resolve raw ticket assignees.
type Developer struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	Avatar           string `json:"avatar"`
	Capacity         int    `json:"capacity"`
	TrackerAccountID string `json:"tracker_account_id,omitempty"`
}

// Ticket dates are inclusive date-only ISO strings (YYYY-MM-DD), so plain
// string comparison orders them correctly.
type Ticket struct {
	ID         string       `json:"id"`
	Key        string       `json:"key"`
	Title      string       `json:"title"`
	AssigneeID string       `json:"assignee_id"`
	Status     TicketStatus `json:"status"`
	StartDate  string       `json:"start_date"`
	EndDate    string       `json:"end_date"`
	Priority   string       `json:"priority"`
	Labels     []string     `json:"labels,omitempty"`
}

type AvailabilityBlock struct {
	ID          string           `json:"id"`
	DeveloperID string           `json:"developer_id"`
	Type        AvailabilityType `json:"type"`
	StartDate   string           `json:"start_date"`
	EndDate     string           `json:"end_date"`
	Notes       string           `json:"notes,omitempty"`
}

type SortOption string

const (
	SortLoadWeekDesc   SortOption = "LOAD_WEEK_DESC"
	SortLoadTodayDesc  SortOption = "LOAD_TODAY_DESC"
	SortOverbookedDesc SortOption = "OVERBOOKED_DESC"
	SortAlphabetical   SortOption = "ALPHABETICAL"
)

// ViewConfig is the explicit view state passed into the aggregation and
// sorting functions instead of any global UI state.
type ViewConfig struct {
	Query        string     `json:"query"`
	Sort         SortOption `json:"sort"`
	StartDate    string     `json:"start_date"`
	Days         int        `json:"days"`
	ShowWeekends bool       `json:"show_weekends"`
}
