package models

// ViewName identifies a screen of the client application
type ViewName string

const (
	ViewLanding    ViewName = "landing"
	ViewLogin      ViewName = "login"
	ViewDashboard  ViewName = "dashboard"
	ViewHouse      ViewName = "house"
	ViewResident   ViewName = "resident"
	ViewTasksBoard ViewName = "tasks-board"
)

// TaskFilterAll is the default status filter of the global task board
const TaskFilterAll = "הכל"

// AppState is the explicit session/view-state value object. It is mutated
// only through Apply; there are no ambient globals.
type AppState struct {
	View               ViewName     `json:"view"`
	SelectedHouseID    string       `json:"selectedHouseId,omitempty"`
	SelectedResidentID string       `json:"selectedResidentId,omitempty"`
	CurrentUser        *CurrentUser `json:"currentUser,omitempty"`
	InitialTaskFilter  string       `json:"initialTaskFilter,omitempty"`
}

// DefaultAppState returns the state of a fresh, unauthenticated session
func DefaultAppState() AppState {
	return AppState{
		View:              ViewLanding,
		InitialTaskFilter: TaskFilterAll,
	}
}

// SessionEventType enumerates the state transitions a view may request
type SessionEventType string

const (
	EventStart         SessionEventType = "start"          // landing -> login
	EventLogin         SessionEventType = "login"          // -> dashboard with a current user
	EventLogout        SessionEventType = "logout"         // -> fresh landing state
	EventOpenDashboard SessionEventType = "open-dashboard" // back to the panoramic view
	EventOpenHouse     SessionEventType = "open-house"
	EventOpenResident  SessionEventType = "open-resident"
	EventOpenTasks     SessionEventType = "open-tasks-board"
)

// Valid reports whether t is a known event type
func (t SessionEventType) Valid() bool {
	switch t {
	case EventStart, EventLogin, EventLogout, EventOpenDashboard,
		EventOpenHouse, EventOpenResident, EventOpenTasks:
		return true
	}
	return false
}

// SessionEvent is one requested transition of the app state
type SessionEvent struct {
	Type       SessionEventType `json:"type"`
	User       *CurrentUser     `json:"user,omitempty"`
	HouseID    string           `json:"houseId,omitempty"`
	ResidentID string           `json:"residentId,omitempty"`
	TaskFilter string           `json:"taskFilter,omitempty"`
}

// Apply is the pure reducer for session state: it returns the state that
// results from applying ev to s, leaving s untouched. Unknown events leave
// the state unchanged.
func (s AppState) Apply(ev SessionEvent) AppState {
	next := s
	switch ev.Type {
	case EventStart:
		next.View = ViewLogin
	case EventLogin:
		if ev.User != nil {
			next.View = ViewDashboard
			next.CurrentUser = ev.User
		}
	case EventLogout:
		next = DefaultAppState()
	case EventOpenDashboard:
		next.View = ViewDashboard
		next.SelectedHouseID = ""
	case EventOpenHouse:
		if _, ok := HouseByID(ev.HouseID); ok {
			next.View = ViewHouse
			next.SelectedHouseID = ev.HouseID
		}
	case EventOpenResident:
		if ev.ResidentID != "" {
			next.View = ViewResident
			next.SelectedResidentID = ev.ResidentID
		}
	case EventOpenTasks:
		next.View = ViewTasksBoard
		if ev.TaskFilter != "" {
			next.InitialTaskFilter = ev.TaskFilter
		}
	}
	return next
}
