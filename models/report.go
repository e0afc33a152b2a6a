package models

// TaskStatus represents the three-state lifecycle of a report
type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "פתוח"
	TaskStatusInProgress TaskStatus = "בתהליך"
	TaskStatusCompleted  TaskStatus = "הושלם"
)

// TaskStatuses lists the closed status enumeration
var TaskStatuses = []TaskStatus{TaskStatusOpen, TaskStatusInProgress, TaskStatusCompleted}

// Valid reports whether s is a member of the closed enumeration
func (s TaskStatus) Valid() bool {
	for _, known := range TaskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ResidentReport represents a staff-authored intervention record / task.
// ResidentID is empty for house-level tasks.
//
// Mutable fields must serialize even when empty: the remote put is a
// field-level merge, so an omitted field would leave the previous value in
// place instead of clearing it.
type ResidentReport struct {
	ID                      string     `json:"id"`
	ResidentID              string     `json:"residentId"`
	HouseName               string     `json:"houseName"`
	Date                    string     `json:"date"`
	Essence                 string     `json:"essence"`
	ReportingSource         string     `json:"reportingSource"`
	CaseDetails             string     `json:"caseDetails"`
	ActionsTaken            string     `json:"actionsTaken"`
	TeamInvolved            string     `json:"teamInvolved"`
	Conclusions             string     `json:"conclusions"`
	RecommendedIntervention string     `json:"recommendedIntervention"`
	Status                  TaskStatus `json:"status"`
	TasksDetails            string     `json:"tasksDetails"`
	StaffName               string     `json:"staffName"`
	StaffRole               StaffRole  `json:"staffRole"`
	Notes                   string     `json:"notes"`
	ClosureSummary          string     `json:"closureSummary"` // set on transition into completed
	Timestamp               int64      `json:"timestamp"`                // unix milliseconds, feed sort key
}

// IsHouseLevel reports whether the record is a house-level task rather than a
// resident-level one
func (r *ResidentReport) IsHouseLevel() bool {
	return r.ResidentID == ""
}
