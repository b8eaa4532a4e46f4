package models

import "time"

type QueueEntry struct {
	QueueEntryID  int64      `json:"queue_entry_id"`
	VisitID       int64      `json:"visit_id"`
	AppointmentID *int64     `json:"appointment_id,omitempty"`
	PatientID     int64      `json:"patient_id"`
	ServiceID     *int64     `json:"service_id,omitempty"`
	QueueType     string     `json:"queue_type"`
	StationID     *int64     `json:"station_id,omitempty"`
	QueueNumber   int        `json:"queue_number"`
	QueueCode     string     `json:"queue_code"`
	PriorityLevel string     `json:"priority_level"`
	Status        string     `json:"status"`
	TimeIn        time.Time  `json:"time_in"`
	TimeStarted   *time.Time `json:"time_started,omitempty"`
	TimeCompleted *time.Time `json:"time_completed,omitempty"`
	Remarks       string     `json:"remarks,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

const (
	StatusWaiting    = "waiting"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusCompleted  = "completed"
	StatusSkipped    = "skipped"
)

const (
	PriorityEmergency = "emergency"
	PriorityUrgent    = "urgent"
	PriorityNormal    = "normal"
	PriorityOther     = "other"
)

// PriorityRank orders queue service: lower ranks are called first.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityEmergency:
		return 1
	case PriorityUrgent:
		return 2
	case PriorityNormal:
		return 3
	default:
		return 4
	}
}

type QueueLog struct {
	QueueLogID   int64     `json:"queue_log_id"`
	QueueEntryID int64     `json:"queue_entry_id"`
	Action       string    `json:"action"`
	EmployeeID   *int64    `json:"employee_id,omitempty"`
	Details      string    `json:"details,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

const (
	QueueActionCreated       = "created"
	QueueActionStatusChanged = "status_changed"
)
