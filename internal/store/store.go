package store

import (
	"context"
	"time"

	"homs/queue-service/internal/models"
)

type AssignInput struct {
	EmployeeID     int64
	StationID      int64
	StartDate      time.Time
	EndDate        *time.Time
	AssignmentType string
	ShiftStartTime string
	ShiftEndTime   string
	AssignedBy     int64
}

type RemoveInput struct {
	StationID   int64
	RemovalDate time.Time
	RemovalType string
	PerformedBy int64
}

type ReassignInput struct {
	StationID     int64
	NewEmployeeID int64
	ReassignDate  time.Time
	AssignedBy    int64
}

type CreateEntryInput struct {
	VisitID       int64
	AppointmentID *int64
	PatientID     int64
	ServiceID     *int64
	QueueType     string
	StationID     *int64
	PriorityLevel string
}

type UpdateStatusInput struct {
	QueueEntryID int64
	NewStatus    string
	EmployeeID   *int64
	Remarks      string
}

// StationAssignmentView joins a station with its current schedule and the
// assigned employee's display fields, if any.
type StationAssignmentView struct {
	Station      models.Station             `json:"station"`
	Schedule     *models.AssignmentSchedule `json:"schedule,omitempty"`
	EmployeeName string                     `json:"employee_name,omitempty"`
	RoleName     string                     `json:"role_name,omitempty"`
}

type QueueEntryView struct {
	Entry       models.QueueEntry `json:"entry"`
	PatientName string            `json:"patient_name,omitempty"`
	StationName string            `json:"station_name,omitempty"`
}

type StationStats struct {
	Total                int     `json:"total"`
	Completed            int     `json:"completed"`
	Skipped              int     `json:"skipped"`
	Waiting              int     `json:"waiting"`
	AvgWaitSeconds       float64 `json:"avg_wait_seconds"`
	AvgTurnaroundSeconds float64 `json:"avg_turnaround_seconds"`
}

type QueueTypeRollup struct {
	QueueType            string  `json:"queue_type"`
	Total                int     `json:"total"`
	Completed            int     `json:"completed"`
	Skipped              int     `json:"skipped"`
	AvgWaitSeconds       float64 `json:"avg_wait_seconds"`
	AvgTurnaroundSeconds float64 `json:"avg_turnaround_seconds"`
}

type StationRollup struct {
	StationID            int64   `json:"station_id"`
	StationName          string  `json:"station_name"`
	Total                int     `json:"total"`
	Completed            int     `json:"completed"`
	Skipped              int     `json:"skipped"`
	AvgWaitSeconds       float64 `json:"avg_wait_seconds"`
	AvgTurnaroundSeconds float64 `json:"avg_turnaround_seconds"`
}

type AssignmentStore interface {
	Assign(ctx context.Context, input AssignInput) (models.AssignmentSchedule, error)
	Remove(ctx context.Context, input RemoveInput) (models.AssignmentSchedule, error)
	Reassign(ctx context.Context, input ReassignInput) (models.AssignmentSchedule, error)
	ListAllWithAssignments(ctx context.Context, asOf time.Time) ([]StationAssignmentView, error)
	GetForEmployee(ctx context.Context, employeeID int64, date time.Time) (models.AssignmentSchedule, bool, error)
	GetForStation(ctx context.Context, stationID int64) (StationAssignmentView, bool, error)
	ListAssignmentLogs(ctx context.Context, stationID int64) ([]models.AssignmentLog, error)
}

type StationStore interface {
	ListStations(ctx context.Context) ([]models.Station, error)
	GetStation(ctx context.Context, stationID int64) (models.Station, bool, error)
	SetStationOpen(ctx context.Context, stationID int64, open bool) error
	SetStationActive(ctx context.Context, stationID int64, active bool) error
}

type QueueStore interface {
	CreateEntry(ctx context.Context, input CreateEntryInput) (models.QueueEntry, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (models.QueueEntry, error)
	GetStationQueue(ctx context.Context, stationID int64) ([]QueueEntryView, error)
	GetPatientStatus(ctx context.Context, patientID int64) (QueueEntryView, bool, error)
	ListQueueLogs(ctx context.Context, queueEntryID int64) ([]models.QueueLog, error)
}

type StatsStore interface {
	StationStatistics(ctx context.Context, stationID int64, date time.Time) (StationStats, error)
	RangeStatistics(ctx context.Context, from, to time.Time) (StationStats, error)
	QueueTypeRollups(ctx context.Context, from, to time.Time) ([]QueueTypeRollup, error)
	StationRollups(ctx context.Context, from, to time.Time) ([]StationRollup, error)
}

// Store is the full surface consumed by the HTTP layer.
type Store interface {
	AssignmentStore
	StationStore
	QueueStore
	StatsStore
}
