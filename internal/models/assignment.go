package models

import "time"

// AssignmentSchedule is the single row describing a station's current
// staffing. Reassignment and removal mutate this row in place; history
// lives in AssignmentLog.
type AssignmentSchedule struct {
	ScheduleID     int64      `json:"schedule_id"`
	StationID      int64      `json:"station_id"`
	EmployeeID     *int64     `json:"employee_id,omitempty"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	AssignmentType string     `json:"assignment_type"`
	ShiftStartTime string     `json:"shift_start_time"`
	ShiftEndTime   string     `json:"shift_end_time"`
	AssignedBy     int64      `json:"assigned_by"`
	IsActive       bool       `json:"is_active"`
	AssignedAt     time.Time  `json:"assigned_at"`
}

const (
	AssignmentTypePermanent  = "permanent"
	AssignmentTypeTemporary  = "temporary"
	AssignmentTypeSubstitute = "substitute"
)

type AssignmentLog struct {
	LogID       int64     `json:"log_id"`
	ScheduleID  int64     `json:"schedule_id"`
	EmployeeID  *int64    `json:"employee_id,omitempty"`
	StationID   int64     `json:"station_id"`
	ActionType  string    `json:"action_type"`
	ActionDate  time.Time `json:"action_date"`
	PerformedBy int64     `json:"performed_by"`
	Notes       string    `json:"notes,omitempty"`
}

const (
	AssignmentActionCreated     = "created"
	AssignmentActionReassigned  = "reassigned"
	AssignmentActionEnded       = "ended"
	AssignmentActionDeactivated = "deactivated"
)

const (
	RemovalEndAssignment = "end_assignment"
	RemovalDeactivate    = "deactivate"
)
