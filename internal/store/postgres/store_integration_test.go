package postgres

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"homs/queue-service/internal/models"
	"homs/queue-service/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestAssignCreatesScheduleAndLog(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	roleID := insertRole(t, ctx, pool, "Nurse")
	employeeID := insertEmployee(t, ctx, pool, "Ana Reyes", roleID)
	stationID := insertStation(t, ctx, pool, "Triage 1", models.StationTypeTriage, 1)

	schedule := assignEmployee(t, ctx, st, employeeID, stationID)
	if schedule.ScheduleID == 0 {
		t.Fatalf("expected schedule id")
	}
	if !schedule.IsActive {
		t.Fatalf("expected active schedule")
	}
	if schedule.EmployeeID == nil || *schedule.EmployeeID != employeeID {
		t.Fatalf("unexpected employee on schedule: %+v", schedule)
	}

	var count int
	row := pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM assignment_logs WHERE station_id = $1 AND action_type = 'created'
	`, stationID)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 created log, got %d", count)
	}

	view, found, err := st.GetForStation(ctx, stationID)
	if err != nil {
		t.Fatalf("get for station: %v", err)
	}
	if !found {
		t.Fatalf("expected station")
	}
	if view.Schedule == nil || view.Schedule.ScheduleID != schedule.ScheduleID {
		t.Fatalf("expected active schedule on view: %+v", view)
	}
	if view.EmployeeName != "Ana Reyes" {
		t.Fatalf("expected employee name, got %q", view.EmployeeName)
	}
}

func TestAssignRejectsSecondStation(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	roleID := insertRole(t, ctx, pool, "Nurse")
	employeeID := insertEmployee(t, ctx, pool, "Ana Reyes", roleID)
	stationA := insertStation(t, ctx, pool, "Triage 1", models.StationTypeTriage, 1)
	stationB := insertStation(t, ctx, pool, "Lab 1", models.StationTypeLab, 1)

	assignEmployee(t, ctx, st, employeeID, stationA)

	_, err := st.Assign(ctx, store.AssignInput{
		EmployeeID:     employeeID,
		StationID:      stationB,
		StartDate:      mustDate(t, "2025-01-01"),
		AssignmentType: models.AssignmentTypePermanent,
		ShiftStartTime: "08:00",
		ShiftEndTime:   "17:00",
		AssignedBy:     1,
	})
	var assigned *store.EmployeeAssignedError
	if !errors.As(err, &assigned) {
		t.Fatalf("expected EmployeeAssignedError, got %v", err)
	}
	if assigned.StationID != stationA {
		t.Fatalf("expected conflict with station %d, got %d", stationA, assigned.StationID)
	}

	var count int
	row := pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM assignment_schedules WHERE station_id = $1
	`, stationB)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("count schedules: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no schedule rows for station %d, got %d", stationB, count)
	}
}

func TestReassignUpdatesRowInPlace(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	roleID := insertRole(t, ctx, pool, "Physician")
	first := insertEmployee(t, ctx, pool, "Ana Reyes", roleID)
	second := insertEmployee(t, ctx, pool, "Ben Cruz", roleID)
	stationID := insertStation(t, ctx, pool, "Consultation 1", models.StationTypeConsultation, 1)

	original := assignEmployee(t, ctx, st, first, stationID)

	updated, err := st.Reassign(ctx, store.ReassignInput{
		StationID:     stationID,
		NewEmployeeID: second,
		ReassignDate:  mustDate(t, "2025-02-01"),
		AssignedBy:    1,
	})
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if updated.ScheduleID != original.ScheduleID {
		t.Fatalf("expected same schedule row, got %d then %d", original.ScheduleID, updated.ScheduleID)
	}
	if updated.EmployeeID == nil || *updated.EmployeeID != second {
		t.Fatalf("expected employee %d, got %+v", second, updated.EmployeeID)
	}

	var count int
	row := pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM assignment_schedules WHERE station_id = $1
	`, stationID)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("count schedules: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single schedule row, got %d", count)
	}

	logs, err := st.ListAssignmentLogs(ctx, stationID)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	var reassigned int
	for _, entry := range logs {
		if entry.ActionType == models.AssignmentActionReassigned {
			reassigned++
		}
	}
	if reassigned != 1 {
		t.Fatalf("expected 1 reassigned log, got %d", reassigned)
	}
}

func TestReassignTwiceKeepsSingleRow(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	roleID := insertRole(t, ctx, pool, "Physician")
	first := insertEmployee(t, ctx, pool, "Ana Reyes", roleID)
	second := insertEmployee(t, ctx, pool, "Ben Cruz", roleID)
	stationID := insertStation(t, ctx, pool, "Consultation 1", models.StationTypeConsultation, 1)

	assignEmployee(t, ctx, st, first, stationID)

	input := store.ReassignInput{
		StationID:     stationID,
		NewEmployeeID: second,
		ReassignDate:  mustDate(t, "2025-02-01"),
		AssignedBy:    1,
	}
	one, err := st.Reassign(ctx, input)
	if err != nil {
		t.Fatalf("first reassign: %v", err)
	}
	two, err := st.Reassign(ctx, input)
	if err != nil {
		t.Fatalf("second reassign: %v", err)
	}
	if one.ScheduleID != two.ScheduleID {
		t.Fatalf("expected the same row to be updated")
	}

	var count int
	row := pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM assignment_schedules WHERE station_id = $1
	`, stationID)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("count schedules: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single schedule row, got %d", count)
	}
}

func TestRemoveEndAssignment(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	roleID := insertRole(t, ctx, pool, "Nurse")
	employeeID := insertEmployee(t, ctx, pool, "Ana Reyes", roleID)
	stationID := insertStation(t, ctx, pool, "Triage 1", models.StationTypeTriage, 1)

	assignEmployee(t, ctx, st, employeeID, stationID)

	removalDate := mustDate(t, "2025-03-01")
	schedule, err := st.Remove(ctx, store.RemoveInput{
		StationID:   stationID,
		RemovalDate: removalDate,
		RemovalType: models.RemovalEndAssignment,
		PerformedBy: 1,
	})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if schedule.IsActive {
		t.Fatalf("expected inactive schedule")
	}
	if schedule.EndDate == nil || !schedule.EndDate.Equal(removalDate) {
		t.Fatalf("expected end date %v, got %v", removalDate, schedule.EndDate)
	}

	view, found, err := st.GetForStation(ctx, stationID)
	if err != nil {
		t.Fatalf("get for station: %v", err)
	}
	if !found {
		t.Fatalf("expected station row")
	}
	if view.Schedule != nil {
		t.Fatalf("expected no active schedule after removal")
	}

	_, err = st.Remove(ctx, store.RemoveInput{
		StationID:   stationID,
		RemovalDate: removalDate,
		RemovalType: models.RemovalEndAssignment,
		PerformedBy: 1,
	})
	if !errors.Is(err, store.ErrNoActiveAssignment) {
		t.Fatalf("expected ErrNoActiveAssignment, got %v", err)
	}
}

func TestRemoveDeactivateKeepsEndDate(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	roleID := insertRole(t, ctx, pool, "Nurse")
	employeeID := insertEmployee(t, ctx, pool, "Ana Reyes", roleID)
	stationID := insertStation(t, ctx, pool, "Triage 1", models.StationTypeTriage, 1)

	assignEmployee(t, ctx, st, employeeID, stationID)

	schedule, err := st.Remove(ctx, store.RemoveInput{
		StationID:   stationID,
		RemovalDate: mustDate(t, "2025-03-01"),
		RemovalType: models.RemovalDeactivate,
		PerformedBy: 1,
	})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if schedule.IsActive {
		t.Fatalf("expected inactive schedule")
	}
	if schedule.EndDate != nil {
		t.Fatalf("deactivate must not set end date, got %v", schedule.EndDate)
	}
}

func TestQueueNumberingPerTypeAndCodes(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	patientA := insertPatient(t, ctx, pool, "Carla Diaz")
	patientB := insertPatient(t, ctx, pool, "Dan Evans")
	patientC := insertPatient(t, ctx, pool, "Eva Flores")
	stationID := insertStation(t, ctx, pool, "Lab 1", models.StationTypeLab, 1)

	first := createEntry(t, ctx, st, 100, patientA, models.StationTypeLab, &stationID, "")
	second := createEntry(t, ctx, st, 101, patientB, models.StationTypeLab, &stationID, "")
	third := createEntry(t, ctx, st, 102, patientC, models.StationTypeConsultation, nil, "")

	if first.QueueNumber != 1 || first.QueueCode != "L001" {
		t.Fatalf("unexpected first entry: number=%d code=%s", first.QueueNumber, first.QueueCode)
	}
	if second.QueueNumber != 2 || second.QueueCode != "L002" {
		t.Fatalf("unexpected second entry: number=%d code=%s", second.QueueNumber, second.QueueCode)
	}
	if third.QueueNumber != 1 || third.QueueCode != "C001" {
		t.Fatalf("consultation sequence must be independent: number=%d code=%s", third.QueueNumber, third.QueueCode)
	}
	if first.Status != models.StatusWaiting || first.PriorityLevel != models.PriorityNormal {
		t.Fatalf("unexpected defaults: %+v", first)
	}
}

func TestQueueNumberingResetsDaily(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	patientID := insertPatient(t, ctx, pool, "Carla Diaz")
	stationID := insertStation(t, ctx, pool, "Lab 1", models.StationTypeLab, 1)

	if _, err := pool.Exec(ctx, `
		INSERT INTO queue_entries (
			visit_id, patient_id, queue_type, station_id, queue_number, queue_code,
			priority_level, status, time_in, updated_at
		) VALUES ($1, $2, $3, $4, 7, 'L007', 'normal', 'done', NOW() - interval '1 day', NOW() - interval '1 day')
	`, int64(90), patientID, models.StationTypeLab, stationID); err != nil {
		t.Fatalf("insert yesterday's entry: %v", err)
	}

	entry := createEntry(t, ctx, st, 100, patientID, models.StationTypeLab, &stationID, "")
	if entry.QueueNumber != 1 || entry.QueueCode != "L001" {
		t.Fatalf("expected numbering to restart at 1 today, got number=%d code=%s", entry.QueueNumber, entry.QueueCode)
	}
}

func TestListAllWithAssignmentsOrdering(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	roleID := insertRole(t, ctx, pool, "Nurse")
	employeeID := insertEmployee(t, ctx, pool, "Ana Reyes", roleID)
	consultation := insertStation(t, ctx, pool, "Consultation 1", models.StationTypeConsultation, 1)
	triage := insertStation(t, ctx, pool, "Triage 1", models.StationTypeTriage, 1)
	billing := insertStation(t, ctx, pool, "Billing 1", models.StationTypeBilling, 1)

	if err := st.SetStationActive(ctx, billing, false); err != nil {
		t.Fatalf("deactivate station: %v", err)
	}
	assignEmployee(t, ctx, st, employeeID, triage)

	views, err := st.ListAllWithAssignments(ctx, mustDate(t, "2025-02-01"))
	if err != nil {
		t.Fatalf("list stations: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected all 3 stations including inactive, got %d", len(views))
	}
	if views[0].Station.StationID != consultation {
		t.Fatalf("expected consultation first among active stations, got %d", views[0].Station.StationID)
	}
	if views[2].Station.StationID != billing {
		t.Fatalf("expected inactive station last, got %d", views[2].Station.StationID)
	}
	for _, view := range views {
		switch view.Station.StationID {
		case triage:
			if view.Schedule == nil || view.EmployeeName != "Ana Reyes" {
				t.Fatalf("expected staffed triage view, got %+v", view)
			}
		default:
			if view.Schedule != nil {
				t.Fatalf("expected no schedule for station %d", view.Station.StationID)
			}
		}
	}

	// Before the assignment's start date the slot reads as unstaffed.
	earlier, err := st.ListAllWithAssignments(ctx, mustDate(t, "2024-12-01"))
	if err != nil {
		t.Fatalf("list stations: %v", err)
	}
	for _, view := range earlier {
		if view.Schedule != nil {
			t.Fatalf("expected no schedule before start date, got %+v", view)
		}
	}
}

func TestGetForEmployeeValidityWindow(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	roleID := insertRole(t, ctx, pool, "Nurse")
	employeeID := insertEmployee(t, ctx, pool, "Ana Reyes", roleID)
	stationID := insertStation(t, ctx, pool, "Triage 1", models.StationTypeTriage, 1)

	endDate := mustDate(t, "2025-06-30")
	if _, err := st.Assign(ctx, store.AssignInput{
		EmployeeID:     employeeID,
		StationID:      stationID,
		StartDate:      mustDate(t, "2025-01-01"),
		EndDate:        &endDate,
		AssignmentType: models.AssignmentTypeTemporary,
		ShiftStartTime: "08:00",
		ShiftEndTime:   "17:00",
		AssignedBy:     1,
	}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	schedule, found, err := st.GetForEmployee(ctx, employeeID, mustDate(t, "2025-03-01"))
	if err != nil {
		t.Fatalf("get for employee: %v", err)
	}
	if !found {
		t.Fatalf("expected assignment inside validity window")
	}
	if schedule.StationID != stationID {
		t.Fatalf("expected station %d, got %d", stationID, schedule.StationID)
	}

	if _, found, err = st.GetForEmployee(ctx, employeeID, mustDate(t, "2024-12-31")); err != nil || found {
		t.Fatalf("expected no assignment before start date, found=%v err=%v", found, err)
	}
	if _, found, err = st.GetForEmployee(ctx, employeeID, mustDate(t, "2025-07-01")); err != nil || found {
		t.Fatalf("expected no assignment after end date, found=%v err=%v", found, err)
	}
}

func TestUpdateStatusLifecycle(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	patientID := insertPatient(t, ctx, pool, "Carla Diaz")
	stationID := insertStation(t, ctx, pool, "Lab 1", models.StationTypeLab, 1)
	entry := createEntry(t, ctx, st, 100, patientID, models.StationTypeLab, &stationID, "")

	started, err := st.UpdateStatus(ctx, store.UpdateStatusInput{
		QueueEntryID: entry.QueueEntryID,
		NewStatus:    models.StatusInProgress,
	})
	if err != nil {
		t.Fatalf("to in_progress: %v", err)
	}
	if started.TimeStarted == nil {
		t.Fatalf("expected time_started to be stamped")
	}
	if started.TimeCompleted != nil {
		t.Fatalf("time_completed must not be set yet")
	}

	done, err := st.UpdateStatus(ctx, store.UpdateStatusInput{
		QueueEntryID: entry.QueueEntryID,
		NewStatus:    models.StatusDone,
		Remarks:      "results released",
	})
	if err != nil {
		t.Fatalf("to done: %v", err)
	}
	if done.TimeCompleted == nil {
		t.Fatalf("expected time_completed to be stamped")
	}
	if done.Remarks != "results released" {
		t.Fatalf("expected remarks to persist, got %q", done.Remarks)
	}

	logs, err := st.ListQueueLogs(ctx, entry.QueueEntryID)
	if err != nil {
		t.Fatalf("list queue logs: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected created + 2 status logs, got %d", len(logs))
	}
	if logs[0].Action != models.QueueActionCreated {
		t.Fatalf("expected created first, got %s", logs[0].Action)
	}
}

func TestUpdateStatusRejectsIllegalMove(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	patientID := insertPatient(t, ctx, pool, "Carla Diaz")
	entry := createEntry(t, ctx, st, 100, patientID, models.StationTypeTriage, nil, "")

	if _, err := st.UpdateStatus(ctx, store.UpdateStatusInput{
		QueueEntryID: entry.QueueEntryID,
		NewStatus:    models.StatusSkipped,
	}); err != nil {
		t.Fatalf("to skipped: %v", err)
	}

	_, err := st.UpdateStatus(ctx, store.UpdateStatusInput{
		QueueEntryID: entry.QueueEntryID,
		NewStatus:    models.StatusInProgress,
	})
	var transition *store.InvalidTransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if transition.From != models.StatusSkipped || transition.To != models.StatusInProgress {
		t.Fatalf("unexpected transition error: %+v", transition)
	}

	_, err = st.UpdateStatus(ctx, store.UpdateStatusInput{
		QueueEntryID: 9999,
		NewStatus:    models.StatusInProgress,
	})
	if !errors.Is(err, store.ErrQueueEntryNotFound) {
		t.Fatalf("expected ErrQueueEntryNotFound, got %v", err)
	}
}

func TestStationQueueOrdersByPriority(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	patientA := insertPatient(t, ctx, pool, "Carla Diaz")
	patientB := insertPatient(t, ctx, pool, "Dan Evans")
	stationID := insertStation(t, ctx, pool, "Triage 1", models.StationTypeTriage, 1)

	normal := createEntry(t, ctx, st, 100, patientA, models.StationTypeTriage, &stationID, models.PriorityNormal)
	emergency := createEntry(t, ctx, st, 101, patientB, models.StationTypeTriage, &stationID, models.PriorityEmergency)

	views, err := st.GetStationQueue(ctx, stationID)
	if err != nil {
		t.Fatalf("station queue: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 waiting entries, got %d", len(views))
	}
	if views[0].Entry.QueueEntryID != emergency.QueueEntryID {
		t.Fatalf("expected emergency first, got entry %d", views[0].Entry.QueueEntryID)
	}
	if views[1].Entry.QueueEntryID != normal.QueueEntryID {
		t.Fatalf("expected normal second, got entry %d", views[1].Entry.QueueEntryID)
	}
	if views[0].PatientName != "Dan Evans" {
		t.Fatalf("expected patient name on view, got %q", views[0].PatientName)
	}
}

func TestPatientStatusReturnsOpenEntry(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	patientID := insertPatient(t, ctx, pool, "Carla Diaz")

	_, found, err := st.GetPatientStatus(ctx, patientID)
	if err != nil {
		t.Fatalf("patient status: %v", err)
	}
	if found {
		t.Fatalf("expected no entry before ticketing")
	}

	entry := createEntry(t, ctx, st, 100, patientID, models.StationTypeTriage, nil, "")

	view, found, err := st.GetPatientStatus(ctx, patientID)
	if err != nil {
		t.Fatalf("patient status: %v", err)
	}
	if !found {
		t.Fatalf("expected open entry")
	}
	if view.Entry.QueueEntryID != entry.QueueEntryID {
		t.Fatalf("expected entry %d, got %d", entry.QueueEntryID, view.Entry.QueueEntryID)
	}

	if _, err := st.UpdateStatus(ctx, store.UpdateStatusInput{
		QueueEntryID: entry.QueueEntryID,
		NewStatus:    models.StatusSkipped,
	}); err != nil {
		t.Fatalf("skip entry: %v", err)
	}

	_, found, err = st.GetPatientStatus(ctx, patientID)
	if err != nil {
		t.Fatalf("patient status: %v", err)
	}
	if found {
		t.Fatalf("expected no open entry after skip")
	}
}

func TestStationStatisticsCounts(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	patientA := insertPatient(t, ctx, pool, "Carla Diaz")
	patientB := insertPatient(t, ctx, pool, "Dan Evans")
	patientC := insertPatient(t, ctx, pool, "Eva Flores")
	stationID := insertStation(t, ctx, pool, "Lab 1", models.StationTypeLab, 1)

	completed := createEntry(t, ctx, st, 100, patientA, models.StationTypeLab, &stationID, "")
	skipped := createEntry(t, ctx, st, 101, patientB, models.StationTypeLab, &stationID, "")
	createEntry(t, ctx, st, 102, patientC, models.StationTypeLab, &stationID, "")

	if _, err := st.UpdateStatus(ctx, store.UpdateStatusInput{QueueEntryID: completed.QueueEntryID, NewStatus: models.StatusInProgress}); err != nil {
		t.Fatalf("start entry: %v", err)
	}
	if _, err := st.UpdateStatus(ctx, store.UpdateStatusInput{QueueEntryID: completed.QueueEntryID, NewStatus: models.StatusCompleted}); err != nil {
		t.Fatalf("complete entry: %v", err)
	}
	if _, err := st.UpdateStatus(ctx, store.UpdateStatusInput{QueueEntryID: skipped.QueueEntryID, NewStatus: models.StatusSkipped}); err != nil {
		t.Fatalf("skip entry: %v", err)
	}

	stats, err := st.StationStatistics(ctx, stationID, time.Now().UTC())
	if err != nil {
		t.Fatalf("station statistics: %v", err)
	}
	if stats.Total != 3 {
		t.Fatalf("expected 3 total, got %d", stats.Total)
	}
	if stats.Completed != 1 {
		t.Fatalf("expected 1 completed, got %d", stats.Completed)
	}
	if stats.Skipped != 1 {
		t.Fatalf("expected 1 skipped, got %d", stats.Skipped)
	}
	if stats.Waiting != 1 {
		t.Fatalf("expected 1 waiting, got %d", stats.Waiting)
	}
}

func assignEmployee(t *testing.T, ctx context.Context, st *Store, employeeID, stationID int64) models.AssignmentSchedule {
	t.Helper()
	schedule, err := st.Assign(ctx, store.AssignInput{
		EmployeeID:     employeeID,
		StationID:      stationID,
		StartDate:      mustDate(t, "2025-01-01"),
		AssignmentType: models.AssignmentTypePermanent,
		ShiftStartTime: "08:00",
		ShiftEndTime:   "17:00",
		AssignedBy:     1,
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	return schedule
}

func createEntry(t *testing.T, ctx context.Context, st *Store, visitID, patientID int64, queueType string, stationID *int64, priority string) models.QueueEntry {
	t.Helper()
	entry, err := st.CreateEntry(ctx, store.CreateEntryInput{
		VisitID:       visitID,
		PatientID:     patientID,
		QueueType:     queueType,
		StationID:     stationID,
		PriorityLevel: priority,
	})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	return entry
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return parsed
}

func setupTestStore(t *testing.T, ctx context.Context) (*Store, *pgxpool.Pool, func()) {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		dsn = os.Getenv("DB_DSN")
	}
	if dsn == "" {
		t.Skip("TEST_DB_DSN or DB_DSN is required for integration tests")
	}

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := createSchema(ctx, dsn, schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	pool, err := newPoolWithSchema(ctx, dsn, schema)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("apply migrations: %v", err)
	}

	st := NewStore(pool)
	cleanup := func() {
		pool.Close()
		_ = dropSchema(context.Background(), dsn, schema)
	}
	return st, pool, cleanup
}

func createSchema(ctx context.Context, dsn, schema string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	_, err = conn.Exec(ctx, "CREATE SCHEMA "+schema)
	return err
}

func dropSchema(ctx context.Context, dsn, schema string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	_, err = conn.Exec(ctx, "DROP SCHEMA "+schema+" CASCADE")
	return err
}

func newPoolWithSchema(ctx context.Context, dsn, schema string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	return pgxpool.NewWithConfig(ctx, cfg)
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	dir := filepath.Join("..", "..", "..", "migrations")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	for _, name := range files {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(content)) == "" {
			continue
		}
		if _, err := pool.Exec(ctx, string(content)); err != nil {
			return err
		}
	}
	return nil
}

func insertRole(t *testing.T, ctx context.Context, pool *pgxpool.Pool, name string) int64 {
	t.Helper()
	var id int64
	row := pool.QueryRow(ctx, `
		INSERT INTO roles (role_name) VALUES ($1) RETURNING role_id
	`, name)
	if err := row.Scan(&id); err != nil {
		t.Fatalf("insert role: %v", err)
	}
	return id
}

func insertEmployee(t *testing.T, ctx context.Context, pool *pgxpool.Pool, name string, roleID int64) int64 {
	t.Helper()
	var id int64
	row := pool.QueryRow(ctx, `
		INSERT INTO employees (full_name, role_id, is_active) VALUES ($1, $2, TRUE) RETURNING employee_id
	`, name, roleID)
	if err := row.Scan(&id); err != nil {
		t.Fatalf("insert employee: %v", err)
	}
	return id
}

func insertPatient(t *testing.T, ctx context.Context, pool *pgxpool.Pool, name string) int64 {
	t.Helper()
	var id int64
	row := pool.QueryRow(ctx, `
		INSERT INTO patients (full_name) VALUES ($1) RETURNING patient_id
	`, name)
	if err := row.Scan(&id); err != nil {
		t.Fatalf("insert patient: %v", err)
	}
	return id
}

func insertStation(t *testing.T, ctx context.Context, pool *pgxpool.Pool, name, stationType string, number int) int64 {
	t.Helper()
	var id int64
	row := pool.QueryRow(ctx, `
		INSERT INTO stations (station_name, station_type, station_number, is_active, is_open)
		VALUES ($1, $2, $3, TRUE, TRUE)
		RETURNING station_id
	`, name, stationType, number)
	if err := row.Scan(&id); err != nil {
		t.Fatalf("insert station: %v", err)
	}
	return id
}
