package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"homs/queue-service/internal/models"
	"homs/queue-service/internal/store"

	"github.com/jackc/pgx/v5"
)

const scheduleColumns = `schedule_id, station_id, employee_id, start_date, end_date, assignment_type, shift_start_time, shift_end_time, assigned_by, is_active, assigned_at`

func (s *Store) Assign(ctx context.Context, input store.AssignInput) (models.AssignmentSchedule, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.AssignmentSchedule{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = ensureStationActive(ctx, tx, input.StationID); err != nil {
		return models.AssignmentSchedule{}, err
	}
	if err = ensureEmployeeActive(ctx, tx, input.EmployeeID); err != nil {
		return models.AssignmentSchedule{}, err
	}

	if err = checkEmployeeConflict(ctx, tx, input.EmployeeID, input.StationID); err != nil {
		return models.AssignmentSchedule{}, err
	}

	var scheduleID int64
	var previousEmployee sql.NullInt64
	hasRow := true
	row := tx.QueryRow(ctx, `
		SELECT schedule_id, employee_id
		FROM assignment_schedules
		WHERE station_id = $1
		FOR UPDATE
	`, input.StationID)
	if err = row.Scan(&scheduleID, &previousEmployee); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return models.AssignmentSchedule{}, err
		}
		hasRow = false
		err = nil
	}

	assignedAt := time.Now().UTC()
	var schedule models.AssignmentSchedule
	actionType := models.AssignmentActionCreated
	if hasRow {
		if previousEmployee.Valid {
			actionType = models.AssignmentActionReassigned
		}
		row = tx.QueryRow(ctx, `
			UPDATE assignment_schedules
			SET employee_id = $1,
				start_date = $2,
				end_date = $3,
				assignment_type = $4,
				shift_start_time = $5,
				shift_end_time = $6,
				assigned_by = $7,
				is_active = TRUE,
				assigned_at = $8
			WHERE schedule_id = $9
			RETURNING `+scheduleColumns+`
		`, input.EmployeeID, input.StartDate, input.EndDate, input.AssignmentType, input.ShiftStartTime, input.ShiftEndTime, input.AssignedBy, assignedAt, scheduleID)
	} else {
		row = tx.QueryRow(ctx, `
			INSERT INTO assignment_schedules (
				station_id, employee_id, start_date, end_date, assignment_type,
				shift_start_time, shift_end_time, assigned_by, is_active, assigned_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9)
			RETURNING `+scheduleColumns+`
		`, input.StationID, input.EmployeeID, input.StartDate, input.EndDate, input.AssignmentType, input.ShiftStartTime, input.ShiftEndTime, input.AssignedBy, assignedAt)
	}
	if schedule, err = scanSchedule(row); err != nil {
		return models.AssignmentSchedule{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.AssignmentSchedule{}, err
	}

	notes := fmt.Sprintf("employee %d assigned (%s shift %s-%s)", input.EmployeeID, input.AssignmentType, input.ShiftStartTime, input.ShiftEndTime)
	if actionType == models.AssignmentActionReassigned && previousEmployee.Valid {
		notes = fmt.Sprintf("employee %d -> %d", previousEmployee.Int64, input.EmployeeID)
	}
	s.appendAssignmentLog(ctx, models.AssignmentLog{
		ScheduleID:  schedule.ScheduleID,
		EmployeeID:  schedule.EmployeeID,
		StationID:   schedule.StationID,
		ActionType:  actionType,
		ActionDate:  input.StartDate,
		PerformedBy: input.AssignedBy,
		Notes:       notes,
	})

	return schedule, nil
}

func (s *Store) Remove(ctx context.Context, input store.RemoveInput) (models.AssignmentSchedule, error) {
	if input.RemovalType != models.RemovalEndAssignment && input.RemovalType != models.RemovalDeactivate {
		return models.AssignmentSchedule{}, store.ErrInvalidRemovalType
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.AssignmentSchedule{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var scheduleID int64
	row := tx.QueryRow(ctx, `
		SELECT schedule_id
		FROM assignment_schedules
		WHERE station_id = $1 AND is_active = TRUE
		FOR UPDATE
	`, input.StationID)
	if err = row.Scan(&scheduleID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = store.ErrNoActiveAssignment
		}
		return models.AssignmentSchedule{}, err
	}

	var schedule models.AssignmentSchedule
	actionType := models.AssignmentActionDeactivated
	if input.RemovalType == models.RemovalEndAssignment {
		actionType = models.AssignmentActionEnded
		row = tx.QueryRow(ctx, `
			UPDATE assignment_schedules
			SET end_date = $1, is_active = FALSE
			WHERE schedule_id = $2
			RETURNING `+scheduleColumns+`
		`, input.RemovalDate, scheduleID)
	} else {
		row = tx.QueryRow(ctx, `
			UPDATE assignment_schedules
			SET is_active = FALSE
			WHERE schedule_id = $1
			RETURNING `+scheduleColumns+`
		`, scheduleID)
	}
	if schedule, err = scanSchedule(row); err != nil {
		return models.AssignmentSchedule{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.AssignmentSchedule{}, err
	}

	s.appendAssignmentLog(ctx, models.AssignmentLog{
		ScheduleID:  schedule.ScheduleID,
		EmployeeID:  schedule.EmployeeID,
		StationID:   schedule.StationID,
		ActionType:  actionType,
		ActionDate:  input.RemovalDate,
		PerformedBy: input.PerformedBy,
		Notes:       input.RemovalType,
	})

	return schedule, nil
}

func (s *Store) Reassign(ctx context.Context, input store.ReassignInput) (models.AssignmentSchedule, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.AssignmentSchedule{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var scheduleID int64
	var previousEmployee sql.NullInt64
	row := tx.QueryRow(ctx, `
		SELECT schedule_id, employee_id
		FROM assignment_schedules
		WHERE station_id = $1 AND is_active = TRUE
		FOR UPDATE
	`, input.StationID)
	if err = row.Scan(&scheduleID, &previousEmployee); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = store.ErrNoActiveAssignment
		}
		return models.AssignmentSchedule{}, err
	}

	if err = ensureEmployeeActive(ctx, tx, input.NewEmployeeID); err != nil {
		return models.AssignmentSchedule{}, err
	}
	if err = checkEmployeeConflict(ctx, tx, input.NewEmployeeID, input.StationID); err != nil {
		return models.AssignmentSchedule{}, err
	}

	var schedule models.AssignmentSchedule
	row = tx.QueryRow(ctx, `
		UPDATE assignment_schedules
		SET employee_id = $1,
			start_date = $2,
			assigned_by = $3,
			assigned_at = $4
		WHERE schedule_id = $5
		RETURNING `+scheduleColumns+`
	`, input.NewEmployeeID, input.ReassignDate, input.AssignedBy, time.Now().UTC(), scheduleID)
	if schedule, err = scanSchedule(row); err != nil {
		return models.AssignmentSchedule{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.AssignmentSchedule{}, err
	}

	previous := "none"
	if previousEmployee.Valid {
		previous = fmt.Sprintf("%d", previousEmployee.Int64)
	}
	s.appendAssignmentLog(ctx, models.AssignmentLog{
		ScheduleID:  schedule.ScheduleID,
		EmployeeID:  schedule.EmployeeID,
		StationID:   schedule.StationID,
		ActionType:  models.AssignmentActionReassigned,
		ActionDate:  input.ReassignDate,
		PerformedBy: input.AssignedBy,
		Notes:       fmt.Sprintf("employee %s -> %d", previous, input.NewEmployeeID),
	})

	return schedule, nil
}

func (s *Store) ListAllWithAssignments(ctx context.Context, asOf time.Time) ([]store.StationAssignmentView, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT st.station_id, st.station_name, st.station_type, st.station_number, st.service_id, st.is_active, st.is_open,
			a.schedule_id, a.station_id, a.employee_id, a.start_date, a.end_date, a.assignment_type,
			a.shift_start_time, a.shift_end_time, a.assigned_by, a.is_active, a.assigned_at,
			e.full_name, r.role_name
		FROM stations st
		LEFT JOIN assignment_schedules a ON a.station_id = st.station_id AND a.is_active = TRUE
			AND a.start_date <= $1 AND (a.end_date IS NULL OR a.end_date >= $1)
		LEFT JOIN employees e ON e.employee_id = a.employee_id
		LEFT JOIN roles r ON r.role_id = e.role_id
		ORDER BY st.is_active DESC, st.station_type ASC, st.station_name ASC, st.station_number ASC
	`, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []store.StationAssignmentView
	for rows.Next() {
		view, err := scanStationAssignmentView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}

func (s *Store) GetForEmployee(ctx context.Context, employeeID int64, date time.Time) (models.AssignmentSchedule, bool, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+scheduleColumns+`
		FROM assignment_schedules
		WHERE employee_id = $1 AND is_active = TRUE
			AND start_date <= $2 AND (end_date IS NULL OR end_date >= $2)
	`, employeeID, date)
	schedule, err := scanSchedule(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.AssignmentSchedule{}, false, nil
		}
		return models.AssignmentSchedule{}, false, err
	}
	return schedule, true, nil
}

func (s *Store) GetForStation(ctx context.Context, stationID int64) (store.StationAssignmentView, bool, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT st.station_id, st.station_name, st.station_type, st.station_number, st.service_id, st.is_active, st.is_open,
			a.schedule_id, a.station_id, a.employee_id, a.start_date, a.end_date, a.assignment_type,
			a.shift_start_time, a.shift_end_time, a.assigned_by, a.is_active, a.assigned_at,
			e.full_name, r.role_name
		FROM stations st
		LEFT JOIN assignment_schedules a ON a.station_id = st.station_id AND a.is_active = TRUE
			AND a.start_date <= CURRENT_DATE AND (a.end_date IS NULL OR a.end_date >= CURRENT_DATE)
		LEFT JOIN employees e ON e.employee_id = a.employee_id
		LEFT JOIN roles r ON r.role_id = e.role_id
		WHERE st.station_id = $1
	`, stationID)
	view, err := scanStationAssignmentView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.StationAssignmentView{}, false, nil
		}
		return store.StationAssignmentView{}, false, err
	}
	return view, true, nil
}

func (s *Store) ListAssignmentLogs(ctx context.Context, stationID int64) ([]models.AssignmentLog, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT log_id, schedule_id, employee_id, station_id, action_type, action_date, performed_by, notes
		FROM assignment_logs
		WHERE station_id = $1
		ORDER BY action_date ASC, log_id ASC
	`, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.AssignmentLog
	for rows.Next() {
		var entry models.AssignmentLog
		var employeeIDNull sql.NullInt64
		var notesNull sql.NullString
		if err := rows.Scan(&entry.LogID, &entry.ScheduleID, &employeeIDNull, &entry.StationID, &entry.ActionType, &entry.ActionDate, &entry.PerformedBy, &notesNull); err != nil {
			return nil, err
		}
		entry.EmployeeID = nullInt64Ptr(employeeIDNull)
		entry.Notes = nullStringValue(notesNull)
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

// appendAssignmentLog is best-effort: the primary transaction has already
// committed, so a failed audit insert is logged and swallowed.
func (s *Store) appendAssignmentLog(ctx context.Context, entry models.AssignmentLog) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO assignment_logs (schedule_id, employee_id, station_id, action_type, action_date, performed_by, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ScheduleID, entry.EmployeeID, entry.StationID, entry.ActionType, entry.ActionDate, entry.PerformedBy, entry.Notes)
	if err != nil {
		log.Printf("assignment log insert failed schedule=%d station=%d action=%s: %v", entry.ScheduleID, entry.StationID, entry.ActionType, err)
	}
}

func ensureStationActive(ctx context.Context, tx pgx.Tx, stationID int64) error {
	var id int64
	row := tx.QueryRow(ctx, `
		SELECT station_id
		FROM stations
		WHERE station_id = $1 AND is_active = TRUE
	`, stationID)
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrStationNotFound
		}
		return err
	}
	return nil
}

func ensureEmployeeActive(ctx context.Context, tx pgx.Tx, employeeID int64) error {
	var id int64
	row := tx.QueryRow(ctx, `
		SELECT employee_id
		FROM employees
		WHERE employee_id = $1 AND is_active = TRUE
	`, employeeID)
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrEmployeeNotFound
		}
		return err
	}
	return nil
}

// checkEmployeeConflict locks any active assignment the employee holds on a
// different station so two concurrent assigns serialize on it. The partial
// unique index on (employee_id) WHERE is_active backs this up.
func checkEmployeeConflict(ctx context.Context, tx pgx.Tx, employeeID, stationID int64) error {
	var conflictStation int64
	row := tx.QueryRow(ctx, `
		SELECT station_id
		FROM assignment_schedules
		WHERE employee_id = $1 AND is_active = TRUE AND station_id <> $2
		FOR UPDATE
	`, employeeID, stationID)
	if err := row.Scan(&conflictStation); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	return &store.EmployeeAssignedError{EmployeeID: employeeID, StationID: conflictStation}
}

func scanSchedule(row pgx.Row) (models.AssignmentSchedule, error) {
	var schedule models.AssignmentSchedule
	var employeeIDNull sql.NullInt64
	var endDateNull sql.NullTime
	if err := row.Scan(&schedule.ScheduleID, &schedule.StationID, &employeeIDNull, &schedule.StartDate, &endDateNull, &schedule.AssignmentType, &schedule.ShiftStartTime, &schedule.ShiftEndTime, &schedule.AssignedBy, &schedule.IsActive, &schedule.AssignedAt); err != nil {
		return models.AssignmentSchedule{}, err
	}
	schedule.EmployeeID = nullInt64Ptr(employeeIDNull)
	schedule.EndDate = nullTimePtr(endDateNull)
	return schedule, nil
}

func scanStationAssignmentView(row pgx.Row) (store.StationAssignmentView, error) {
	var view store.StationAssignmentView
	var serviceIDNull sql.NullInt64
	var scheduleIDNull, scheduleStationNull, employeeIDNull, assignedByNull sql.NullInt64
	var startDateNull, endDateNull, assignedAtNull sql.NullTime
	var assignmentTypeNull, shiftStartNull, shiftEndNull sql.NullString
	var scheduleActiveNull sql.NullBool
	var employeeNameNull, roleNameNull sql.NullString

	if err := row.Scan(
		&view.Station.StationID, &view.Station.StationName, &view.Station.StationType, &view.Station.StationNumber,
		&serviceIDNull, &view.Station.IsActive, &view.Station.IsOpen,
		&scheduleIDNull, &scheduleStationNull, &employeeIDNull, &startDateNull, &endDateNull, &assignmentTypeNull,
		&shiftStartNull, &shiftEndNull, &assignedByNull, &scheduleActiveNull, &assignedAtNull,
		&employeeNameNull, &roleNameNull,
	); err != nil {
		return store.StationAssignmentView{}, err
	}
	view.Station.ServiceID = nullInt64Ptr(serviceIDNull)
	if scheduleIDNull.Valid {
		view.Schedule = &models.AssignmentSchedule{
			ScheduleID:     scheduleIDNull.Int64,
			StationID:      scheduleStationNull.Int64,
			EmployeeID:     nullInt64Ptr(employeeIDNull),
			StartDate:      startDateNull.Time,
			EndDate:        nullTimePtr(endDateNull),
			AssignmentType: nullStringValue(assignmentTypeNull),
			ShiftStartTime: nullStringValue(shiftStartNull),
			ShiftEndTime:   nullStringValue(shiftEndNull),
			AssignedBy:     assignedByNull.Int64,
			IsActive:       scheduleActiveNull.Bool,
			AssignedAt:     assignedAtNull.Time,
		}
	}
	view.EmployeeName = nullStringValue(employeeNameNull)
	view.RoleName = nullStringValue(roleNameNull)
	return view, nil
}
