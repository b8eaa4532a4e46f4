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

const queueEntryColumns = `queue_entry_id, visit_id, appointment_id, patient_id, service_id, queue_type, station_id, queue_number, queue_code, priority_level, status, time_in, time_started, time_completed, remarks, updated_at`

func (s *Store) CreateEntry(ctx context.Context, input store.CreateEntryInput) (models.QueueEntry, error) {
	priority := input.PriorityLevel
	if priority == "" {
		priority = models.PriorityNormal
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.QueueEntry{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	now := time.Now().UTC()

	// Numbering resets daily and is scoped per queue type, plus station when
	// one is given. Concurrent admissions serialize on the storage layer only.
	query := `
		SELECT COALESCE(MAX(queue_number), 0) + 1
		FROM queue_entries
		WHERE queue_type = $1 AND time_in::date = ($2)::date
	`
	args := []interface{}{input.QueueType, now}
	if input.StationID != nil {
		query += " AND station_id = $3"
		args = append(args, *input.StationID)
	}

	var queueNumber int
	if err = tx.QueryRow(ctx, query, args...).Scan(&queueNumber); err != nil {
		return models.QueueEntry{}, err
	}
	queueCode := store.FormatQueueCode(input.QueueType, queueNumber)

	var entry models.QueueEntry
	row := tx.QueryRow(ctx, `
		INSERT INTO queue_entries (
			visit_id, appointment_id, patient_id, service_id, queue_type, station_id,
			queue_number, queue_code, priority_level, status, time_in, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING `+queueEntryColumns+`
	`, input.VisitID, input.AppointmentID, input.PatientID, input.ServiceID, input.QueueType, input.StationID,
		queueNumber, queueCode, priority, models.StatusWaiting, now)
	if entry, err = scanQueueEntry(row); err != nil {
		return models.QueueEntry{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.QueueEntry{}, err
	}

	s.appendQueueLog(ctx, models.QueueLog{
		QueueEntryID: entry.QueueEntryID,
		Action:       models.QueueActionCreated,
		Details:      fmt.Sprintf("code=%s priority=%s", entry.QueueCode, entry.PriorityLevel),
		Timestamp:    now,
	})

	return entry, nil
}

func (s *Store) UpdateStatus(ctx context.Context, input store.UpdateStatusInput) (models.QueueEntry, error) {
	if !store.ValidStatus(input.NewStatus) {
		return models.QueueEntry{}, &store.InvalidTransitionError{From: "", To: input.NewStatus}
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.QueueEntry{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var currentStatus string
	row := tx.QueryRow(ctx, `
		SELECT status
		FROM queue_entries
		WHERE queue_entry_id = $1
		FOR UPDATE
	`, input.QueueEntryID)
	if err = row.Scan(&currentStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = store.ErrQueueEntryNotFound
		}
		return models.QueueEntry{}, err
	}

	if !store.ValidTransition(currentStatus, input.NewStatus) {
		err = &store.InvalidTransitionError{From: currentStatus, To: input.NewStatus}
		return models.QueueEntry{}, err
	}

	now := time.Now().UTC()
	query := `
		UPDATE queue_entries
		SET status = $1, updated_at = $2
	`
	args := []interface{}{input.NewStatus, now}
	switch input.NewStatus {
	case models.StatusInProgress:
		query += fmt.Sprintf(", time_started = $%d", len(args)+1)
		args = append(args, now)
	case models.StatusDone, models.StatusCompleted:
		query += fmt.Sprintf(", time_completed = $%d", len(args)+1)
		args = append(args, now)
	}
	if input.Remarks != "" {
		query += fmt.Sprintf(", remarks = $%d", len(args)+1)
		args = append(args, input.Remarks)
	}
	query += fmt.Sprintf(" WHERE queue_entry_id = $%d RETURNING ", len(args)+1) + queueEntryColumns
	args = append(args, input.QueueEntryID)

	var entry models.QueueEntry
	if entry, err = scanQueueEntry(tx.QueryRow(ctx, query, args...)); err != nil {
		return models.QueueEntry{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.QueueEntry{}, err
	}

	s.appendQueueLog(ctx, models.QueueLog{
		QueueEntryID: entry.QueueEntryID,
		Action:       models.QueueActionStatusChanged,
		EmployeeID:   input.EmployeeID,
		Details:      fmt.Sprintf("%s -> %s", currentStatus, input.NewStatus),
		Timestamp:    now,
	})

	return entry, nil
}

func (s *Store) GetStationQueue(ctx context.Context, stationID int64) ([]store.QueueEntryView, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+prefixedQueueEntryColumns("q")+`, p.full_name, st.station_name
		FROM queue_entries q
		JOIN patients p ON p.patient_id = q.patient_id
		LEFT JOIN stations st ON st.station_id = q.station_id
		WHERE q.station_id = $1
			AND q.status IN ('waiting', 'in_progress')
			AND q.time_in::date = CURRENT_DATE
		ORDER BY
			CASE q.priority_level
				WHEN 'emergency' THEN 1
				WHEN 'urgent' THEN 2
				WHEN 'normal' THEN 3
				ELSE 4
			END ASC,
			q.time_in ASC
	`, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []store.QueueEntryView
	for rows.Next() {
		view, err := scanQueueEntryView(rows)
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

func (s *Store) GetPatientStatus(ctx context.Context, patientID int64) (store.QueueEntryView, bool, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+prefixedQueueEntryColumns("q")+`, p.full_name, st.station_name
		FROM queue_entries q
		JOIN patients p ON p.patient_id = q.patient_id
		LEFT JOIN stations st ON st.station_id = q.station_id
		WHERE q.patient_id = $1
			AND q.status IN ('waiting', 'in_progress')
			AND q.time_in::date = CURRENT_DATE
		ORDER BY q.time_in DESC
		LIMIT 1
	`, patientID)
	view, err := scanQueueEntryView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.QueueEntryView{}, false, nil
		}
		return store.QueueEntryView{}, false, err
	}
	return view, true, nil
}

func (s *Store) ListQueueLogs(ctx context.Context, queueEntryID int64) ([]models.QueueLog, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT queue_log_id, queue_entry_id, action, employee_id, details, timestamp
		FROM queue_logs
		WHERE queue_entry_id = $1
		ORDER BY timestamp ASC, queue_log_id ASC
	`, queueEntryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.QueueLog
	for rows.Next() {
		var entry models.QueueLog
		var employeeIDNull sql.NullInt64
		var detailsNull sql.NullString
		if err := rows.Scan(&entry.QueueLogID, &entry.QueueEntryID, &entry.Action, &employeeIDNull, &detailsNull, &entry.Timestamp); err != nil {
			return nil, err
		}
		entry.EmployeeID = nullInt64Ptr(employeeIDNull)
		entry.Details = nullStringValue(detailsNull)
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

// appendQueueLog is best-effort after the primary commit, same policy as
// appendAssignmentLog.
func (s *Store) appendQueueLog(ctx context.Context, entry models.QueueLog) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO queue_logs (queue_entry_id, action, employee_id, details, timestamp)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.QueueEntryID, entry.Action, entry.EmployeeID, entry.Details, entry.Timestamp)
	if err != nil {
		log.Printf("queue log insert failed entry=%d action=%s: %v", entry.QueueEntryID, entry.Action, err)
	}
}

func prefixedQueueEntryColumns(alias string) string {
	return alias + ".queue_entry_id, " + alias + ".visit_id, " + alias + ".appointment_id, " + alias + ".patient_id, " +
		alias + ".service_id, " + alias + ".queue_type, " + alias + ".station_id, " + alias + ".queue_number, " +
		alias + ".queue_code, " + alias + ".priority_level, " + alias + ".status, " + alias + ".time_in, " +
		alias + ".time_started, " + alias + ".time_completed, " + alias + ".remarks, " + alias + ".updated_at"
}

func scanQueueEntry(row pgx.Row) (models.QueueEntry, error) {
	var entry models.QueueEntry
	var appointmentIDNull, serviceIDNull, stationIDNull sql.NullInt64
	var timeStartedNull, timeCompletedNull sql.NullTime
	var remarksNull sql.NullString
	if err := row.Scan(&entry.QueueEntryID, &entry.VisitID, &appointmentIDNull, &entry.PatientID, &serviceIDNull,
		&entry.QueueType, &stationIDNull, &entry.QueueNumber, &entry.QueueCode, &entry.PriorityLevel, &entry.Status,
		&entry.TimeIn, &timeStartedNull, &timeCompletedNull, &remarksNull, &entry.UpdatedAt); err != nil {
		return models.QueueEntry{}, err
	}
	entry.AppointmentID = nullInt64Ptr(appointmentIDNull)
	entry.ServiceID = nullInt64Ptr(serviceIDNull)
	entry.StationID = nullInt64Ptr(stationIDNull)
	entry.TimeStarted = nullTimePtr(timeStartedNull)
	entry.TimeCompleted = nullTimePtr(timeCompletedNull)
	entry.Remarks = nullStringValue(remarksNull)
	return entry, nil
}

func scanQueueEntryView(row pgx.Row) (store.QueueEntryView, error) {
	var view store.QueueEntryView
	var appointmentIDNull, serviceIDNull, stationIDNull sql.NullInt64
	var timeStartedNull, timeCompletedNull sql.NullTime
	var remarksNull, stationNameNull sql.NullString
	if err := row.Scan(&view.Entry.QueueEntryID, &view.Entry.VisitID, &appointmentIDNull, &view.Entry.PatientID, &serviceIDNull,
		&view.Entry.QueueType, &stationIDNull, &view.Entry.QueueNumber, &view.Entry.QueueCode, &view.Entry.PriorityLevel, &view.Entry.Status,
		&view.Entry.TimeIn, &timeStartedNull, &timeCompletedNull, &remarksNull, &view.Entry.UpdatedAt,
		&view.PatientName, &stationNameNull); err != nil {
		return store.QueueEntryView{}, err
	}
	view.Entry.AppointmentID = nullInt64Ptr(appointmentIDNull)
	view.Entry.ServiceID = nullInt64Ptr(serviceIDNull)
	view.Entry.StationID = nullInt64Ptr(stationIDNull)
	view.Entry.TimeStarted = nullTimePtr(timeStartedNull)
	view.Entry.TimeCompleted = nullTimePtr(timeCompletedNull)
	view.Entry.Remarks = nullStringValue(remarksNull)
	view.StationName = nullStringValue(stationNameNull)
	return view, nil
}
