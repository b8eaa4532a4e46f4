package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"homs/queue-service/internal/models"
	"homs/queue-service/internal/store"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type Handler struct {
	store store.Store
}

func NewHandler(store store.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/api/stations", h.handleStations)
	mux.HandleFunc("/api/stations/", h.handleStationSubroutes)
	mux.HandleFunc("/api/assignments", h.handleAssign)
	mux.HandleFunc("/api/employees/", h.handleEmployeeAssignment)
	mux.HandleFunc("/api/queue/entries", h.handleCreateEntry)
	mux.HandleFunc("/api/queue/entries/", h.handleQueueEntrySubroutes)
	mux.HandleFunc("/api/patients/", h.handlePatientQueue)
	mux.HandleFunc("/api/stats/station", h.handleStationStats)
	mux.HandleFunc("/api/stats/range", h.handleRangeStats)
	mux.HandleFunc("/api/stats/rollups", h.handleRollups)
	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GET /api/stations: every station with its current assignment, inactive
// stations included for administrative visibility.
func (h *Handler) handleStations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	asOf := time.Now().UTC()
	if raw := strings.TrimSpace(r.URL.Query().Get("as_of")); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "as_of must be a YYYY-MM-DD date")
			return
		}
		asOf = parsed
	}

	views, err := h.store.ListAllWithAssignments(r.Context(), asOf)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestID(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) handleStationSubroutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/stations/")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	stationID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || stationID <= 0 {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "station id must be a positive integer")
		return
	}

	switch {
	case len(parts) == 2 && parts[1] == "open":
		h.handleStationOpen(w, r, stationID)
	case len(parts) == 2 && parts[1] == "active":
		h.handleStationActive(w, r, stationID)
	case len(parts) == 2 && parts[1] == "assignment":
		h.handleStationAssignment(w, r, stationID)
	case len(parts) == 2 && parts[1] == "queue":
		h.handleStationQueue(w, r, stationID)
	case len(parts) == 3 && parts[1] == "assignment" && parts[2] == "remove":
		h.handleRemove(w, r, stationID)
	case len(parts) == 3 && parts[1] == "assignment" && parts[2] == "reassign":
		h.handleReassign(w, r, stationID)
	case len(parts) == 3 && parts[1] == "assignment" && parts[2] == "logs":
		h.handleAssignmentLogs(w, r, stationID)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type stationToggleRequest struct {
	Open   *bool `json:"open,omitempty"`
	Active *bool `json:"active,omitempty"`
}

func (h *Handler) handleStationOpen(w http.ResponseWriter, r *http.Request, stationID int64) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req stationToggleRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Open == nil {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "open is required")
		return
	}
	if err := h.store.SetStationOpen(r.Context(), stationID, *req.Open); err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestID(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"station_id": stationID, "is_open": *req.Open})
}

func (h *Handler) handleStationActive(w http.ResponseWriter, r *http.Request, stationID int64) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req stationToggleRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Active == nil {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "active is required")
		return
	}
	if err := h.store.SetStationActive(r.Context(), stationID, *req.Active); err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestID(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"station_id": stationID, "is_active": *req.Active})
}

func (h *Handler) handleStationAssignment(w http.ResponseWriter, r *http.Request, stationID int64) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	view, found, err := h.store.GetForStation(r.Context(), stationID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestID(r), status, code, msg)
		return
	}
	if !found {
		writeError(w, requestID(r), http.StatusNotFound, "station_not_found", "station not found")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type assignRequest struct {
	EmployeeID     int64  `json:"employee_id"`
	StationID      int64  `json:"station_id"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date,omitempty"`
	AssignmentType string `json:"assignment_type"`
	ShiftStartTime string `json:"shift_start_time"`
	ShiftEndTime   string `json:"shift_end_time"`
	AssignedBy     int64  `json:"assigned_by"`
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req assignRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if req.EmployeeID <= 0 || req.StationID <= 0 || req.AssignedBy <= 0 {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "employee_id, station_id, and assigned_by are required")
		return
	}
	startDate, err := time.Parse(dateLayout, strings.TrimSpace(req.StartDate))
	if err != nil {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "start_date must be a YYYY-MM-DD date")
		return
	}
	var endDate *time.Time
	if raw := strings.TrimSpace(req.EndDate); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "end_date must be a YYYY-MM-DD date")
			return
		}
		endDate = &parsed
	}
	if !validAssignmentType(req.AssignmentType) {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "assignment_type must be permanent, temporary, or substitute")
		return
	}
	if !validShiftTime(req.ShiftStartTime) || !validShiftTime(req.ShiftEndTime) {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "shift times must be HH:MM")
		return
	}

	schedule, err := h.store.Assign(r.Context(), store.AssignInput{
		EmployeeID:     req.EmployeeID,
		StationID:      req.StationID,
		StartDate:      startDate,
		EndDate:        endDate,
		AssignmentType: req.AssignmentType,
		ShiftStartTime: req.ShiftStartTime,
		ShiftEndTime:   req.ShiftEndTime,
		AssignedBy:     req.AssignedBy,
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestID(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

type removeRequest struct {
	RemovalDate string `json:"removal_date"`
	RemovalType string `json:"removal_type"`
	PerformedBy int64  `json:"performed_by"`
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request, stationID int64) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req removeRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.PerformedBy <= 0 {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "performed_by is required")
		return
	}
	removalDate, err := time.Parse(dateLayout, strings.TrimSpace(req.RemovalDate))
	if err != nil {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "removal_date must be a YYYY-MM-DD date")
		return
	}
	removalType := strings.TrimSpace(req.RemovalType)
	if removalType != models.RemovalEndAssignment && removalType != models.RemovalDeactivate {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "removal_type must be end_assignment or deactivate")
		return
	}

	schedule, err := h.store.Remove(r.Context(), store.RemoveInput{
		StationID:   stationID,
		RemovalDate: removalDate,
		RemovalType: removalType,
		PerformedBy: req.PerformedBy,
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestID(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

type reassignRequest struct {
	NewEmployeeID int64  `json:"new_employee_id"`
	ReassignDate  string `json:"reassign_date"`
	AssignedBy    int64  `json:"assigned_by"`
}

func (h *Handler) handleReassign(w http.ResponseWriter, r *http.Request, stationID int64) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req reassignRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.NewEmployeeID <= 0 || req.AssignedBy <= 0 {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "new_employee_id and assigned_by are required")
		return
	}
	reassignDate, err := time.Parse(dateLayout, strings.TrimSpace(req.ReassignDate))
	if err != nil {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "reassign_date must be a YYYY-MM-DD date")
		return
	}

	schedule, err := h.store.Reassign(r.Context(), store.ReassignInput{
		StationID:     stationID,
		NewEmployeeID: req.NewEmployeeID,
		ReassignDate:  reassignDate,
		AssignedBy:    req.AssignedBy,
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestID(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

func (h *Handler) handleAssignmentLogs(w http.ResponseWriter, r *http.Request, stationID int64) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	logs, err := h.store.ListAssignmentLogs(r.Context(), stationID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestID(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// GET /api/employees/{id}/assignment
func (h *Handler) handleEmployeeAssignment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/employees/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[1] != "assignment" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	employeeID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || employeeID <= 0 {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "employee id must be a positive integer")
		return
	}

	date := time.Now().UTC()
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "date must be a YYYY-MM-DD date")
			return
		}
		date = parsed
	}

	schedule, found, err := h.store.GetForEmployee(r.Context(), employeeID, date)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestID(r), status, code, msg)
		return
	}
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

type createEntryRequest struct {
	VisitID       int64  `json:"visit_id"`
	AppointmentID *int64 `json:"appointment_id,omitempty"`
	PatientID     int64  `json:"patient_id"`
	ServiceID     *int64 `json:"service_id,omitempty"`
	QueueType     string `json:"queue_type"`
	StationID     *int64 `json:"station_id,omitempty"`
	PriorityLevel string `json:"priority_level,omitempty"`
}

func (h *Handler) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req createEntryRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	req.QueueType = strings.TrimSpace(req.QueueType)
	req.PriorityLevel = strings.TrimSpace(req.PriorityLevel)
	if req.VisitID <= 0 || req.PatientID <= 0 || req.QueueType == "" {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "visit_id, patient_id, and queue_type are required")
		return
	}
	if req.PriorityLevel != "" && !validPriority(req.PriorityLevel) {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "priority_level must be emergency, urgent, normal, or other")
		return
	}
	if req.StationID != nil && *req.StationID <= 0 {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "station_id must be a positive integer when provided")
		return
	}

	entry, err := h.store.CreateEntry(r.Context(), store.CreateEntryInput{
		VisitID:       req.VisitID,
		AppointmentID: req.AppointmentID,
		PatientID:     req.PatientID,
		ServiceID:     req.ServiceID,
		QueueType:     req.QueueType,
		StationID:     req.StationID,
		PriorityLevel: req.PriorityLevel,
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestID(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleQueueEntrySubroutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/queue/entries/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	queueEntryID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || queueEntryID <= 0 {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "queue entry id must be a positive integer")
		return
	}

	switch parts[1] {
	case "status":
		h.handleUpdateStatus(w, r, queueEntryID)
	case "logs":
		h.handleQueueLogs(w, r, queueEntryID)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type updateStatusRequest struct {
	Status     string `json:"status"`
	EmployeeID *int64 `json:"employee_id,omitempty"`
	Remarks    string `json:"remarks,omitempty"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request, queueEntryID int64) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req updateStatusRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	req.Status = strings.TrimSpace(req.Status)
	if !store.ValidStatus(req.Status) {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "status must be waiting, in_progress, done, completed, or skipped")
		return
	}

	entry, err := h.store.UpdateStatus(r.Context(), store.UpdateStatusInput{
		QueueEntryID: queueEntryID,
		NewStatus:    req.Status,
		EmployeeID:   req.EmployeeID,
		Remarks:      strings.TrimSpace(req.Remarks),
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestID(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleQueueLogs(w http.ResponseWriter, r *http.Request, queueEntryID int64) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	logs, err := h.store.ListQueueLogs(r.Context(), queueEntryID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestID(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *Handler) handleStationQueue(w http.ResponseWriter, r *http.Request, stationID int64) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	views, err := h.store.GetStationQueue(r.Context(), stationID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestID(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// GET /api/patients/{id}/queue: the patient's open ticket today, if any.
func (h *Handler) handlePatientQueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/patients/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[1] != "queue" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	patientID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || patientID <= 0 {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "patient id must be a positive integer")
		return
	}

	view, found, err := h.store.GetPatientStatus(r.Context(), patientID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestID(r), status, code, msg)
		return
	}
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleStationStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	stationID, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("station_id")), 10, 64)
	if err != nil || stationID <= 0 {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "station_id must be a positive integer")
		return
	}
	date := time.Now().UTC()
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "date must be a YYYY-MM-DD date")
			return
		}
		date = parsed
	}

	stats, err := h.store.StationStatistics(r.Context(), stationID, date)
	if err != nil {
		log.Printf("station stats error station=%d: %v", stationID, err)
		writeJSON(w, http.StatusOK, store.StationStats{})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleRangeStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	from, to, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	stats, err := h.store.RangeStatistics(r.Context(), from, to)
	if err != nil {
		log.Printf("range stats error: %v", err)
		writeJSON(w, http.StatusOK, store.StationStats{})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleRollups(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	from, to, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	switch strings.TrimSpace(r.URL.Query().Get("by")) {
	case "", "queue_type":
		rollups, err := h.store.QueueTypeRollups(r.Context(), from, to)
		if err != nil {
			log.Printf("queue type rollup error: %v", err)
			writeJSON(w, http.StatusOK, []store.QueueTypeRollup{})
			return
		}
		writeJSON(w, http.StatusOK, rollups)
	case "station":
		rollups, err := h.store.StationRollups(r.Context(), from, to)
		if err != nil {
			log.Printf("station rollup error: %v", err)
			writeJSON(w, http.StatusOK, []store.StationRollup{})
			return
		}
		writeJSON(w, http.StatusOK, rollups)
	default:
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "by must be queue_type or station")
	}
}

func parseDateRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	from, err := time.Parse(dateLayout, strings.TrimSpace(r.URL.Query().Get("from")))
	if err != nil {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "from must be a YYYY-MM-DD date")
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(dateLayout, strings.TrimSpace(r.URL.Query().Get("to")))
	if err != nil {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "to must be a YYYY-MM-DD date")
		return time.Time{}, time.Time{}, false
	}
	if to.Before(from) {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_request", "to must not be before from")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func validAssignmentType(value string) bool {
	switch value {
	case models.AssignmentTypePermanent, models.AssignmentTypeTemporary, models.AssignmentTypeSubstitute:
		return true
	default:
		return false
	}
}

func validShiftTime(value string) bool {
	_, err := time.Parse("15:04", value)
	return err == nil
}

func validPriority(value string) bool {
	switch value {
	case models.PriorityEmergency, models.PriorityUrgent, models.PriorityNormal, models.PriorityOther:
		return true
	default:
		return false
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeError(w, requestID(r), http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return false
	}
	return true
}

func requestID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("X-Request-ID")); id != "" {
		return id
	}
	return uuid.NewString()
}

type errorResponse struct {
	RequestID string        `json:"request_id"`
	Error     responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func mapError(err error) (int, string, string) {
	var assigned *store.EmployeeAssignedError
	var transition *store.InvalidTransitionError
	switch {
	case errors.As(err, &assigned):
		return http.StatusConflict, "employee_already_assigned", assigned.Error()
	case errors.As(err, &transition):
		return http.StatusConflict, "invalid_transition", transition.Error()
	case errors.Is(err, store.ErrNoActiveAssignment):
		return http.StatusConflict, "no_active_assignment", "station has no active assignment"
	case errors.Is(err, store.ErrStationNotFound):
		return http.StatusNotFound, "station_not_found", "station not found or inactive"
	case errors.Is(err, store.ErrEmployeeNotFound):
		return http.StatusNotFound, "employee_not_found", "employee not found or inactive"
	case errors.Is(err, store.ErrQueueEntryNotFound):
		return http.StatusNotFound, "queue_entry_not_found", "queue entry not found"
	case errors.Is(err, store.ErrInvalidRemovalType):
		return http.StatusBadRequest, "invalid_request", "removal_type must be end_assignment or deactivate"
	default:
		log.Printf("internal error: %v", err)
		return http.StatusInternalServerError, "internal_error", "temporary failure, please retry"
	}
}

func writeError(w http.ResponseWriter, requestID string, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		RequestID: requestID,
		Error: responseError{
			Code:    code,
			Message: message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
