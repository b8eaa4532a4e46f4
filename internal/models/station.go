package models

type Station struct {
	StationID     int64  `json:"station_id"`
	StationName   string `json:"station_name"`
	StationType   string `json:"station_type"`
	StationNumber int    `json:"station_number"`
	ServiceID     *int64 `json:"service_id,omitempty"`
	IsActive      bool   `json:"is_active"`
	IsOpen        bool   `json:"is_open"`
}

const (
	StationTypeTriage       = "triage"
	StationTypeConsultation = "consultation"
	StationTypeLab          = "lab"
	StationTypePrescription = "prescription"
	StationTypeBilling      = "billing"
	StationTypeDocument     = "document"
	StationTypeOther        = "other"
)
