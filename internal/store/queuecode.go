package store

import (
	"fmt"

	"homs/queue-service/internal/models"
)

const queueNumberPad = 3

var queueTypePrefix = map[string]string{
	models.StationTypeTriage:       "T",
	models.StationTypeConsultation: "C",
	models.StationTypeLab:          "L",
	models.StationTypePrescription: "P",
	models.StationTypeBilling:      "B",
	models.StationTypeDocument:     "D",
}

// QueueCodePrefix maps a queue type to its single-letter ticket prefix.
// Unrecognized types fall back to "Q".
func QueueCodePrefix(queueType string) string {
	if prefix, ok := queueTypePrefix[queueType]; ok {
		return prefix
	}
	return "Q"
}

// FormatQueueCode renders the human-readable ticket token, e.g. T001.
func FormatQueueCode(queueType string, number int) string {
	return fmt.Sprintf("%s%0*d", QueueCodePrefix(queueType), queueNumberPad, number)
}
