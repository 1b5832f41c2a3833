package models

import (
	"time"

	"github.com/sirupsen/logrus"
)

// LogEntry is a captured log line as served by the logs endpoint.
type LogEntry struct {
	Time          time.Time     `json:"time"`
	Level         string        `json:"level"`
	Message       string        `json:"message"`
	CorrelationID string        `json:"correlation_id,omitempty"`
	Data          logrus.Fields `json:"data,omitempty"`
}

func NewLogEntry(entry *logrus.Entry) *LogEntry {

	data := make(logrus.Fields, len(entry.Data))
	var correlationID string

	for key, value := range entry.Data {
		if key == "correlation_id" {
			correlationID, _ = value.(string)
			continue
		}
		if err, ok := value.(error); ok {
			value = err.Error()
		}
		data[key] = value
	}

	if len(data) == 0 {
		data = nil
	}

	return &LogEntry{
		Time:          entry.Time,
		Level:         entry.Level.String(),
		Message:       entry.Message,
		CorrelationID: correlationID,
		Data:          data,
	}
}
