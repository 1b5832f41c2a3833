package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/thand-io/components/internal/models"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultLogBufferSize = 200

// LogBuffer is a logrus hook keeping the most recent warnings and errors in
// a ring buffer for the logs endpoint.
type LogBuffer struct {
	mu          sync.RWMutex
	eventBuffer []*models.LogEntry
	maxSize     int
	currentPos  int
	isFull      bool
}

func NewLogBuffer(size int) *LogBuffer {
	if size <= 0 {
		size = defaultLogBufferSize
	}
	return &LogBuffer{
		eventBuffer: make([]*models.LogEntry, size),
		maxSize:     size,
	}
}

func (b *LogBuffer) Fire(entry *logrus.Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.eventBuffer[b.currentPos] = models.NewLogEntry(entry)
	b.currentPos = (b.currentPos + 1) % b.maxSize

	if b.currentPos == 0 {
		b.isFull = true
	}

	return nil
}

func (b *LogBuffer) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
	}
}

// GetRecentEvents returns up to count entries, oldest first. A non-positive
// count returns everything buffered.
func (b *LogBuffer) GetRecentEvents(count int) []*models.LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var events []*models.LogEntry
	if b.isFull {
		events = make([]*models.LogEntry, 0, b.maxSize)
		events = append(events, b.eventBuffer[b.currentPos:]...)
		events = append(events, b.eventBuffer[:b.currentPos]...)
	} else {
		events = make([]*models.LogEntry, b.currentPos)
		copy(events, b.eventBuffer[:b.currentPos])
	}

	if count > 0 && len(events) > count {
		return events[len(events)-count:]
	}
	return events
}

func (b *LogBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.eventBuffer = make([]*models.LogEntry, b.maxSize)
	b.currentPos = 0
	b.isFull = false
}

// setupLogging configures the global logger from the logging section
func setupLogging(config *Config, v settingsDumper) error {
	logrusLevel, err := logrus.ParseLevel(config.Logging.Level)
	if err != nil {
		return fmt.Errorf("error parsing log level: %w", err)
	}

	logrus.SetLevel(logrusLevel)

	switch strings.ToLower(config.Logging.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	default:
		logrus.WithFields(logrus.Fields{
			"format": config.Logging.Format,
		}).Warn("Unknown log format")
	}

	logrus.SetOutput(logOutput(config.Logging))

	config.logBuffer = NewLogBuffer(config.Logging.BufferSize)
	logrus.AddHook(config.logBuffer)

	// Dump out the config settings if in debug mode
	if logrusLevel >= logrus.DebugLevel && v != nil {
		for key, value := range v.AllSettings() {
			logrus.Debugf("Config '%s': %v\n", key, redact(key, value))
		}
	}

	return nil
}

type settingsDumper interface {
	AllSettings() map[string]any
}

func logOutput(cfg LoggingConfig) io.Writer {
	switch strings.ToLower(strings.TrimSpace(cfg.Output)) {
	case "", "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	default:
		return &lumberjack.Logger{
			Filename:   cfg.Output,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
	}
}

// redact hides secrets from the debug dump of the settings.
func redact(key string, value any) any {
	settings, ok := value.(map[string]any)
	if !ok {
		return value
	}
	out := make(map[string]any, len(settings))
	for k, v := range settings {
		switch k {
		case "secret", "api_key":
			if s, ok := v.(string); ok && len(s) > 0 {
				v = "********"
			}
		default:
			v = redact(key+"."+k, v)
		}
		out[k] = v
	}
	return out
}
