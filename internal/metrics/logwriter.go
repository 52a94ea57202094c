package metrics

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogWriter implements io.Writer for zerolog, routing JSON log lines into
// the Collector so they can be served from /api/logs.
type LogWriter struct {
	collector *Collector
}

// NewLogWriter creates a LogWriter that feeds into the given Collector.
func NewLogWriter(c *Collector) *LogWriter {
	return &LogWriter{collector: c}
}

func (w *LogWriter) Write(p []byte) (int, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(p, &raw); err != nil {
		w.collector.AddLog(LogEntry{
			Time:    time.Now(),
			Level:   zerolog.InfoLevel.String(),
			Message: strings.TrimSpace(string(p)),
		})
		return len(p), nil
	}

	entry := LogEntry{
		Time:   time.Now(),
		Fields: make(map[string]string),
	}

	if lvl, ok := raw[zerolog.LevelFieldName].(string); ok {
		entry.Level = lvl
	}
	if msg, ok := raw[zerolog.MessageFieldName].(string); ok {
		entry.Message = msg
	}
	if t, ok := raw[zerolog.TimestampFieldName].(string); ok {
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			entry.Time = parsed
		}
	}

	for k, v := range raw {
		switch k {
		case zerolog.LevelFieldName, zerolog.MessageFieldName, zerolog.TimestampFieldName:
			continue
		}
		switch val := v.(type) {
		case string:
			entry.Fields[k] = val
		case nil:
		default:
			entry.Fields[k] = fmt.Sprint(val)
		}
	}

	w.collector.AddLog(entry)
	return len(p), nil
}

var _ io.Writer = (*LogWriter)(nil)
