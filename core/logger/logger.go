package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/josephlewis42/dosh/core/shell"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Fields present on every entry.
const (
	FieldSessionID       = "session_id"
	FieldTimestampMicros = "timestamp_micros"
	FieldType            = "type"
)

// EventLogin is recorded for each SSH authentication attempt.
const EventLogin = "login"

// LogEntry is a single event.
type LogEntry = structpb.Struct

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures interpreter events.
type Logger struct {
	Record LogRecorder

	// Now is used to timestamp entries.
	Now func() time.Time
}

// NewJSONLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format. It's safe to use from multiple sessions.
func NewJSONLinesLogRecorder(w io.Writer) *Logger {
	var mu sync.Mutex
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := protojson.Marshal(le)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
		Now: time.Now,
	}
}

// NewNopLogger creates a Logger that discards events.
func NewNopLogger() *Logger {
	return &Logger{
		Record: func(*LogEntry) error { return nil },
		Now:    time.Now,
	}
}

func (l *Logger) record(sessionID, eventType string, fields map[string]interface{}) error {
	le, err := structpb.NewStruct(fields)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", eventType, err)
	}

	le.Fields[FieldSessionID] = structpb.NewStringValue(sessionID)
	le.Fields[FieldTimestampMicros] = structpb.NewNumberValue(float64(l.Now().UnixMicro()))
	le.Fields[FieldType] = structpb.NewStringValue(eventType)

	return l.Record(le)
}

// NewSession creates a logger with a random session ID.
func (l *Logger) NewSession() *SessionLogger {
	return l.Session(fmt.Sprintf("%d", rand.Uint64()))
}

// Session creates a logger with the given session ID.
func (l *Logger) Session(sessionID string) *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: sessionID}
}

// SessionLogger logs messages with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

var _ shell.EventRecorder = (*SessionLogger)(nil)

// SessionID returns the ID attached to every entry.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

// Record logs an event of the given type. Field values must be convertible
// with structpb.NewValue.
func (l *SessionLogger) Record(eventType string, fields map[string]interface{}) error {
	return l.record(l.sessionID, eventType, fields)
}

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var rawEntry json.RawMessage
		if err := decoder.Decode(&rawEntry); err != nil {
			return err
		}

		var logEntry LogEntry
		if err := protojson.Unmarshal(rawEntry, &logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// StringField returns a string field of the entry or "" if it's missing.
func StringField(le *LogEntry, name string) string {
	return le.GetFields()[name].GetStringValue()
}

// NumberField returns a numeric field of the entry or 0 if it's missing.
func NumberField(le *LogEntry, name string) int64 {
	return int64(le.GetFields()[name].GetNumberValue())
}

// BoolField returns a boolean field of the entry or false if it's missing.
func BoolField(le *LogEntry, name string) bool {
	return le.GetFields()[name].GetBoolValue()
}
