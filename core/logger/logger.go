package logger

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Event types recorded by sessions.
const (
	EventSessionStart    = "session_start"
	EventSessionEnd      = "session_end"
	EventCommand         = "command"
	EventCommandNotFound = "command_not_found"
	EventPipeException   = "pipe_exception"
	EventStatementError  = "statement_error"
	EventLoginAttempt    = "login_attempt"
)

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *structpb.Struct) error

// Logger captures session events so scripts and interactive sessions can be
// audited after the fact.
type Logger struct {
	Record LogRecorder
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	var mu sync.Mutex

	return &Logger{
		Record: func(le *structpb.Struct) error {
			entry, err := protojson.Marshal(le)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopLogger creates a Logger that drops every event.
func NewNopLogger() *Logger {
	return &Logger{
		Record: func(*structpb.Struct) error { return nil },
	}
}

func (l *Logger) recordEvent(sessionID, eventType string, fields map[string]interface{}) error {
	if fields == nil {
		fields = map[string]interface{}{}
	}

	le, err := structpb.NewStruct(map[string]interface{}{
		"timestamp_micros": time.Now().UnixMicro(),
		"session_id":       sessionID,
		"type":             eventType,
		"event":            fields,
	})
	if err != nil {
		return err
	}

	return l.Record(le)
}

// NewSession creates a logger with attached session ID, a random one is
// picked if id is empty.
func (l *Logger) NewSession(id string) *SessionLogger {
	if id == "" {
		id = fmt.Sprintf("%d", rand.Uint64())
	}
	return &SessionLogger{Logger: l, sessionID: id}
}

// Sessionless creates a logger without a session ID.
func (l *Logger) Sessionless() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: ""}
}

// SessionLogger logs messages with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

// SessionID returns the ID attached to every event.
func (l *SessionLogger) SessionID() string {
	if l == nil {
		return ""
	}
	return l.sessionID
}

// Record logs an event, fields must be JSON compatible. A nil logger drops
// everything.
func (l *SessionLogger) Record(eventType string, fields map[string]interface{}) error {
	if l == nil || l.Logger == nil || l.Logger.Record == nil {
		return nil
	}
	return l.recordEvent(l.sessionID, eventType, fields)
}
