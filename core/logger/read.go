package logger

import (
	"encoding/json"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Entry is a decoded log line.
type Entry struct {
	TimestampMicros int64
	SessionID       string
	Type            string
	Event           map[string]interface{}
}

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *Entry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var rawEntry json.RawMessage
		if err := decoder.Decode(&rawEntry); err != nil {
			return err
		}

		var msg structpb.Struct
		if err := protojson.Unmarshal(rawEntry, &msg); err != nil {
			return err
		}

		handler(toEntry(&msg))
	}
	return nil
}

func toEntry(msg *structpb.Struct) *Entry {
	fields := msg.GetFields()
	entry := &Entry{
		TimestampMicros: int64(fields["timestamp_micros"].GetNumberValue()),
		SessionID:       fields["session_id"].GetStringValue(),
		Type:            fields["type"].GetStringValue(),
		Event:           fields["event"].GetStructValue().AsMap(),
	}
	if entry.Event == nil {
		entry.Event = map[string]interface{}{}
	}
	return entry
}

// String returns a field of the event as a string, or empty if missing.
func (e *Entry) String(field string) string {
	s, _ := e.Event[field].(string)
	return s
}
