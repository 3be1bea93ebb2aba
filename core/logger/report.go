package logger

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Report summarizes an event log.
type Report struct {
	LogEntries     int      `json:"log_entries"`
	Sessions       *Counter `json:"sessions"`
	InvalidEntries *Counter `json:"unknown_log_entries,omitempty"`

	Commands        *Counter `json:"commands"`
	UnknownCommands *Counter `json:"unknown_commands"`
	Logins          *Counter `json:"logins"`
	Failures        *Counter `json:"failures"`
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{
		Sessions:        NewCounter("session"),
		Commands:        NewCounter("name"),
		UnknownCommands: NewCounter("name"),
		Logins:          NewCounter("user", "result"),
		Failures:        NewCounter("type", "error"),
	}
}

// Update adds a single entry to the report.
func (r *Report) Update(le *Entry) {
	r.LogEntries++
	if le.SessionID != "" {
		r.Sessions.Increment(le.SessionID)
	}

	switch le.Type {
	case EventCommand:
		r.Commands.Increment(le.String("name"))
	case EventCommandNotFound:
		r.UnknownCommands.Increment(le.String("name"))
	case EventLoginAttempt:
		r.Logins.Increment(le.String("user"), le.String("result"))
	case EventPipeException, EventStatementError:
		r.Failures.Increment(le.Type, le.String("error"))
	case EventSessionStart, EventSessionEnd:
	default:
		if r.InvalidEntries == nil {
			r.InvalidEntries = NewCounter("type")
		}
		r.InvalidEntries.Increment(fmt.Sprintf("%q", le.Type))
	}
}

// Counter tallies tuples of strings, e.g. a command and its error. Each
// tuple has one value per column.
type Counter struct {
	cols   []string
	counts map[string]*tally
}

type tally struct {
	values []string
	n      int
}

// NewCounter creates a counter with the named columns.
func NewCounter(cols ...string) *Counter {
	return &Counter{cols: cols, counts: make(map[string]*tally)}
}

func counterKey(values []string) string {
	return strings.Join(values, "\x00")
}

// Increment adds one to the tuple, it panics if the tuple doesn't match the
// columns.
func (c *Counter) Increment(values ...string) {
	if len(values) != len(c.cols) {
		panic(fmt.Sprintf("counter has %d columns, got %d values", len(c.cols), len(values)))
	}

	key := counterKey(values)
	t, ok := c.counts[key]
	if !ok {
		t = &tally{values: append([]string(nil), values...)}
		c.counts[key] = t
	}
	t.n++
}

// Count returns how many times the tuple was seen.
func (c *Counter) Count(values ...string) int {
	if c == nil {
		return 0
	}
	if t, ok := c.counts[counterKey(values)]; ok {
		return t.n
	}
	return 0
}

// Len returns the number of distinct tuples.
func (c *Counter) Len() int {
	if c == nil {
		return 0
	}
	return len(c.counts)
}

// sorted returns the tallies, most common first.
func (c *Counter) sorted() []*tally {
	out := make([]*tally, 0, len(c.counts))
	for _, t := range c.counts {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].n != out[j].n {
			return out[i].n > out[j].n
		}
		return counterKey(out[i].values) < counterKey(out[j].values)
	})
	return out
}

// MarshalJSON writes single column counters as an object of counts and
// wider ones as a list of events with their counts.
func (c *Counter) MarshalJSON() ([]byte, error) {
	if len(c.cols) == 1 {
		flat := make(map[string]int, len(c.counts))
		for _, t := range c.counts {
			flat[t.values[0]] = t.n
		}
		return json.Marshal(flat)
	}

	type row struct {
		Count int               `json:"count"`
		Event map[string]string `json:"event"`
	}
	rows := []row{}
	for _, t := range c.sorted() {
		event := make(map[string]string, len(c.cols))
		for i, col := range c.cols {
			event[col] = t.values[i]
		}
		rows = append(rows, row{Count: t.n, Event: event})
	}
	return json.Marshal(rows)
}
