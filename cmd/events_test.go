package cmd

import (
	"bytes"
	"testing"

	"github.com/josephlewis42/gogosh/core/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesEvent(t *testing.T) {
	e := &logger.Entry{SessionID: "abc", Type: logger.EventCommand}

	cases := map[string]struct {
		session, eventType string
		want               bool
	}{
		"no-filter":     {want: true},
		"session":       {session: "abc", want: true},
		"other-session": {session: "xyz", want: false},
		"type":          {eventType: logger.EventCommand, want: true},
		"both":          {session: "abc", eventType: logger.EventSessionEnd, want: false},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.want, matchesEvent(e, tc.session, tc.eventType))
		})
	}
}

func TestPrintEvent(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, printEvent(out, &logger.Entry{
		TimestampMicros: 1500000,
		SessionID:       "abc",
		Type:            logger.EventCommand,
		Event:           map[string]interface{}{"name": "gogo:echo"},
	}))

	assert.Equal(t, "1970-01-01T00:00:01Z\tabc\tcommand\t{\"name\":\"gogo:echo\"}\n", out.String())
}
