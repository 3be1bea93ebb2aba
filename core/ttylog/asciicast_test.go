package ttylog

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsciicastTime(t *testing.T) {
	cases := map[string]struct {
		micros  int64
		seconds float64
	}{
		"zero":     {micros: 0, seconds: 0},
		"one":      {micros: 1, seconds: 0.000001},
		"fraction": {micros: 1500000, seconds: 1.5},
		"negative": {micros: -2000000, seconds: -2},
		"long-ago": {micros: 86400123456, seconds: 86400.123456},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.micros, secondsToMicros(tc.seconds))
			assert.InDelta(t, tc.seconds, microsToSeconds(tc.micros), 1e-9)
		})
	}
}

func TestAsciicastLogSink(t *testing.T) {
	out := &bytes.Buffer{}
	sink := NewAsciicastLogSink(out)

	require.NoError(t, sink(&Entry{TimestampMicros: 5000000, FD: FD_STDIN, Data: []byte("ls\n")}))
	require.NoError(t, sink(&Entry{TimestampMicros: 6500000, FD: FD_STDERR, Data: []byte("<a>\n")}))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	var header AsciicastHeader
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &header))
	assert.Equal(t, 2, header.Version)
	assert.Equal(t, int64(5), header.Timestamp)
	assert.Equal(t, "gogosh", header.Env["SHELL"])

	assert.JSONEq(t, `[0, "i", "ls\n"]`, lines[1])
	assert.JSONEq(t, `[1.5, "o", "<a>\n"]`, lines[2])
	assert.Contains(t, lines[2], "<a>")
}

func TestAsciicastLogSinkWithHeader(t *testing.T) {
	out := &bytes.Buffer{}
	header := AsciicastHeader{Version: 2, Width: 132, Height: 40, Timestamp: 42}
	sink := NewAsciicastLogSinkWithHeader(out, header)

	require.NoError(t, sink(&Entry{TimestampMicros: 9000000, FD: FD_STDOUT, Data: []byte("x")}))

	source := NewAsciicastLogSource(out)
	got, err := source.Header()
	require.NoError(t, err)
	assert.Equal(t, &header, got)
}

func TestAsciicastLogSource(t *testing.T) {
	input := `{"version": 2, "width": 80, "height": 24, "title": "demo"}

[0.5, "m", "marker"]
[1.25, "r", "100x40"]
[2.5, "o", "hello"]
`
	source := NewAsciicastLogSource(strings.NewReader(input))

	entry, err := source.Next()
	require.NoError(t, err)
	assert.Equal(t, &Entry{TimestampMicros: 2500000, FD: FD_STDOUT, Data: []byte("hello")}, entry)

	header, err := source.Header()
	require.NoError(t, err)
	assert.Equal(t, "demo", header.Title)

	_, err = source.Next()
	assert.Equal(t, io.EOF, err)
}

func TestAsciicastLogSource_empty(t *testing.T) {
	_, err := NewAsciicastLogSource(strings.NewReader("")).Next()
	assert.Equal(t, io.EOF, err)
}

func TestAsciicastLogSource_badField(t *testing.T) {
	source := NewAsciicastLogSource(strings.NewReader("{\"version\": 2}\n[\"soon\", \"o\", \"x\"]\n"))
	_, err := source.Next()
	assert.ErrorContains(t, err, "field 0")
}
