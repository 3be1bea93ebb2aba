package ttylog

import (
	"encoding/json"
	"io"
	"math"
	"time"

	"github.com/pkg/errors"
)

// AsciicastFileExt holds the suggested file extension for asciicast files.
const AsciicastFileExt = "cast"

// AsciicastHeader is the first line of an asciicast v2 transcript.
//
// See: https://github.com/asciinema/asciinema/blob/develop/doc/asciicast-v2.md
type AsciicastHeader struct {
	Version   int               `json:"version"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Timestamp int64             `json:"timestamp,omitempty"`
	Title     string            `json:"title,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
}

// DefaultAsciicastHeader returns a header that displays most sessions.
func DefaultAsciicastHeader() AsciicastHeader {
	return AsciicastHeader{
		Version: 2,
		Width:   80,
		Height:  24,
		Title:   "gogosh session",
		Env: map[string]string{
			"TERM":  "xterm-256color",
			"SHELL": "gogosh",
		},
	}
}

// NewAsciicastLogSink creates a LogSink that writes asciicast v2 events using
// the default header.
func NewAsciicastLogSink(w io.Writer) LogSink {
	return NewAsciicastLogSinkWithHeader(w, DefaultAsciicastHeader())
}

// NewAsciicastLogSinkWithHeader writes header before the first entry, event
// times are relative to that entry. A zero header timestamp is filled from
// the first entry.
//
// Stderr is written as output, asciicast has no separate stream for it.
func NewAsciicastLogSinkWithHeader(w io.Writer, header AsciicastHeader) LogSink {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	var (
		started bool
		start   int64
	)

	return func(entry *Entry) error {
		if !started {
			started = true
			start = entry.TimestampMicros
			if header.Timestamp == 0 {
				header.Timestamp = time.UnixMicro(start).Unix()
			}
			if err := enc.Encode(header); err != nil {
				return errors.Wrap(err, "writing asciicast header")
			}
		}

		code := "o"
		if entry.FD == FD_STDIN {
			code = "i"
		}
		return enc.Encode([]interface{}{microsToSeconds(entry.TimestampMicros - start), code, string(entry.Data)})
	}
}

// AsciicastLogSource reads entries from an asciicast v2 transcript.
type AsciicastLogSource struct {
	dec    *json.Decoder
	header *AsciicastHeader
}

var _ LogSource = (*AsciicastLogSource)(nil)

// NewAsciicastLogSource reads log events from an asciicast formatted stream.
func NewAsciicastLogSource(r io.Reader) *AsciicastLogSource {
	return &AsciicastLogSource{dec: json.NewDecoder(r)}
}

// Header returns the transcript header, reading it on first use.
func (s *AsciicastLogSource) Header() (*AsciicastHeader, error) {
	if s.header != nil {
		return s.header, nil
	}

	var header AsciicastHeader
	if err := s.dec.Decode(&header); err != nil {
		if err == io.EOF {
			return nil, err
		}
		return nil, errors.Wrap(err, "reading asciicast header")
	}
	s.header = &header
	return s.header, nil
}

// Next gets the next input or output entry, it returns io.EOF if there are
// no more. Markers and resize events are skipped.
func (s *AsciicastLogSource) Next() (*Entry, error) {
	if _, err := s.Header(); err != nil {
		return nil, err
	}

	for {
		var event []json.RawMessage
		if err := s.dec.Decode(&event); err != nil {
			if err == io.EOF {
				return nil, err
			}
			return nil, errors.Wrap(err, "reading asciicast event")
		}
		if len(event) != 3 {
			return nil, errors.Errorf("malformed asciicast event: want 3 fields, got %d", len(event))
		}

		var (
			seconds    float64
			code, data string
		)
		for i, dest := range []interface{}{&seconds, &code, &data} {
			if err := json.Unmarshal(event[i], dest); err != nil {
				return nil, errors.Wrapf(err, "malformed asciicast event field %d", i)
			}
		}

		var fd FD
		switch code {
		case "o":
			fd = FD_STDOUT
		case "i":
			fd = FD_STDIN
		default:
			continue
		}

		return &Entry{
			TimestampMicros: secondsToMicros(seconds),
			FD:              fd,
			Data:            []byte(data),
		}, nil
	}
}

func microsToSeconds(micros int64) float64 {
	return float64(micros) / float64(time.Second/time.Microsecond)
}

func secondsToMicros(seconds float64) int64 {
	return int64(math.Round(seconds * float64(time.Second/time.Microsecond)))
}
