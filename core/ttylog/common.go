// Package ttylog records and replays the terminal traffic of a session.
package ttylog

import (
	"io"
	"log"
	"sync"
	"time"

	"github.com/josephlewis42/gogosh/core/vos"
)

// FD identifies the stream an entry was recorded on.
type FD int

const (
	FD_STDIN FD = iota
	FD_STDOUT
	FD_STDERR
)

// Entry is a single recorded chunk of I/O.
type Entry struct {
	TimestampMicros int64
	FD              FD
	Data            []byte
}

// LogSink receives log events.
type LogSink func(e *Entry) error

// LogSource adapts log readers.
type LogSource interface {
	// Next fetches the next available log entry. It returns io.EOF if the source
	// has no more log entries.
	Next() (*Entry, error)
}

// NewRealTimePlayback sleeps between entries for as long as passed between
// them when they were recorded, capped at maxSleep. A maxSleep of zero
// disables pauses.
func NewRealTimePlayback(maxSleep time.Duration, next LogSink) LogSink {
	var last *int64
	return func(e *Entry) error {
		if last != nil && maxSleep > 0 {
			pause := time.Duration(e.TimestampMicros-*last) * time.Microsecond
			if pause > maxSleep {
				pause = maxSleep
			}
			if pause > 0 {
				time.Sleep(pause)
			}
		}
		ts := e.TimestampMicros
		last = &ts
		return next(e)
	}
}

// NewClientOutput writes what the client saw, stdout and stderr, to w.
func NewClientOutput(w io.Writer) LogSink {
	return func(e *Entry) error {
		if e.FD == FD_STDIN {
			return nil
		}
		_, err := w.Write(e.Data)
		return err
	}
}

// Replay feeds every entry of recording to callback in order.
func Replay(recording LogSource, callback LogSink) error {
	for {
		e, err := recording.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := callback(e); err != nil {
			return err
		}
	}
}

// Recorder is a VIO that copies everything flowing through it to a sink.
type Recorder struct {
	*vos.VIOAdapter
	mutex  sync.Mutex
	output LogSink
}

func (r *Recorder) recordIO(fd FD, data []byte, dest func([]byte) (int, error)) (int, error) {
	eventTime := time.Now()
	amount, err := dest(data)
	if amount > 0 {
		r.mutex.Lock()
		e2 := r.output(&Entry{
			TimestampMicros: eventTime.UnixMicro(),
			FD:              fd,
			Data:            append([]byte(nil), data[:amount]...),
		})
		r.mutex.Unlock()
		if e2 != nil {
			log.Print(e2)
		}
	}
	return amount, err
}

var _ vos.VIO = (*Recorder)(nil)

type recorderReadCloser struct {
	r       *Recorder
	fd      FD
	wrapped io.ReadCloser
}

var _ io.ReadCloser = (*recorderReadCloser)(nil)

func (rc *recorderReadCloser) Read(p []byte) (int, error) {
	return rc.r.recordIO(rc.fd, p, rc.wrapped.Read)
}

func (rc *recorderReadCloser) Close() error {
	return rc.wrapped.Close()
}

type recorderWriteCloser struct {
	r       *Recorder
	fd      FD
	wrapped io.WriteCloser
}

var _ io.WriteCloser = (*recorderWriteCloser)(nil)

func (rc *recorderWriteCloser) Write(p []byte) (int, error) {
	return rc.r.recordIO(rc.fd, p, rc.wrapped.Write)
}

func (rc *recorderWriteCloser) Close() error {
	return rc.wrapped.Close()
}

// NewRecorder creates a VIO that forwards all traffic to output.
func NewRecorder(toWrap vos.VIO, output LogSink) *Recorder {
	recorder := &Recorder{
		output: output,
	}

	recorder.VIOAdapter = vos.NewVIOAdapter(
		&recorderReadCloser{fd: FD_STDIN, r: recorder, wrapped: toWrap.Stdin()},
		&recorderWriteCloser{fd: FD_STDOUT, r: recorder, wrapped: toWrap.Stdout()},
		&recorderWriteCloser{fd: FD_STDERR, r: recorder, wrapped: toWrap.Stderr()},
	)

	return recorder
}
