package vos

import (
	"errors"
	"io"
	"os"
	"syscall"

	"github.com/juju/ratelimit"
)

// NewPipe creates a blocking, kernel buffered pipe that connects two stages.
//
// If bytesPerSecond is positive, writes into the pipe are throttled to that
// rate with bursts of up to one second worth of data.
func NewPipe(bytesPerSecond int64) (io.ReadCloser, io.WriteCloser, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, nil, err
	}

	if bytesPerSecond <= 0 {
		return r, w, nil
	}

	bucket := ratelimit.NewBucketWithRate(float64(bytesPerSecond), bytesPerSecond)
	return r, &throttledWriter{
		Writer: ratelimit.Writer(w, bucket),
		Closer: w,
	}, nil
}

type throttledWriter struct {
	io.Writer
	io.Closer
}

// IsBrokenPipe reports whether err came from writing to a stream whose
// reader went away.
func IsBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe)
}
