package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/josephlewis42/gogosh/core"
	"github.com/pkg/errors"
)

// ignoreClosed drops the error reading a stdin that was never connected.
func ignoreClosed(err error) error {
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}

// eachFileOrStdin calls fn with each named file from the session
// filesystem, or stdin if there are no names. Files that can't be opened
// are reported on stderr and the first such error is returned after every
// file has been tried.
func eachFileOrStdin(p *core.Process, files []string, fn func(name string, r io.Reader) error) error {
	if len(files) == 0 {
		return fn("-", p.Stdin())
	}

	var firstErr error
	for _, name := range files {
		if err := eachFile(p, name, fn); err != nil {
			fmt.Fprintf(p.Stderr(), "%s: %v\n", name, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func eachFile(p *core.Process, name string, fn func(name string, r io.Reader) error) error {
	if name == "-" {
		return fn(name, p.Stdin())
	}

	fd, err := p.Fs().Open(name)
	if err != nil {
		return err
	}
	defer fd.Close()
	return fn(name, fd)
}

// BytesToHuman formats a size with a power of ten suffix.
func BytesToHuman(bytes int64) string {
	for _, e := range []struct {
		unit  string
		power int64
	}{
		{"P", 1e15},
		{"T", 1e12},
		{"G", 1e9},
		{"M", 1e6},
		{"K", 1e3},
	} {
		quotient := bytes / e.power
		switch {
		case quotient == 0:
			continue
		case quotient > 10:
			return fmt.Sprintf("%d%s", quotient, e.unit)
		default:
			return fmt.Sprintf("%0.1f%s", float64(bytes)/float64(e.power), e.unit)
		}
	}

	return fmt.Sprintf("%d", bytes)
}
