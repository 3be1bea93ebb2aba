package core

import (
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/josephlewis42/gogosh/core/shell"
	"github.com/josephlewis42/gogosh/core/vos"
	"github.com/pkg/errors"
)

// Pipe runs one statement of a pipeline as a stage. When the stage feeds
// another one, a non-null result is written downstream.
type Pipe struct {
	inv       *invocation
	statement shell.Statement

	in  io.ReadCloser
	out io.Writer
	err io.Writer

	// ownsIn is set when in is the read end of a pipe from the previous stage.
	ownsIn bool
	// next is the write end of the pipe to the next stage, if any.
	next io.WriteCloser
	// downstreamGone is set once the next stage stopped reading.
	downstreamGone bool

	result    Value
	exception error
}

func newPipe(inv *invocation, statement shell.Statement, stdio vos.VIO) *Pipe {
	return &Pipe{
		inv:       inv,
		statement: statement,
		in:        stdio.Stdin(),
		out:       stdio.Stdout(),
		err:       stdio.Stderr(),
	}
}

// connect feeds this stage's output into next. The next stage inherits the
// output streams this stage had before.
func (p *Pipe) connect(next *Pipe) error {
	r, w, err := vos.NewPipe(p.inv.session.pipeRate)
	if err != nil {
		return err
	}

	next.out = p.out
	next.err = p.err
	next.in = r
	next.ownsIn = true

	p.out = w
	p.next = w
	return nil
}

// run executes the stage and records its result or error. It never panics
// and always releases the pipe ends it owns.
func (p *Pipe) run() {
	defer p.release()
	defer func() {
		if r := recover(); r != nil {
			p.exception = errors.Errorf("panic: %v", r)
		}
	}()

	stdio := vos.NewVIOAdapter(p.in, vos.NopCloser(p.out), vos.NopCloser(p.err))
	result, err := p.inv.executeStatement(stdio, p.statement)
	if err != nil {
		p.exception = err
		return
	}
	p.result = result
	p.exception = p.forward(result)
}

// forward writes a result to the next stage.
func (p *Pipe) forward(result Value) error {
	if p.next == nil || p.downstreamGone || result.IsNull() {
		return nil
	}

	_, err := fmt.Fprintln(p.out, p.inv.session.Format(result, Inspect))
	if vos.IsBrokenPipe(err) {
		p.downstreamGone = true
		return nil
	}
	return err
}

// release closes the pipe ends the stage owns so neighbors see EOF.
func (p *Pipe) release() {
	if f, ok := p.out.(interface{ Flush() error }); ok {
		f.Flush()
	}
	if p.ownsIn {
		p.in.Close()
	}
	if p.next != nil {
		p.next.Close()
	}
}

// runProgram runs the pipelines of the closure one after another. The first
// failing pipeline ends the program, otherwise the last one's result is
// returned.
func (inv *invocation) runProgram(stdio vos.VIO) (Value, error) {
	result := Null
	for _, pipeline := range inv.closure.program {
		var err error
		if result, err = inv.runPipeline(stdio, pipeline); err != nil {
			return Null, err
		}
	}
	return result, nil
}

// runPipeline runs every statement of the pipeline as a stage, concurrently
// if there's more than one, and returns the last stage's outcome.
func (inv *invocation) runPipeline(stdio vos.VIO, pipeline shell.Pipeline) (Value, error) {
	if len(pipeline) == 0 {
		return Null, nil
	}

	pipes := make([]*Pipe, 0, len(pipeline))
	for i, statement := range pipeline {
		current := newPipe(inv, statement, stdio)
		if i > 0 {
			if err := pipes[i-1].connect(current); err != nil {
				for _, p := range pipes {
					p.release()
				}
				return Null, errors.Wrap(err, "connecting pipeline")
			}
		}
		pipes = append(pipes, current)
	}

	if len(pipes) == 1 {
		pipes[0].run()
	} else {
		var wg sync.WaitGroup
		wg.Add(len(pipes))
		for _, p := range pipes {
			go func(p *Pipe) {
				defer wg.Done()
				p.run()
			}(p)
		}
		wg.Wait()
	}

	last := pipes[len(pipes)-1]
	for _, p := range pipes[:len(pipes)-1] {
		if p.exception != nil {
			inv.session.reportPipeException(stdio, p.exception)
		}
	}

	if last.exception != nil {
		return Null, last.exception
	}
	return asSequence(last.result), nil
}

// asSequence turns Go slices and arrays held in objects into lists.
func asSequence(v Value) Value {
	obj, ok := v.AsObject()
	if !ok {
		return v
	}

	switch reflect.ValueOf(obj).Kind() {
	case reflect.Slice, reflect.Array:
		return FromGo(obj)
	default:
		return v
	}
}
