// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"contigkit/internal/cmdutil"
	"contigkit/internal/output"
	"contigkit/internal/pipeline"
	"contigkit/internal/writers"
)

type Options struct {
	Files    []string
	Pipeline pipeline.Config

	Log             logrus.FieldLogger
	NoMatchExitCode int
	BufSize         int

	// Report, when set, receives the run stats before Run returns.
	Report func(pipeline.Stats)
}

type VisitorFunc[T any] func(output.Contig) (keep bool, out T, err error)

type WriterFactory[T any] interface {
	Start(out io.Writer, bufSize int) (chan<- T, <-chan error)
}

// PassThrough keeps every contig unchanged.
func PassThrough(c output.Contig) (bool, output.Contig, error) { return true, c, nil }

// Run scans o.Files through the pipeline, streams visited contigs to the
// writer and maps the outcome to a process exit code.
func Run[T any](
	parent context.Context,
	stdout io.Writer,
	o Options,
	visit VisitorFunc[T],
	wf WriterFactory[T],
) int {
	log := o.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	bufSize := o.BufSize
	if bufSize <= 0 {
		bufSize = 16
	}

	outw := bufio.NewWriter(stdout)
	inCh, writeErr := wf.Start(outw, bufSize)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	total, st, perr := cmdutil.RunStream[T](
		ctx,
		o.Pipeline,
		o.Files,
		visit,
		func(x T) error {
			select {
			case inCh <- x:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	)

	close(inCh)
	if o.Report != nil {
		o.Report(st)
	}

	if werr := <-writeErr; writers.IsBrokenPipe(werr) {
		return 0
	} else if werr != nil {
		log.Error(werr)
		return 3
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		log.Error(e)
		return 3
	}

	if perr != nil {
		if errors.Is(perr, context.Canceled) || st.Interrupted {
			return 130
		}
		log.Error(perr)
		return 3
	}
	if total == 0 {
		return o.NoMatchExitCode
	}
	return 0
}
