// Package contig assembles contigs from an assembly file one at a time.
//
// Open returns an Iterator that scans lazily: each Next parses and
// reconstructs exactly one contig. A contig that fails to assemble is
// reported through Result.Err and the stream continues; only a file-level
// syntax error ends it early. Cancellation is cooperative and is reported
// by Interrupted, not as an error.
package contig

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"contigkit/internal/align"
	"contigkit/internal/assembly"
	"contigkit/internal/model"
)

var (
	ErrNotFound    = errors.New("contig not found")
	ErrInterrupted = errors.New("interrupted")
)

// ContigError reports one contig that could not be assembled.
type ContigError struct {
	Number int
	Name   string
	Err    error
}

func (e *ContigError) Error() string {
	return fmt.Sprintf("contig %s (#%d): %v", e.Name, e.Number, e.Err)
}

func (e *ContigError) Unwrap() error { return e.Err }

// Progress receives one-way progress updates. Totals are input bytes.
type Progress interface {
	SetMessage(msg string)
	SetTotal(total int64)
	SetCurrent(current int64)
}

// Options configures Open, Headers and Fetch.
type Options struct {
	Format      assembly.Format // FormatUnknown detects from the file
	Numbers     map[int]bool    // nil means every contig
	Realign     bool
	Aligner     align.Aligner
	Scoring     *align.Scoring
	PadFraction float64
	Logger      logrus.FieldLogger
	Progress    Progress
}

// Result is one iteration step. Exactly one of Contig and Err is set.
type Result struct {
	Header  assembly.Header
	Contig  *model.ReferenceSequence
	Dropped []*assembly.ReadError
	Err     *ContigError
}

// Iterator streams contigs from one file.
type Iterator struct {
	ctx  context.Context
	path string
	rc   io.ReadCloser
	sc   *assembly.Scanner
	asm  *Assembler
	prog Progress
	log  logrus.FieldLogger

	remaining map[int]bool
	cur       Result
	err       error
	done      bool
	closed    bool
	interrupt bool
}

func resolveFormat(path string, f assembly.Format) (assembly.Format, error) {
	if f != assembly.FormatUnknown {
		return f, nil
	}
	return assembly.DetectFormat(path)
}

// Open starts iterating path. The caller must Close the iterator, although
// it is closed automatically once Next returns false.
func Open(ctx context.Context, path string, opts Options) (*Iterator, error) {
	f, err := resolveFormat(path, opts.Format)
	if err != nil {
		return nil, err
	}
	rc, err := assembly.Open(path)
	if err != nil {
		return nil, err
	}
	it := &Iterator{
		ctx:  ctx,
		path: path,
		rc:   rc,
		sc:   assembly.NewScanner(rc, f),
		prog: opts.Progress,
		log:  opts.Logger,
		asm: &Assembler{
			Realign:     opts.Realign,
			Aligner:     opts.Aligner,
			Scoring:     opts.Scoring,
			PadFraction: opts.PadFraction,
			Source:      path,
			Log:         opts.Logger,
		},
	}
	if it.log == nil {
		it.log = discard
	}
	if opts.Numbers != nil {
		it.remaining = make(map[int]bool, len(opts.Numbers))
		for n, ok := range opts.Numbers {
			if ok {
				it.remaining[n] = true
			}
		}
		it.sc.Filter(func(h assembly.Header) bool { return it.remaining[h.Number] })
	}
	if it.prog != nil {
		it.prog.SetMessage(path)
		it.prog.SetTotal(rc.Total())
	}
	return it, nil
}

// Format is the dialect being read.
func (it *Iterator) Format() assembly.Format { return it.sc.Format() }

// Next advances to the next contig. It returns false at end of input,
// after a fatal error, on cancellation, or once every requested contig
// number has been produced.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	if it.remaining != nil && len(it.remaining) == 0 {
		it.finish(nil)
		return false
	}
	it.cur = Result{}

	rec, err := it.sc.Next(it.ctx)
	it.report()
	if err != nil {
		var re *assembly.RecordError
		switch {
		case err == io.EOF:
			it.finish(nil)
			return false
		case it.cancelled(err):
			it.interrupted()
			return false
		case errors.As(err, &re):
			delete(it.remaining, re.Header.Number)
			it.fail(re.Header, re.Err)
			return true
		}
		it.finish(fmt.Errorf("%s: %w", it.path, err))
		return false
	}

	c, dropped, err := it.asm.build(it.ctx, rec)
	if err != nil {
		if it.cancelled(err) {
			it.interrupted()
			return false
		}
		it.fail(rec.Header, err)
		return true
	}
	delete(it.remaining, rec.Number)
	it.cur = Result{Header: rec.Header, Contig: c, Dropped: dropped}
	return true
}

func (it *Iterator) cancelled(err error) bool {
	return it.ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (it *Iterator) fail(h assembly.Header, err error) {
	ce := &ContigError{Number: h.Number, Name: h.Name, Err: err}
	it.log.WithFields(logrus.Fields{"contig": h.Name, "number": h.Number, "line": h.Line}).Warn(err)
	it.cur = Result{Header: h, Err: ce}
}

func (it *Iterator) interrupted() {
	it.interrupt = true
	it.finish(nil)
}

func (it *Iterator) finish(err error) {
	it.err = err
	it.done = true
	_ = it.Close()
}

func (it *Iterator) report() {
	if it.prog != nil {
		it.prog.SetCurrent(it.sc.Offset())
	}
}

// Result is the contig produced by the last successful Next.
func (it *Iterator) Result() Result { return it.cur }

// Err is the file-fatal error that ended iteration, if any.
func (it *Iterator) Err() error { return it.err }

// Interrupted reports whether iteration stopped because ctx was cancelled.
func (it *Iterator) Interrupted() bool { return it.interrupt }

// Close releases the input. It is safe to call more than once.
func (it *Iterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.done = true
	return it.rc.Close()
}

// Headers lists every contig header in path without assembling reads.
// On cancellation it returns the headers seen so far and ErrInterrupted.
func Headers(ctx context.Context, path string, opts Options) ([]assembly.Header, error) {
	f, err := resolveFormat(path, opts.Format)
	if err != nil {
		return nil, err
	}
	rc, err := assembly.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	if opts.Progress != nil {
		opts.Progress.SetMessage(path)
		opts.Progress.SetTotal(rc.Total())
	}

	sc := assembly.NewScanner(rc, f)
	var hs []assembly.Header
	for {
		h, err := sc.NextHeader(ctx)
		if opts.Progress != nil {
			opts.Progress.SetCurrent(sc.Offset())
		}
		if err == io.EOF {
			return hs, nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return hs, ErrInterrupted
			}
			return hs, fmt.Errorf("%s: %w", path, err)
		}
		hs = append(hs, h)
	}
}

// Fetch assembles the contig numbered n, stopping as soon as it is found.
func Fetch(ctx context.Context, path string, n int, opts Options) (*model.ReferenceSequence, error) {
	opts.Numbers = map[int]bool{n: true}
	it, err := Open(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	defer it.Close()
	if it.Next() {
		r := it.Result()
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Contig, nil
	}
	switch {
	case it.Interrupted():
		return nil, ErrInterrupted
	case it.Err() != nil:
		return nil, it.Err()
	}
	return nil, fmt.Errorf("%w: #%d in %s", ErrNotFound, n, path)
}
