// internal/pipeline/pipeline.go
package pipeline

import (
	"context"

	"contigkit/internal/contig"
	"contigkit/internal/output"
)

// Tracker is per-file progress that can be told when its file is done.
type Tracker interface {
	contig.Progress
	Finish(ok bool)
}

// Config controls the multi-file scan.
type Config struct {
	Options contig.Options
	Open    Opener                     // nil selects OpenIterator
	Track   func(path string) Tracker // optional per-file progress
}

// Stats summarizes one run.
type Stats struct {
	Files       int
	Contigs     int // delivered to visit
	Failed      int // contig-scoped failures, already logged
	Dropped     int // reads left out of delivered contigs
	Interrupted bool
}

// ForEachContig visits every assembled contig of every file in order.
// A file that cannot be opened or that hits a fatal parse error does not
// stop the others; the first such error is returned at the end. An error
// from visit stops the run immediately. Cancellation returns ctx.Err().
func ForEachContig(ctx context.Context, cfg Config, files []string, visit func(output.Contig) error) (Stats, error) {
	open := cfg.Open
	if open == nil {
		open = OpenIterator
	}
	var (
		st   Stats
		ferr error
	)
	keep := func(err error) {
		if ferr == nil {
			ferr = err
		}
	}

	for _, path := range files {
		if ctx.Err() != nil {
			st.Interrupted = true
			return st, ctx.Err()
		}
		opts := cfg.Options
		var tr Tracker
		if cfg.Track != nil {
			tr = cfg.Track(path)
			opts.Progress = tr
		}
		src, err := open(ctx, path, opts)
		if err != nil {
			// Keep scanning other files; first error will be returned.
			keep(err)
			if tr != nil {
				tr.Finish(false)
			}
			continue
		}
		st.Files++

		var verr error
		for src.Next() {
			r := src.Result()
			if r.Err != nil {
				st.Failed++
				continue
			}
			st.Contigs++
			st.Dropped += len(r.Dropped)
			if verr = visit(output.Contig{ReferenceSequence: r.Contig, Dropped: r.Dropped}); verr != nil {
				break
			}
		}
		_ = src.Close()
		if tr != nil {
			tr.Finish(verr == nil && src.Err() == nil && !src.Interrupted())
		}
		switch {
		case verr != nil:
			return st, verr
		case src.Interrupted():
			st.Interrupted = true
			if ctx.Err() != nil {
				return st, ctx.Err()
			}
			return st, context.Canceled
		case src.Err() != nil:
			keep(src.Err())
		}
	}
	return st, ferr
}
