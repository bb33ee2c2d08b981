// Package progress draws per-file terminal progress bars on stderr and
// formats the end-of-run summary line.
package progress

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Bars owns the bar container. Call Wait once every Bar has finished.
type Bars struct {
	p *mpb.Progress
}

// New renders bars to w.
func New(w io.Writer) *Bars {
	return &Bars{p: mpb.New(mpb.WithWidth(40), mpb.WithOutput(w))}
}

// Wait blocks until every bar has been rendered for the last time.
func (b *Bars) Wait() { b.p.Wait() }

// Bar tracks one input file in bytes.
type Bar struct {
	bar *mpb.Bar

	mu  sync.Mutex
	msg string
}

// Track adds a bar for path. Its total is unknown until SetTotal.
func (b *Bars) Track(path string) *Bar {
	pb := &Bar{msg: filepath.Base(path)}
	pb.bar = b.p.AddBar(0,
		mpb.PrependDecorators(
			decor.Any(func(decor.Statistics) string { return pb.message() }, decor.WCSyncSpaceR),
			decor.CountersKibiByte("% .1f / % .1f", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.OnAbort(decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "done"), "failed"),
		),
	)
	return pb
}

func (pb *Bar) message() string {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	return pb.msg
}

// SetMessage replaces the bar label.
func (pb *Bar) SetMessage(msg string) {
	pb.mu.Lock()
	pb.msg = filepath.Base(msg)
	pb.mu.Unlock()
}

// SetTotal sets the input size in bytes.
func (pb *Bar) SetTotal(total int64) {
	if total > 0 {
		pb.bar.SetTotal(total, false)
	}
}

// SetCurrent sets the number of bytes consumed.
func (pb *Bar) SetCurrent(current int64) { pb.bar.SetCurrent(current) }

// Finish completes the bar, or aborts it (keeping the line) when !ok.
func (pb *Bar) Finish(ok bool) {
	if ok {
		pb.bar.SetTotal(-1, true)
		return
	}
	pb.bar.Abort(false)
}

// Summary is the one-line run report printed by scan.
func Summary(files, contigs, failed, dropped int, bytes int64) string {
	s := fmt.Sprintf("%s contigs from %s files (%s)",
		humanize.Comma(int64(contigs)), humanize.Comma(int64(files)), humanize.Bytes(uint64(max(bytes, 0))))
	if failed > 0 {
		s += fmt.Sprintf(", %s failed", humanize.Comma(int64(failed)))
	}
	if dropped > 0 {
		s += fmt.Sprintf(", %s reads dropped", humanize.Comma(int64(dropped)))
	}
	return s
}
