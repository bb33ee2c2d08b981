package app

import (
	"bufio"
	"errors"

	"github.com/spf13/cobra"

	"contigkit/internal/cliutil"
	"contigkit/internal/contig"
	"contigkit/internal/output"
	"contigkit/internal/writers"
)

func (r *runner) headersCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "headers FILE...",
		Short:   "List contig headers without assembling reads",
		Example: "  contigkit headers --output jsonl run1.ace run2.caf.gz",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := cliutil.ExpandPositionals(args)
			if err != nil {
				return err
			}
			opts, err := r.contigOptions()
			if err != nil {
				return err
			}
			r.code = r.headers(cmd, files, opts)
			return nil
		},
	}
}

func (r *runner) headers(cmd *cobra.Command, files []string, opts contig.Options) int {
	ctx := cmd.Context()
	bars := r.bars()
	var (
		rows []output.HeaderRow
		code int
	)
	for _, path := range files {
		o := opts
		var bar interface{ Finish(bool) }
		if bars != nil {
			b := bars.Track(path)
			o.Progress, bar = b, b
		}
		hs, err := contig.Headers(ctx, path, o)
		if bar != nil {
			bar.Finish(err == nil)
		}
		for _, h := range hs {
			rows = append(rows, output.HeaderRow{Header: h, Source: path})
		}
		if errors.Is(err, contig.ErrInterrupted) {
			code = 130
			break
		}
		if err != nil {
			// Keep scanning other files; report the failure in the exit code.
			r.log.Error(err)
			code = 3
		}
	}
	if bars != nil {
		bars.Wait()
	}

	outw := bufio.NewWriter(r.stdout)
	if err := writers.WriteHeaders(outw, r.cfg.Output, rows, r.cfg.Header); err == nil {
		err = outw.Flush()
		if err != nil && !writers.IsBrokenPipe(err) {
			r.log.Error(err)
			return 3
		}
	} else if !writers.IsBrokenPipe(err) {
		r.log.Error(err)
		return 3
	}
	if code == 0 && len(rows) == 0 {
		return 1
	}
	return code
}
