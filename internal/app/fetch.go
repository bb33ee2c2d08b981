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

func (r *runner) fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch FILE NUMBER",
		Short: "Assemble one contig and print it with every read and difference",
		Long: `Assemble the contig with the given 1-based number and print its reads,
mate links and per-base differences. Reading stops as soon as the contig
is complete. Text output is a readable report; jsonl prints the contig as
indented JSON including the consensus.`,
		Example: "  contigkit fetch run1.ace 3 --realign",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := cliutil.ParseContigNumber(args[1])
			if err != nil {
				return err
			}
			opts, err := r.contigOptions()
			if err != nil {
				return err
			}
			r.code = r.fetch(cmd, args[0], n, opts)
			return nil
		},
	}
	cmd.Flags().Bool("realign", false, "realign every read with Smith-Waterman")
	cmd.Flags().BoolVar(&r.pretty, "pretty", false, "draw each read's alignment under the text report")
	cmd.Flags().Float64("pad-fraction", 0.05, "fraction of the read length added to each side of the realignment window")
	return cmd
}

func (r *runner) fetch(cmd *cobra.Command, path string, n int, opts contig.Options) int {
	bars := r.bars()
	var bar interface{ Finish(bool) }
	if bars != nil {
		b := bars.Track(path)
		opts.Progress, bar = b, b
	}
	c, err := contig.Fetch(cmd.Context(), path, n, opts)
	if bar != nil {
		bar.Finish(err == nil)
		bars.Wait()
	}
	switch {
	case errors.Is(err, contig.ErrInterrupted):
		return 130
	case errors.Is(err, contig.ErrNotFound):
		r.log.Error(err)
		return 1
	case err != nil:
		r.log.Error(err)
		return 3
	}

	outw := bufio.NewWriter(r.stdout)
	err = writers.WriteContig(outw, r.cfg.Output, output.Contig{ReferenceSequence: c}, writers.Options{Header: r.cfg.Header, Pretty: r.pretty})
	if err == nil {
		err = outw.Flush()
	}
	if err != nil && !writers.IsBrokenPipe(err) {
		r.log.Error(err)
		return 3
	}
	return 0
}
