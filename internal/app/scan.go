package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"contigkit/internal/appcore"
	"contigkit/internal/cliutil"
	"contigkit/internal/common"
	"contigkit/internal/output"
	"contigkit/internal/pipeline"
	"contigkit/internal/progress"
)

func (r *runner) scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan FILE...",
		Short: "Stream a summary row for every contig",
		Long: `Assemble every contig of every file in order and stream one summary row
(text) or one JSON object (jsonl) per contig. Contigs that fail are logged
and skipped. A file that cannot be read does not stop the others.`,
		Example: "  contigkit scan *.ace --contigs 1,3-5 --output jsonl",
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
			if opts.Numbers, err = common.ParseNumberSet(r.cfg.Contigs); err != nil {
				return err
			}
			r.code = r.scan(cmd, files, pipeline.Config{Options: opts})
			return nil
		},
	}
	f := cmd.Flags()
	f.String("contigs", "", "contig numbers to assemble, e.g. 1,3-5 (default all)")
	f.Bool("realign", false, "realign every read with Smith-Waterman")
	f.Float64("pad-fraction", 0.05, "fraction of the read length added to each side of the realignment window")
	f.Bool("sort", false, "sort rows by file and contig number before writing")
	return cmd
}

func (r *runner) scan(cmd *cobra.Command, files []string, cfg pipeline.Config) int {
	bars := r.bars()
	if bars != nil {
		cfg.Track = func(path string) pipeline.Tracker { return bars.Track(path) }
	}
	var stats pipeline.Stats
	code := appcore.Run[output.Contig](
		cmd.Context(),
		r.stdout,
		appcore.Options{
			Files:           files,
			Pipeline:        cfg,
			Log:             r.log,
			NoMatchExitCode: 1,
			Report:          func(st pipeline.Stats) { stats = st },
		},
		appcore.PassThrough,
		appcore.NewContigWriterFactory(r.cfg.Output, r.cfg.Sort, r.cfg.Header),
	)
	if bars != nil {
		bars.Wait()
	}

	line := progress.Summary(stats.Files, stats.Contigs, stats.Failed, stats.Dropped, totalBytes(files))
	r.log.Info(line)
	if r.cfg.Progress && !r.cfg.Quiet {
		_, _ = fmt.Fprintln(r.stderr, line)
	}
	return code
}
