// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"contigkit/internal/assembly"
	"contigkit/internal/cmdutil"
	"contigkit/internal/config"
	"contigkit/internal/contig"
	"contigkit/internal/progress"
	"contigkit/internal/version"
)

// boundKeys are the flags that viper merges with the config file and the
// environment. A subcommand binds only those it declares.
var boundKeys = []string{
	"format", "verbose", "quiet", "progress", "log-format",
	"contigs", "realign", "pad-fraction", "output", "sort", "header",
}

// runner carries the state of one invocation.
type runner struct {
	stdout, stderr io.Writer

	v       *viper.Viper
	cfgPath string
	cfg     config.Config
	log     *logrus.Logger

	pretty bool
	code   int
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	r := &runner{stdout: stdout, stderr: stderr, v: config.New()}
	root := r.rootCmd()
	root.SetArgs(argv)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(parent); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		_, _ = fmt.Fprintln(stderr, "Run 'contigkit --help' for usage.")
		return 2
	}
	return r.code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func (r *runner) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "contigkit",
		Short: "Inspect ACE and CAF genome assemblies",
		Long: `Read ACE or CAF assembly files (optionally gzip-compressed), rebuild
every read's alignment against its contig consensus and report contigs,
reads, mate pairs and per-base differences.`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return r.setup(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&r.cfgPath, "config", "", "config file (yaml, toml or json)")
	pf.String("format", "auto", "input dialect: ace, caf or auto")
	pf.BoolP("verbose", "v", false, "log debug detail to stderr")
	pf.BoolP("quiet", "q", false, "log errors only")
	pf.Bool("progress", false, "draw a progress bar per input file on stderr")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("output", "text", "output format: text or jsonl")
	pf.Bool("header", true, "print a header row in text output")

	root.AddCommand(r.headersCmd(), r.fetchCmd(), r.scanCmd())
	return root
}

// setup merges flags, config file and environment, then builds the logger.
func (r *runner) setup(cmd *cobra.Command) error {
	for _, k := range boundKeys {
		if f := cmd.Flags().Lookup(k); f != nil {
			if err := r.v.BindPFlag(k, f); err != nil {
				return err
			}
		}
	}
	cfg, err := config.Load(r.v, r.cfgPath)
	if err != nil {
		return err
	}
	l, err := cmdutil.NewLogger(r.stderr, cfg.Verbose, cfg.Quiet, cfg.LogFormat)
	if err != nil {
		return err
	}
	r.cfg, r.log = cfg, l
	return nil
}

// contigOptions translates the settings for the contig package.
func (r *runner) contigOptions() (contig.Options, error) {
	f, err := assembly.ParseFormat(r.cfg.Format)
	if err != nil {
		return contig.Options{}, err
	}
	return contig.Options{
		Format:      f,
		Realign:     r.cfg.Realign,
		Scoring:     r.cfg.AlignScoring(),
		PadFraction: r.cfg.PadFraction,
		Logger:      r.log,
	}, nil
}

// bars returns the progress container, or nil without --progress.
func (r *runner) bars() *progress.Bars {
	if !r.cfg.Progress {
		return nil
	}
	return progress.New(r.stderr)
}

func totalBytes(files []string) int64 {
	var n int64
	for _, f := range files {
		n += assembly.Size(f)
	}
	return n
}
