// Package config holds the run settings unmarshalled from viper. Values
// come, in rising precedence, from defaults, a config file, CONTIGKIT_*
// environment variables and command line flags (bound in internal/app).
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"contigkit/internal/align"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "CONTIGKIT"

// ScoringConfig is the realignment scoring scheme.
type ScoringConfig struct {
	Match     int `mapstructure:"match"`
	Mismatch  int `mapstructure:"mismatch"`
	Ambiguous int `mapstructure:"ambiguous"`
	GapOpen   int `mapstructure:"gap-open"`
	GapExtend int `mapstructure:"gap-extend"`
}

// Config is the root-level settings struct.
type Config struct {
	// ace, caf or auto
	Format string `mapstructure:"format"`

	// realign reads from scratch instead of trusting file coordinates
	Realign     bool          `mapstructure:"realign"`
	PadFraction float64       `mapstructure:"pad-fraction"`
	Scoring     ScoringConfig `mapstructure:"scoring"`

	// contig selection, e.g. "1,3-5"; empty means all
	Contigs string `mapstructure:"contigs"`

	// text or jsonl
	Output string `mapstructure:"output"`
	Sort   bool   `mapstructure:"sort"`
	Header bool   `mapstructure:"header"`

	Progress  bool   `mapstructure:"progress"`
	Verbose   bool   `mapstructure:"verbose"`
	Quiet     bool   `mapstructure:"quiet"`
	LogFormat string `mapstructure:"log-format"`
}

// SetDefaults registers every key so that environment variables are seen
// by Unmarshal even when no file or flag mentions them.
func SetDefaults(v *viper.Viper) {
	d := align.DefaultScoring
	v.SetDefault("format", "auto")
	v.SetDefault("realign", false)
	v.SetDefault("pad-fraction", align.DefaultPadFraction)
	v.SetDefault("scoring.match", d.Match)
	v.SetDefault("scoring.mismatch", d.Mismatch)
	v.SetDefault("scoring.ambiguous", d.Ambiguous)
	v.SetDefault("scoring.gap-open", d.GapOpen)
	v.SetDefault("scoring.gap-extend", d.GapExtend)
	v.SetDefault("contigs", "")
	v.SetDefault("output", "text")
	v.SetDefault("sort", false)
	v.SetDefault("header", true)
	v.SetDefault("progress", false)
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("log-format", "text")
}

// New returns a viper instance with defaults and environment lookup wired.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads the optional config file at path and returns the validated
// settings.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	c.Format = strings.ToLower(c.Format)
	c.Output = strings.ToLower(c.Output)
	c.LogFormat = strings.ToLower(c.LogFormat)
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Format {
	case "auto", "ace", "caf":
	default:
		return fmt.Errorf("format %q: want ace, caf or auto", c.Format)
	}
	switch c.Output {
	case "text", "jsonl":
	default:
		return fmt.Errorf("output %q: want text or jsonl", c.Output)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log-format %q: want text or json", c.LogFormat)
	}
	if c.Verbose && c.Quiet {
		return errors.New("verbose and quiet are mutually exclusive")
	}
	if c.PadFraction <= 0 || c.PadFraction >= 1 {
		return fmt.Errorf("pad-fraction %g: want 0 < f < 1", c.PadFraction)
	}
	s := c.Scoring
	if s.Match <= 0 {
		return fmt.Errorf("scoring.match %d: must be positive", s.Match)
	}
	if s.Mismatch > 0 || s.GapOpen > 0 || s.GapExtend > 0 {
		return errors.New("scoring: mismatch and gap penalties must not be positive")
	}
	return nil
}

// AlignScoring converts the scoring section for the aligner.
func (c Config) AlignScoring() *align.Scoring {
	return &align.Scoring{
		Match:     c.Scoring.Match,
		Mismatch:  c.Scoring.Mismatch,
		Ambiguous: c.Scoring.Ambiguous,
		GapOpen:   c.Scoring.GapOpen,
		GapExtend: c.Scoring.GapExtend,
	}
}
