// internal/cmdutil/log.go
package cmdutil

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger. Warnings are shown by default,
// verbose adds debug output and quiet keeps only errors. format is
// "text" or "json".
func NewLogger(dst io.Writer, verbose, quiet bool, format string) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetOutput(dst)
	switch {
	case quiet:
		l.SetLevel(logrus.ErrorLevel)
	case verbose:
		l.SetLevel(logrus.DebugLevel)
	default:
		l.SetLevel(logrus.WarnLevel)
	}
	switch strings.ToLower(format) {
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", format)
	}
	return l, nil
}

// Warnf logs a warning unless quiet is set. Quiet loggers already drop
// warnings; the flag lets callers skip building fields.
func Warnf(l logrus.FieldLogger, quiet bool, format string, a ...any) {
	if quiet || l == nil {
		return
	}
	l.Warnf(format, a...)
}
