package assembly

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"

	"contigkit/internal/gapmap"
)

// Format selects the assembly dialect a Scanner parses.
type Format int

const (
	FormatUnknown Format = iota
	FormatACE            // phrap/consed ACE
	FormatCAF            // Common Assembly Format
)

func (f Format) String() string {
	switch f {
	case FormatACE:
		return "ace"
	case FormatCAF:
		return "caf"
	}
	return "unknown"
}

// GapMarker is the padding character the dialect writes into gapped sequences.
func (f Format) GapMarker() byte {
	if f == FormatCAF {
		return gapmap.Dash
	}
	return gapmap.Star
}

// ParseFormat maps a user-supplied name to a Format. "" and "auto" return
// FormatUnknown so the caller can fall back to DetectFormat.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return FormatUnknown, nil
	case "ace", "a":
		return FormatACE, nil
	case "caf", "b":
		return FormatCAF, nil
	}
	return FormatUnknown, fmt.Errorf("unknown assembly format %q (want ace, caf or auto)", name)
}

// DetectFormat guesses the dialect from the file extension (ignoring .gz),
// then from the first non-blank line.
func DetectFormat(path string) (Format, error) {
	base := strings.TrimSuffix(strings.ToLower(path), ".gz")
	switch filepath.Ext(base) {
	case ".ace":
		return FormatACE, nil
	case ".caf":
		return FormatCAF, nil
	}
	if path == "-" {
		return FormatUnknown, fmt.Errorf("cannot detect format of stdin; pass --format")
	}
	rc, err := Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer rc.Close()
	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if f := sniff(line); f != FormatUnknown {
			return f, nil
		}
		break
	}
	if err := sc.Err(); err != nil {
		return FormatUnknown, fmt.Errorf("detect format: %w", err)
	}
	return FormatUnknown, fmt.Errorf("%s: unrecognized assembly format", path)
}

func sniff(line string) Format {
	switch {
	case hasTag(line, "AS"), hasTag(line, "CO"):
		return FormatACE
	case strings.HasPrefix(line, "Sequence"), strings.HasPrefix(line, "DNA"):
		return FormatCAF
	}
	return FormatUnknown
}
