// internal/common/ids.go
package common

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseNumberSet parses a contig selection such as "1,3-5,9" into a set.
// An empty string returns nil, meaning no restriction.
func ParseNumberSet(s string) (map[int]bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	out := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		a, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("bad contig number %q", part)
		}
		b := a
		if isRange {
			if b, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
				return nil, fmt.Errorf("bad contig range %q", part)
			}
		}
		if a < 1 || b < a {
			return nil, fmt.Errorf("bad contig range %q", part)
		}
		if b-a > 1<<20 {
			return nil, fmt.Errorf("contig range %q too large", part)
		}
		for n := a; n <= b; n++ {
			out[n] = true
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty contig selection %q", s)
	}
	return out, nil
}
