package assembly

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type rawLine struct {
	text   string
	line   int
	offset int64
}

func (l rawLine) blank() bool { return strings.TrimSpace(l.text) == "" }

// lineReader yields lines with their number and byte offset and supports a
// one-line push back. Cancellation is honored between lines.
type lineReader struct {
	br     *bufio.Reader
	line   int
	offset int64
	back   *rawLine
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReaderSize(r, 64*1024)}
}

func (lr *lineReader) next(ctx context.Context) (rawLine, error) {
	select {
	case <-ctx.Done():
		return rawLine{}, ctx.Err()
	default:
	}
	if lr.back != nil {
		l := *lr.back
		lr.back = nil
		return l, nil
	}
	s, err := lr.br.ReadString('\n')
	if len(s) == 0 {
		if err == nil || err == io.EOF {
			return rawLine{}, io.EOF
		}
		return rawLine{}, fmt.Errorf("read line %d: %w", lr.line+1, err)
	}
	if err != nil && err != io.EOF {
		return rawLine{}, fmt.Errorf("read line %d: %w", lr.line+1, err)
	}
	lr.line++
	l := rawLine{text: strings.TrimRight(s, "\r\n"), line: lr.line, offset: lr.offset}
	lr.offset += int64(len(s))
	return l, nil
}

func (lr *lineReader) unread(l rawLine) { lr.back = &l }

// consumed is the number of bytes handed out so far.
func (lr *lineReader) consumed() int64 {
	if lr.back != nil {
		return lr.back.offset
	}
	return lr.offset
}

// hasTag reports whether line starts with the whitespace-terminated tag.
func hasTag(line, tag string) bool {
	if !strings.HasPrefix(line, tag) {
		return false
	}
	return len(line) == len(tag) || line[len(tag)] == ' ' || line[len(tag)] == '\t'
}

func atoiFields(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// numberFromName returns the integer formed by the trailing digits of name.
func numberFromName(name string) (int, bool) {
	end := len(name)
	i := end
	for i > 0 && unicode.IsDigit(rune(name[i-1])) {
		i--
	}
	if i == end {
		return 0, false
	}
	n, err := strconv.Atoi(name[i:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
