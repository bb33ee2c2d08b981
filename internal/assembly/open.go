package assembly

import (
	"compress/gzip"
	"io"
	"os"
	"strings"
)

// Input is an opened assembly file.
type Input struct {
	io.Reader
	closers []io.Closer

	// Gzipped is set when the bytes read are a decompressed stream.
	Gzipped bool
	// Size is the on-disk size, 0 for stdin.
	Size int64
}

// Close closes the decompressor, if any, and then the file.
func (in *Input) Close() error {
	var err error
	for _, c := range in.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Total is the byte count a progress bar over Reader should reach, or 0
// when it is unknown. Compressed input has no total: the reader yields
// more bytes than the file holds.
func (in *Input) Total() int64 {
	if in.Gzipped {
		return 0
	}
	return in.Size
}

// Open returns a reader for path. "-" reads stdin; gzip input is detected
// by magic number (1F 8B) or by .gz suffix.
func Open(path string) (*Input, error) {
	if path == "-" {
		return &Input{Reader: os.Stdin}, nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	in := &Input{Reader: fh, closers: []io.Closer{fh}}
	if st, err := fh.Stat(); err == nil {
		in.Size = st.Size()
	}
	var sig [2]byte
	n, _ := fh.Read(sig[:])
	_, _ = fh.Seek(0, io.SeekStart)
	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		in.Reader, in.Gzipped = gr, true
		in.closers = []io.Closer{gr, fh}
	}
	return in, nil
}

// Size returns the on-disk size of path, or 0 when unknown (stdin, errors).
func Size(path string) int64 {
	if path == "-" {
		return 0
	}
	st, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return st.Size()
}
