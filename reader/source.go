package reader

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/vegasq/logq/common"
)

// maxLineSize bounds a single log line. ALB lines with long request
// URLs and trace IDs overflow bufio's 64K default.
const maxLineSize = 1024 * 1024

// ValidateSource checks that a data source can be bound without
// opening it for streaming. File sources must exist and be regular
// files.
func ValidateSource(src common.DataSource) error {
	if src.Kind != common.SourceFile {
		return nil
	}
	info, err := os.Stat(src.Path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &os.PathError{Op: "open", Path: src.Path, Err: os.ErrInvalid}
	}
	return nil
}

// LineReader reads a data source one line at a time. Files ending in
// .gz are decompressed transparently, which is how ELB and S3 deliver
// archived logs.
type LineReader struct {
	scanner *bufio.Scanner
	closers []io.Closer
	line    int
	closed  bool
}

// OpenSource opens a data source as a line reader. The reader owns
// any file handle it opens and releases it on Close.
func OpenSource(src common.DataSource) (*LineReader, error) {
	var (
		r       io.Reader
		closers []io.Closer
	)

	switch src.Kind {
	case common.SourceFile:
		f, err := os.Open(src.Path)
		if err != nil {
			return nil, err
		}
		r = f
		closers = append(closers, f)
		if strings.HasSuffix(src.Path, ".gz") {
			gz, err := gzip.NewReader(f)
			if err != nil {
				f.Close()
				return nil, err
			}
			r = gz
			closers = append([]io.Closer{gz}, closers...)
		}
	case common.SourceStdin:
		r = os.Stdin
	default:
		r = src.Reader
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &LineReader{scanner: scanner, closers: closers}, nil
}

// Read returns the next line and its 1-based ordinal. io.EOF signals
// exhaustion. Empty lines are returned as-is; deciding what a blank
// line means is the decoder's business.
func (lr *LineReader) Read() (string, int, error) {
	if !lr.scanner.Scan() {
		if err := lr.scanner.Err(); err != nil {
			lr.line++
			return "", lr.line, err
		}
		return "", lr.line, io.EOF
	}
	lr.line++
	return lr.scanner.Text(), lr.line, nil
}

// Close releases the underlying handles. It is idempotent.
func (lr *LineReader) Close() error {
	if lr.closed {
		return nil
	}
	lr.closed = true
	var first error
	for _, c := range lr.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
