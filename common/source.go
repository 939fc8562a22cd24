package common

import "io"

// DataSourceKind identifies where raw log lines come from.
type DataSourceKind int

const (
	SourceFile DataSourceKind = iota
	SourceStdin
	SourceReader
)

// DataSource is an opaque descriptor of a line source. The query core
// never interprets it beyond handing it to the physical-plan compiler.
type DataSource struct {
	Kind   DataSourceKind
	Path   string
	Reader io.Reader
}

// NewFileSource describes a log file on disk.
func NewFileSource(path string) DataSource {
	return DataSource{Kind: SourceFile, Path: path}
}

// NewStdinSource describes standard input.
func NewStdinSource() DataSource {
	return DataSource{Kind: SourceStdin}
}

// NewReaderSource wraps an arbitrary reader, typically an in-memory
// buffer.
func NewReaderSource(r io.Reader) DataSource {
	return DataSource{Kind: SourceReader, Reader: r}
}

func (d DataSource) String() string {
	switch d.Kind {
	case SourceFile:
		return "file:" + d.Path
	case SourceStdin:
		return "stdin"
	default:
		return "reader"
	}
}
