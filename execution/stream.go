package execution

import (
	"io"

	"github.com/vegasq/logq/common"
	"github.com/vegasq/logq/reader"
)

// RecordStream is a single-pass pull iterator over query output rows.
//
//	for stream.Next() {
//		use(stream.Record())
//	}
//	if err := stream.Err(); err != nil { ... }
//
// Once Next returns false the stream is exhausted and every further
// call returns false. Close releases the underlying data source and
// is safe to call at any point, including mid-stream.
type RecordStream interface {
	Next() bool
	Record() *Record
	Err() error
	Close() error
}

// scanStream decodes raw lines into full-schema records. A line that
// fails decoding stops the stream with a StreamError naming the line
// ordinal and format; earlier valid lines have already been yielded.
type scanStream struct {
	schema  *reader.Schema
	columns []string
	lr      *reader.LineReader
	cur     *Record
	err     error
	done    bool
}

func (s *scanStream) Next() bool {
	if s.done || s.err != nil {
		return false
	}
	line, ordinal, err := s.lr.Read()
	if err == io.EOF {
		s.done = true
		return false
	}
	if err != nil {
		s.err = &StreamError{Line: ordinal, Format: s.schema.Name, Err: err}
		return false
	}
	tuple, err := s.schema.DecodeLine(line)
	if err != nil {
		s.err = &StreamError{Line: ordinal, Format: s.schema.Name, Err: err}
		return false
	}
	s.cur = NewRecord(s.columns, tuple)
	return true
}

func (s *scanStream) Record() *Record { return s.cur }
func (s *scanStream) Err() error      { return s.err }
func (s *scanStream) Close() error    { return s.lr.Close() }

// filterStream pulls from its child until the predicate holds.
type filterStream struct {
	child     RecordStream
	predicate Formula
	vars      common.Variables
	cur       *Record
	err       error
}

func (s *filterStream) Next() bool {
	if s.err != nil {
		return false
	}
	for s.child.Next() {
		rec := s.child.Record()
		ok, err := s.predicate.Eval(rec.Values(), s.vars)
		if err != nil {
			s.err = err
			return false
		}
		if ok {
			s.cur = rec
			return true
		}
	}
	s.err = s.child.Err()
	return false
}

func (s *filterStream) Record() *Record { return s.cur }
func (s *filterStream) Err() error      { return s.err }
func (s *filterStream) Close() error    { return s.child.Close() }

// projectStream narrows each child record to the output columns.
type projectStream struct {
	child   RecordStream
	columns []string
	indexes []int
	cur     *Record
}

func (s *projectStream) Next() bool {
	if !s.child.Next() {
		return false
	}
	full := s.child.Record().Values()
	values := make(common.Tuple, len(s.indexes))
	for i, idx := range s.indexes {
		values[i] = full[idx]
	}
	s.cur = NewRecord(s.columns, values)
	return true
}

func (s *projectStream) Record() *Record { return s.cur }
func (s *projectStream) Err() error      { return s.child.Err() }
func (s *projectStream) Close() error    { return s.child.Close() }

// limitStream passes through at most its budget of rows, then reports
// exhaustion permanently without pulling the child again.
type limitStream struct {
	child     RecordStream
	remaining int64
}

func (s *limitStream) Next() bool {
	if s.remaining <= 0 {
		return false
	}
	if !s.child.Next() {
		s.remaining = 0
		return false
	}
	s.remaining--
	return true
}

func (s *limitStream) Record() *Record { return s.child.Record() }
func (s *limitStream) Err() error      { return s.child.Err() }
func (s *limitStream) Close() error    { return s.child.Close() }
