// Package artifact implements the self-describing binary table format
// spec.md §6 describes for the on-disk abstraction and blueprint tables:
// a fixed magic header, a sequence of row frames each prefixed by its
// field count, each field prefixed by its byte length, and a terminating
// 0xFFFF sentinel. All integers are big-endian.
package artifact

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/lox/holdem-solver/internal/fileutil"
)

// Magic identifies a file as one of this format's tables. Version bumps
// whenever the frame layout changes incompatibly.
const (
	Magic   = "HSAB"
	Version = 1
)

// sentinel terminates the row sequence; no real row has this many fields.
const sentinel = 0xFFFF

// Kind names which of spec.md §6's five tables a file holds, stored in the
// header so a reader can validate it opened the table it expected.
type Kind uint16

const (
	KindIsomorphism Kind = iota + 1
	KindAbstraction
	KindMetric
	KindTransitions
	KindBlueprint
)

func (k Kind) String() string {
	switch k {
	case KindIsomorphism:
		return "isomorphism"
	case KindAbstraction:
		return "abstraction"
	case KindMetric:
		return "metric"
	case KindTransitions:
		return "transitions"
	case KindBlueprint:
		return "blueprint"
	default:
		return "unknown"
	}
}

// Row is one record: an ordered sequence of fixed-width fields, each
// already serialized to big-endian bytes by the caller's table-specific
// encoder (see tables.go).
type Row [][]byte

// Writer streams rows into the self-describing frame format. Callers
// build the whole file in memory via Encode and flush it atomically with
// fileutil.WriteFileAtomic, so a crash mid-write never leaves a partial
// file visible to readers.
type Writer struct {
	buf *bufio.Writer
}

// Encode serializes kind and rows into the on-disk frame format.
func Encode(kind Kind, rows []Row) ([]byte, error) {
	var out []byte
	w := &Writer{buf: bufio.NewWriter(sliceWriter{&out})}
	if err := w.writeHeader(kind); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.writeRow(row); err != nil {
			return nil, err
		}
	}
	if err := w.writeSentinel(); err != nil {
		return nil, err
	}
	if err := w.buf.Flush(); err != nil {
		return nil, err
	}
	return out, nil
}

// sliceWriter adapts a *[]byte to io.Writer for bufio.
type sliceWriter struct{ dst *[]byte }

func (s sliceWriter) Write(p []byte) (int, error) {
	*s.dst = append(*s.dst, p...)
	return len(p), nil
}

func (w *Writer) writeHeader(kind Kind) error {
	if _, err := w.buf.WriteString(Magic); err != nil {
		return err
	}
	return writeAll(w.buf,
		uint16(Version),
		uint16(kind),
	)
}

func (w *Writer) writeRow(row Row) error {
	if len(row) >= sentinel {
		return fmt.Errorf("artifact: row has %d fields, at or above the sentinel", len(row))
	}
	if err := binary.Write(w.buf, binary.BigEndian, uint16(len(row))); err != nil {
		return err
	}
	for _, field := range row {
		if err := binary.Write(w.buf, binary.BigEndian, uint16(len(field))); err != nil {
			return err
		}
		if _, err := w.buf.Write(field); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeSentinel() error {
	return binary.Write(w.buf, binary.BigEndian, uint16(sentinel))
}

func writeAll(w io.Writer, vs ...uint16) error {
	for _, v := range vs {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return err
		}
	}
	return nil
}

// Save atomically writes the encoded table to path via
// fileutil.WriteFileAtomic.
func Save(path string, kind Kind, rows []Row) error {
	data, err := Encode(kind, rows)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}

// CorruptError names the offending file and byte offset, per spec.md §7's
// "Artifact missing or corrupt" error taxonomy entry.
type CorruptError struct {
	Path   string
	Offset int64
	Reason string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("artifact: %s at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// Decode parses the frame format, validating the header against
// wantKind and reporting any corruption via *CorruptError naming path.
func Decode(path string, data []byte, wantKind Kind) (Kind, []Row, error) {
	r := &reader{data: data, path: path}
	kind, err := r.readHeader()
	if err != nil {
		return 0, nil, err
	}
	if wantKind != 0 && kind != wantKind {
		return 0, nil, &CorruptError{Path: path, Offset: 0, Reason: fmt.Sprintf("expected table kind %s, got %s", wantKind, kind)}
	}
	rows, err := r.readRows()
	if err != nil {
		return 0, nil, err
	}
	return kind, rows, nil
}

type reader struct {
	data []byte
	pos  int64
	path string
}

func (r *reader) readHeader() (Kind, error) {
	if len(r.data) < len(Magic)+4 {
		return 0, &CorruptError{Path: r.path, Offset: r.pos, Reason: "file shorter than header"}
	}
	if string(r.data[:len(Magic)]) != Magic {
		return 0, &CorruptError{Path: r.path, Offset: 0, Reason: "bad magic"}
	}
	r.pos = int64(len(Magic))
	version := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	if version != Version {
		return 0, &CorruptError{Path: r.path, Offset: r.pos - 2, Reason: fmt.Sprintf("unsupported version %d", version)}
	}
	kind := Kind(binary.BigEndian.Uint16(r.data[r.pos:]))
	r.pos += 2
	return kind, nil
}

func (r *reader) readRows() ([]Row, error) {
	var rows []Row
	for {
		fieldCount, err := r.readUint16()
		if err != nil {
			return nil, err
		}
		if fieldCount == sentinel {
			return rows, nil
		}
		row := make(Row, fieldCount)
		for i := range row {
			n, err := r.readUint16()
			if err != nil {
				return nil, err
			}
			field, err := r.readBytes(int(n))
			if err != nil {
				return nil, err
			}
			row[i] = field
		}
		rows = append(rows, row)
	}
}

func (r *reader) readUint16() (uint16, error) {
	if r.pos+2 > int64(len(r.data)) {
		return 0, &CorruptError{Path: r.path, Offset: r.pos, Reason: "truncated frame: expected uint16 field/row header"}
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) readBytes(n int) ([]byte, error) {
	if r.pos+int64(n) > int64(len(r.data)) {
		return nil, &CorruptError{Path: r.path, Offset: r.pos, Reason: fmt.Sprintf("truncated frame: expected %d field bytes", n)}
	}
	b := r.data[r.pos : r.pos+int64(n)]
	r.pos += int64(n)
	return b, nil
}
