package table

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/kryc/rainbowcrack-go/pkg/rterrors"
	"golang.org/x/sys/unix"
)

// mappedFile is a writable mmap of a whole file, used by the
// in-place conversions below. Unlike MappedTable's read-only
// golang.org/x/exp/mmap.ReaderAt, these conversions mutate the file
// directly, so they take the unix.Mmap PROT_WRITE path instead.
type mappedFile struct {
	f    *os.File
	data []byte
}

func mapWritable(path string) (*mappedFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}
	return &mappedFile{f: f, data: data}, nil
}

func (m *mappedFile) close() error {
	if err := unix.Munmap(m.data); err != nil {
		m.f.Close()
		return fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}
	if err := m.f.Close(); err != nil {
		return fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}
	return nil
}

// rowSlice adapts a contiguous, fixed-width run of rows living inside
// a mapped byte slice to sort.Interface, swapping whole rows through
// a scratch buffer the size of one row.
type rowSlice struct {
	data  []byte
	width int
	less  func(a, b []byte) bool
	tmp   []byte
}

func (r *rowSlice) Len() int            { return len(r.data) / r.width }
func (r *rowSlice) row(i int) []byte    { return r.data[i*r.width : (i+1)*r.width] }
func (r *rowSlice) Less(i, j int) bool  { return r.less(r.row(i), r.row(j)) }
func (r *rowSlice) Swap(i, j int) {
	copy(r.tmp, r.row(i))
	copy(r.row(i), r.row(j))
	copy(r.row(j), r.tmp)
}

// SortStartpoints sorts an uncompressed table's rows by the
// rowindex_t start-index prefix, ascending.
func SortStartpoints(path string) error {
	header, err := LoadHeader(path)
	if err != nil {
		return err
	}
	if header.Type != Uncompressed {
		return fmt.Errorf("table: %w: SortStartpoints requires an uncompressed table", rterrors.ErrConfigInvalid)
	}

	m, err := mapWritable(path)
	if err != nil {
		return err
	}
	defer m.close()

	width := header.ChainWidth()
	rows := &rowSlice{
		data:  m.data[HeaderSize:],
		width: width,
		less: func(a, b []byte) bool {
			return binary.LittleEndian.Uint64(a[:RowIndexSize]) < binary.LittleEndian.Uint64(b[:RowIndexSize])
		},
		tmp: make([]byte, width),
	}
	sort.Sort(rows)
	return nil
}

// SortTable sorts an uncompressed table's rows by endpoint bytes,
// ascending lexicographic. The compressed case has no startpoint to
// sort by; the original reference silently collapsed it to a
// meaningless sort, which this implementation refuses outright.
func SortTable(path string) error {
	header, err := LoadHeader(path)
	if err != nil {
		return err
	}
	if header.Type == Compressed {
		return fmt.Errorf("table: %w: SortTable is undefined for compressed tables (no startpoint to sort by)", rterrors.ErrConfigInvalid)
	}

	m, err := mapWritable(path)
	if err != nil {
		return err
	}
	defer m.close()

	width := header.ChainWidth()
	rows := &rowSlice{
		data:  m.data[HeaderSize:],
		width: width,
		less: func(a, b []byte) bool {
			return bytes.Compare(a[RowIndexSize:], b[RowIndexSize:]) < 0
		},
		tmp: make([]byte, width),
	}
	sort.Sort(rows)
	return nil
}

// RemoveStartpoints compresses an uncompressed table in place: every
// row's trailing Max-byte endpoint is shifted down over the discarded
// rowindex_t prefix, the file is truncated to header+N*Max, and the
// header's type byte is rewritten to Compressed.
func RemoveStartpoints(path string) error {
	header, err := LoadHeader(path)
	if err != nil {
		return err
	}
	if header.Type != Uncompressed {
		return fmt.Errorf("table: %w: RemoveStartpoints requires an uncompressed table", rterrors.ErrConfigInvalid)
	}

	max := int(header.Max)
	oldWidth := header.ChainWidth()

	m, err := mapWritable(path)
	if err != nil {
		return err
	}
	rows := m.data[HeaderSize:]
	n := len(rows) / oldWidth

	for i := 0; i < n; i++ {
		src := rows[i*oldWidth+RowIndexSize : (i+1)*oldWidth]
		dst := rows[i*max : i*max+max]
		copy(dst, src)
	}
	if err := m.close(); err != nil {
		return err
	}

	newSize := int64(HeaderSize) + int64(n)*int64(max)
	if err := os.Truncate(path, newSize); err != nil {
		return fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}

	header.Type = Compressed
	return rewriteHeader(path, header)
}

func rewriteHeader(path string, header *Header) error {
	buf, err := header.MarshalBinary()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}
	defer f.Close()
	if _, err := f.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}
	return nil
}

// ChangeType produces destination as a copy of the table at path
// converted to targetType, leaving path untouched.
//
//   - uncompressed -> compressed: copy, sort by start index, then
//     drop the start index from every row.
//   - compressed -> uncompressed: write a fresh header, stream every
//     row through with its ordinal position as the new start index,
//     then sort the result by endpoint.
func ChangeType(path, destination string, targetType Type) error {
	header, err := LoadHeader(path)
	if err != nil {
		return err
	}
	if header.Type == targetType {
		return copyFile(path, destination)
	}

	switch {
	case header.Type == Uncompressed && targetType == Compressed:
		if err := copyFile(path, destination); err != nil {
			return err
		}
		if err := SortStartpoints(destination); err != nil {
			return err
		}
		return RemoveStartpoints(destination)

	case header.Type == Compressed && targetType == Uncompressed:
		return expandCompressed(path, header, destination)

	default:
		return fmt.Errorf("table: %w: unsupported type conversion %s -> %s", rterrors.ErrConfigInvalid, header.Type, targetType)
	}
}

func expandCompressed(path string, header *Header, destination string) error {
	tmp := filepath.Join(filepath.Dir(destination), "."+uuid.NewString()+".rt.tmp")

	newHeader := *header
	newHeader.Type = Uncompressed
	if err := StoreHeader(tmp, &newHeader); err != nil {
		return err
	}

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}
	defer src.Close()
	if _, err := src.Seek(int64(HeaderSize), io.SeekStart); err != nil {
		return fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}

	w, err := OpenWriter(tmp, newHeader.ChainWidth())
	if err != nil {
		os.Remove(tmp)
		return err
	}

	max := int(header.Max)
	endpoint := make([]byte, max)
	var i uint64
	for {
		_, err := io.ReadFull(src, endpoint)
		if err == io.EOF {
			break
		}
		if err != nil {
			w.Close()
			os.Remove(tmp)
			return fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
		}
		row := EncodeRow(Uncompressed, max, i, endpoint, nil)
		if err := w.WriteRow(row); err != nil {
			os.Remove(tmp)
			return err
		}
		i++
	}
	if err := w.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := SortTable(tmp); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, destination); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}
	return nil
}
