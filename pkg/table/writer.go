package table

import (
	"fmt"
	"os"

	"github.com/kryc/rainbowcrack-go/pkg/rterrors"
)

// Writer appends fixed-width rows to a table file that already has
// its header in place. It is the build engine's only write path;
// mmap'd writable mapping is reserved for the sort/convert tools in
// convert.go, which rewrite a whole file rather than append to it.
type Writer struct {
	f         *os.File
	rowWidth  int
	rowsAdded uint64
}

// OpenWriter opens path (which must already hold a valid header,
// typically written by StoreHeader) for appending rows of rowWidth
// bytes each.
func OpenWriter(path string, rowWidth int) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}
	return &Writer{f: f, rowWidth: rowWidth}, nil
}

// ResumeWriter opens path for appending and reports how many complete
// rows already follow the header, so a build that was interrupted can
// resume at the next block boundary instead of rehashing from zero.
func ResumeWriter(path string, rowWidth int) (*Writer, uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}

	dataSize := info.Size() - int64(HeaderSize)
	if dataSize < 0 {
		return nil, 0, fmt.Errorf("table: %w: file smaller than header", rterrors.ErrTableCorrupt)
	}

	rows := uint64(dataSize) / uint64(rowWidth)
	// Truncate any partially-written trailing row left by a crash
	// mid-append so the file boundary always lands on a row edge.
	wholeSize := int64(HeaderSize) + int64(rows)*int64(rowWidth)
	if wholeSize != info.Size() {
		if err := os.Truncate(path, wholeSize); err != nil {
			return nil, 0, fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
		}
	}

	w, err := OpenWriter(path, rowWidth)
	if err != nil {
		return nil, 0, err
	}
	w.rowsAdded = rows
	return w, rows, nil
}

// WriteRow appends one row, which must be exactly rowWidth bytes.
func (w *Writer) WriteRow(row []byte) error {
	if len(row) != w.rowWidth {
		return fmt.Errorf("table: row width %d does not match table row width %d", len(row), w.rowWidth)
	}
	if _, err := w.f.Write(row); err != nil {
		return fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}
	w.rowsAdded++
	return nil
}

// RowsWritten returns the total number of rows written (or already
// present, for a resumed writer) since the writer was opened.
func (w *Writer) RowsWritten() uint64 {
	return w.rowsAdded
}

// Sync flushes buffered writes to stable storage.
func (w *Writer) Sync() error {
	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}
	return nil
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	return w.f.Close()
}
