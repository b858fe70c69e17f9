package table

import (
	"fmt"
	"io"
	"os"

	"github.com/kryc/rainbowcrack-go/pkg/rterrors"
)

// LoadHeader reads and validates the header at the start of path.
func LoadHeader(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}
	defer f.Close()

	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}

	h := &Header{}
	if err := h.UnmarshalBinary(buf); err != nil {
		return nil, err
	}
	return h, nil
}

// StoreHeader writes header at the start of a freshly created table
// file at path, truncating any existing file. Callers append row data
// immediately afterward using a Writer opened on the same path.
func StoreHeader(path string, header *Header) error {
	buf, err := header.MarshalBinary()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}
	defer f.Close()

	if _, err := f.Write(buf); err != nil {
		return fmt.Errorf("table: %w: %w", rterrors.ErrIoFailure, err)
	}
	return nil
}

// IsTable reports whether path begins with a valid table header.
func IsTable(path string) bool {
	_, err := LoadHeader(path)
	return err == nil
}
