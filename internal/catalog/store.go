package catalog

import (
	"errors"
	"fmt"
	"io"
)

// errMmapUnsupported is returned by mapRegion on platforms without mmap.
var errMmapUnsupported = errors.New("memory mapping not supported on this platform")

// store is the backing memory of a loaded record run: either a heap
// buffer owned by the array or a read-only view mapped from the file.
// Both expose the same flat byte range; Close releases it exactly once.
type store interface {
	Bytes() []byte
	Mapped() bool
	Close() error
}

// ownedStore is a heap buffer filled by sequential reads.
type ownedStore struct {
	buf []byte
}

func (s *ownedStore) Bytes() []byte { return s.buf }
func (s *ownedStore) Mapped() bool  { return false }

func (s *ownedStore) Close() error {
	s.buf = nil
	return nil
}

// readOwned reads exactly n bytes from r into a new buffer.
func readOwned(r io.Reader, n int) (*ownedStore, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: records: %v", ErrShortRead, err)
	}
	return &ownedStore{buf: buf}, nil
}
