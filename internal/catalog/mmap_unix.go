//go:build unix

package catalog

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const mmapSupported = true

// mappedStore is a read-only shared mapping of the record region. It keeps
// the file open for as long as the mapping lives.
type mappedStore struct {
	file   *os.File
	region []byte // page-aligned mapping, as returned by mmap
	data   []byte // the record run inside region
}

// mapRegion maps length bytes of f starting at offset. On success the
// store owns f and closes it on Close.
func mapRegion(f *os.File, offset int64, length int) (store, error) {
	page := int64(os.Getpagesize())
	aligned := offset &^ (page - 1)
	delta := int(offset - aligned)

	region, err := unix.Mmap(int(f.Fd()), aligned, length+delta, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", f.Name(), err)
	}
	return &mappedStore{
		file:   f,
		region: region,
		data:   region[delta : delta+length],
	}, nil
}

func (s *mappedStore) Bytes() []byte { return s.data }
func (s *mappedStore) Mapped() bool  { return true }

func (s *mappedStore) Close() error {
	if s.region == nil {
		return nil
	}
	err := unix.Munmap(s.region)
	s.region = nil
	s.data = nil
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}
