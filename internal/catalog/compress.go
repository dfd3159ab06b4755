package catalog

import (
	"errors"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// CompressedExt marks a zstd-compressed catalog file. Compressed tiers are
// decompressed into an owned buffer and never mapped.
const CompressedExt = ".zst"

var ErrCompressed = errors.New("corrupt compressed catalog")

// IsCompressed reports whether path names a compressed catalog.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, CompressedExt)
}

// decompress reads a whole zstd stream into memory.
func decompress(r io.Reader) ([]byte, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

func compressWriter(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, err
	}
	return enc, nil
}
