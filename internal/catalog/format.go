// Package catalog loads zone-partitioned binary star catalogs and answers
// per-zone spatial queries over them.
//
// A catalog file holds one density tier: every star brighter than some
// limit, bucketed into the zones of one geodesic grid level. Stars are
// stored as fixed-point offsets in the tangent plane of their zone, in
// one of three record layouts chosen per file.
//
// File layout (all words uint32, byte order given by the magic):
//
//	magic, record type, major, minor, level, magMin, magRange, magSteps
//	count[0] ... count[zones-1]
//	record[0] ... record[N-1]       N = sum(count), zone-ordered
package catalog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"
)

const (
	// MagicNative marks a file written in little-endian order.
	MagicNative uint32 = 0x835f040a
	// MagicForeign is MagicNative read with the wrong byte order: the file
	// is big-endian and every multi-byte field must be swapped.
	MagicForeign uint32 = 0x0a045f83
	// MagicSwapped marks a file already converted to little-endian by a
	// previous swap. It loads like a native file.
	MagicSwapped uint32 = 0x835f040b

	// MaxMajorVersion is the newest major file version this reader accepts.
	MaxMajorVersion = 0

	// HeaderSize is the encoded header length in bytes.
	HeaderSize = 8 * 4
)

var (
	ErrBadMagic    = errors.New("not a star catalog (bad magic)")
	ErrVersion     = errors.New("unsupported catalog major version")
	ErrRecordType  = errors.New("unknown record type")
	ErrLevel       = errors.New("catalog level not covered by the grid")
	ErrHeader      = errors.New("invalid catalog header")
	ErrShortRead   = errors.New("catalog truncated")
	ErrRecordSize  = errors.New("catalog body does not match record size")
	ErrPolarZone   = errors.New("zone centered on a celestial pole")
	ErrTooManyStar = errors.New("star count overflows addressable size")
)

// Header is the fixed file header.
type Header struct {
	Magic    uint32
	Type     Layout
	Major    uint32
	Minor    uint32
	Level    uint32
	MagMin   int32  // milli-magnitudes
	MagRange uint32 // milli-magnitudes
	MagSteps uint32
}

// Magnitude converts a stored magnitude index to a visual magnitude.
func (h Header) Magnitude(index uint8) float64 {
	return (float64(h.MagMin) + float64(index)*float64(h.MagRange)/float64(h.MagSteps)) / 1000
}

// MagnitudeIndex returns the stored index nearest to mag, clamped to
// [0, min(MagSteps, max)].
func (h Header) MagnitudeIndex(mag float64, max uint8) uint8 {
	idx := (mag*1000 - float64(h.MagMin)) * float64(h.MagSteps) / float64(h.MagRange)
	limit := float64(max)
	if float64(h.MagSteps) < limit {
		limit = float64(h.MagSteps)
	}
	switch {
	case idx <= 0:
		return 0
	case idx >= limit:
		return uint8(limit)
	default:
		return uint8(idx + 0.5)
	}
}

// RadiusTable builds a draw magnitude table: entry i is the point radius
// for magnitude index i, or 0 when stars of that index are fainter than
// limitMag and must not be drawn.
func (h Header) RadiusTable(limitMag float64) []float64 {
	table := make([]float64, 256)
	for i := range table {
		mag := h.Magnitude(uint8(i))
		if mag > limitMag {
			continue
		}
		r := 0.5 + 0.35*(limitMag-mag)
		if r > 4 {
			r = 4
		}
		table[i] = r
	}
	return table
}

// decodeHeader parses the header and reports the byte order it uses.
func decodeHeader(buf []byte) (Header, binary.ByteOrder, error) {
	if len(buf) < HeaderSize {
		return Header{}, nil, fmt.Errorf("%w: header", ErrShortRead)
	}

	var order binary.ByteOrder
	switch magic := binary.LittleEndian.Uint32(buf[0:4]); magic {
	case MagicNative, MagicSwapped:
		order = binary.LittleEndian
	case MagicForeign:
		order = binary.BigEndian
	default:
		return Header{}, nil, fmt.Errorf("%w: 0x%08x", ErrBadMagic, magic)
	}

	h := Header{
		Magic:    order.Uint32(buf[0:4]),
		Type:     Layout(order.Uint32(buf[4:8])),
		Major:    order.Uint32(buf[8:12]),
		Minor:    order.Uint32(buf[12:16]),
		Level:    order.Uint32(buf[16:20]),
		MagMin:   int32(order.Uint32(buf[20:24])),
		MagRange: order.Uint32(buf[24:28]),
		MagSteps: order.Uint32(buf[28:32]),
	}
	if err := h.validate(); err != nil {
		return Header{}, nil, err
	}
	return h, order, nil
}

func (h Header) validate() error {
	if h.Major > MaxMajorVersion {
		return fmt.Errorf("%w: %d.%d (max %d)", ErrVersion, h.Major, h.Minor, MaxMajorVersion)
	}
	if !h.Type.valid() {
		return fmt.Errorf("%w: %d", ErrRecordType, uint32(h.Type))
	}
	if h.MagSteps == 0 || h.MagRange == 0 {
		return fmt.Errorf("%w: magnitude steps %d range %d", ErrHeader, h.MagSteps, h.MagRange)
	}
	return nil
}

func encodeHeader(h Header, order binary.ByteOrder) []byte {
	buf := make([]byte, HeaderSize)
	order.PutUint32(buf[0:4], h.Magic)
	order.PutUint32(buf[4:8], uint32(h.Type))
	order.PutUint32(buf[8:12], h.Major)
	order.PutUint32(buf[12:16], h.Minor)
	order.PutUint32(buf[16:20], h.Level)
	order.PutUint32(buf[20:24], uint32(h.MagMin))
	order.PutUint32(buf[24:28], h.MagRange)
	order.PutUint32(buf[28:32], h.MagSteps)
	return buf
}

// ReadHeader reads and validates a catalog header from r. It does not
// check the level against a grid.
func ReadHeader(r io.Reader) (Header, binary.ByteOrder, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, nil, fmt.Errorf("%w: header: %v", ErrShortRead, err)
	}
	return decodeHeader(buf)
}

// IsForeign reports whether a byte order needs swapping to reach the
// in-memory little-endian form.
func IsForeign(order binary.ByteOrder) bool {
	return order == binary.BigEndian
}

func swap32(b []byte) {
	binary.LittleEndian.PutUint32(b, bits.ReverseBytes32(binary.LittleEndian.Uint32(b)))
}

func swap16(b []byte) {
	binary.LittleEndian.PutUint16(b, bits.ReverseBytes16(binary.LittleEndian.Uint16(b)))
}
