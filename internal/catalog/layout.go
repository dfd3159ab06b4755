package catalog

import (
	"encoding/binary"
	"math"
)

// Layout selects one of the fixed-width record encodings.
type Layout uint32

const (
	// LayoutHip is the 28-byte record carrying a Hipparcos number,
	// spectral type, parallax and full-precision position and motion.
	LayoutHip Layout = iota
	// LayoutMid is the 10-byte record without identifier.
	LayoutMid
	// LayoutLean is the 6-byte record without identifier or motion, used
	// for the most numerous faint stars.
	LayoutLean
)

func (l Layout) valid() bool {
	return l <= LayoutLean
}

// String returns the layout name.
func (l Layout) String() string {
	switch l {
	case LayoutHip:
		return "hip"
	case LayoutMid:
		return "mid"
	case LayoutLean:
		return "lean"
	default:
		return "unknown"
	}
}

// ParseLayout parses a layout name.
func ParseLayout(s string) (Layout, bool) {
	switch s {
	case "hip", "0":
		return LayoutHip, true
	case "mid", "1":
		return LayoutMid, true
	case "lean", "2":
		return LayoutLean, true
	default:
		return 0, false
	}
}

// RecordSize returns the on-disk size of one record.
func (l Layout) RecordSize() int {
	return layouts[l].size
}

// HasIdentifier reports whether records carry a catalog number.
func (l Layout) HasIdentifier() bool {
	return l == LayoutHip
}

// MaxPos returns the largest fixed-point position magnitude.
func (l Layout) MaxPos() int32 {
	return layouts[l].maxPos
}

// Record is one decoded star. Fields a layout does not store are zero.
type Record struct {
	Hip       int   // Hipparcos number, 0 when absent
	Component int   // index into the component label table
	X0, X1    int32 // tangent-plane position, fixed point
	DX0, DX1  int32 // proper motion along the zone axes, 0.1 mas/yr
	BV        uint8 // colour index, 0..127
	Mag       uint8 // magnitude index, see Header.Magnitude
	SpInt     int   // index into the spectral type table
	Plx       int32 // parallax, 0.01 mas
}

// BVIndexMax is the largest stored colour index.
const BVIndexMax = 127

// ColorIndex converts a stored colour index to B-V.
func ColorIndex(bv uint8) float64 {
	return -0.5 + float64(bv)*4.5/BVIndexMax
}

// BVIndex converts B-V to the nearest stored colour index.
func BVIndex(bv float64) uint8 {
	i := math.Round((bv + 0.5) * BVIndexMax / 4.5)
	if i < 0 {
		return 0
	}
	if i > BVIndexMax {
		return BVIndexMax
	}
	return uint8(i)
}

type layoutSpec struct {
	size   int
	maxPos int32
	maxDX  int32
	maxMag uint8
	decode func(b []byte) Record
	encode func(b []byte, r Record)
	// swap converts one record between byte orders in place; nil when the
	// encoding is a byte stream with no multi-byte words.
	swap func(b []byte)
}

var layouts = [...]layoutSpec{
	LayoutHip: {
		size:   28,
		maxPos: math.MaxInt32,
		maxDX:  math.MaxInt32,
		maxMag: math.MaxUint8,
		decode: decodeHip,
		encode: encodeHip,
		swap:   swapHip,
	},
	LayoutMid: {
		size:   10,
		maxPos: 1<<19 - 1,
		maxDX:  1<<13 - 1,
		maxMag: 1<<5 - 1,
		decode: decodeMid,
		encode: encodeMid,
	},
	LayoutLean: {
		size:   6,
		maxPos: 1<<17 - 1,
		maxMag: 1<<5 - 1,
		decode: decodeLean,
		encode: encodeLean,
	},
}

// Hip record, little-endian:
//
//	0  uint32 hip:24 | component:8
//	4  int32  x0
//	8  int32  x1
//	12 uint8  bv
//	13 uint8  mag
//	14 uint16 spectral type
//	16 int32  dx0
//	20 int32  dx1
//	24 int32  parallax
func decodeHip(b []byte) Record {
	le := binary.LittleEndian
	id := le.Uint32(b[0:4])
	return Record{
		Hip:       int(id & 0xffffff),
		Component: int(id >> 24),
		X0:        int32(le.Uint32(b[4:8])),
		X1:        int32(le.Uint32(b[8:12])),
		BV:        b[12],
		Mag:       b[13],
		SpInt:     int(le.Uint16(b[14:16])),
		DX0:       int32(le.Uint32(b[16:20])),
		DX1:       int32(le.Uint32(b[20:24])),
		Plx:       int32(le.Uint32(b[24:28])),
	}
}

func encodeHip(b []byte, r Record) {
	le := binary.LittleEndian
	le.PutUint32(b[0:4], uint32(r.Hip)&0xffffff|uint32(r.Component&0xff)<<24)
	le.PutUint32(b[4:8], uint32(r.X0))
	le.PutUint32(b[8:12], uint32(r.X1))
	b[12] = r.BV
	b[13] = r.Mag
	le.PutUint16(b[14:16], uint16(r.SpInt))
	le.PutUint32(b[16:20], uint32(r.DX0))
	le.PutUint32(b[20:24], uint32(r.DX1))
	le.PutUint32(b[24:28], uint32(r.Plx))
}

func swapHip(b []byte) {
	swap32(b[0:4])
	swap32(b[4:8])
	swap32(b[8:12])
	swap16(b[14:16])
	swap32(b[16:20])
	swap32(b[20:24])
	swap32(b[24:28])
}

// Mid record, little-endian bit stream:
// x0:20 x1:20 dx0:14 dx1:14 bv:7 mag:5 (signed fields first).
func decodeMid(b []byte) Record {
	return Record{
		X0:  signExtend(getBits(b, 0, 20), 20),
		X1:  signExtend(getBits(b, 20, 20), 20),
		DX0: signExtend(getBits(b, 40, 14), 14),
		DX1: signExtend(getBits(b, 54, 14), 14),
		BV:  uint8(getBits(b, 68, 7)),
		Mag: uint8(getBits(b, 75, 5)),
	}
}

func encodeMid(b []byte, r Record) {
	putBits(b, 0, 20, uint32(r.X0))
	putBits(b, 20, 20, uint32(r.X1))
	putBits(b, 40, 14, uint32(r.DX0))
	putBits(b, 54, 14, uint32(r.DX1))
	putBits(b, 68, 7, uint32(r.BV))
	putBits(b, 75, 5, uint32(r.Mag))
}

// Lean record, little-endian bit stream: x0:18 x1:18 bv:7 mag:5.
func decodeLean(b []byte) Record {
	return Record{
		X0:  signExtend(getBits(b, 0, 18), 18),
		X1:  signExtend(getBits(b, 18, 18), 18),
		BV:  uint8(getBits(b, 36, 7)),
		Mag: uint8(getBits(b, 43, 5)),
	}
}

func encodeLean(b []byte, r Record) {
	putBits(b, 0, 18, uint32(r.X0))
	putBits(b, 18, 18, uint32(r.X1))
	putBits(b, 36, 7, uint32(r.BV))
	putBits(b, 43, 5, uint32(r.Mag))
}

// getBits reads width bits starting at bit off, where bit i is bit i%8 of
// byte i/8. width must be at most 25.
func getBits(b []byte, off, width uint) uint32 {
	first := off / 8
	last := (off + width - 1) / 8
	var v uint64
	for i := int(last); i >= int(first); i-- {
		v = v<<8 | uint64(b[i])
	}
	return uint32(v>>(off%8)) & (1<<width - 1)
}

func putBits(b []byte, off, width uint, v uint32) {
	v &= 1<<width - 1
	for i := uint(0); i < width; i++ {
		bit := off + i
		mask := byte(1) << (bit % 8)
		if v&(1<<i) != 0 {
			b[bit/8] |= mask
		} else {
			b[bit/8] &^= mask
		}
	}
}

func signExtend(v uint32, width uint) int32 {
	shift := 32 - width
	return int32(v<<shift) >> shift
}
