package catalog

import (
	"bytes"
	"errors"
	"testing"
)

func TestWriteCatalog_BrightestFirst(t *testing.T) {
	stars := []SourceStar{
		{Hip: 1, RAdeg: 10, DecDeg: 5, Mag: 6},
		{Hip: 2, RAdeg: 10.1, DecDeg: 5.1, Mag: 1},
		{Hip: 3, RAdeg: 10.2, DecDeg: 4.9, Mag: 3},
	}
	a := mustCreate(t, writeFixture(t, DefaultWriterConfig(0, LayoutHip), stars))

	z := firstNonEmpty(a)
	if a.Zone(z).Size != 3 {
		t.Fatalf("zone %d holds %d stars, want 3", z, a.Zone(z).Size)
	}
	want := []int{2, 3, 1}
	for i, hip := range want {
		if r := a.Record(z, i); r.Hip != hip {
			t.Errorf("record %d hip = %d, want %d", i, r.Hip, hip)
		}
	}
}

func TestWriteCatalog_Errors(t *testing.T) {
	tests := []struct {
		name  string
		cfg   WriterConfig
		stars []SourceStar
		want  error
	}{
		{"layout", WriterConfig{Layout: 5, MagSteps: 1, MagRange: 1}, nil, ErrRecordType},
		{"level", DefaultWriterConfig(9, LayoutMid), nil, ErrLevel},
		{"steps", WriterConfig{Layout: LayoutMid}, nil, ErrHeader},
		{"hip range", DefaultWriterConfig(0, LayoutHip), []SourceStar{{Hip: 1 << 24}}, ErrHipRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			_, err := WriteCatalog(&buf, testGrid(), tt.cfg, tt.stars)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWriteCatalog_Clamps(t *testing.T) {
	stars := []SourceStar{{RAdeg: 45, DecDeg: 20, PMRA: 1e6, PMDec: -1e6, Mag: 30, BV: 9}}
	a := mustCreate(t, writeFixture(t, DefaultWriterConfig(0, LayoutMid), stars))

	r := a.Record(firstNonEmpty(a), 0)
	maxDX := layouts[LayoutMid].maxDX
	if r.DX0 != maxDX && r.DX0 != -maxDX {
		t.Errorf("DX0 = %d, want clamped to +-%d", r.DX0, maxDX)
	}
	if r.DX1 != maxDX && r.DX1 != -maxDX {
		t.Errorf("DX1 = %d, want clamped to +-%d", r.DX1, maxDX)
	}
	if r.Mag != 31 {
		t.Errorf("Mag = %d, want 31", r.Mag)
	}
	if r.BV != BVIndexMax {
		t.Errorf("BV = %d, want %d", r.BV, BVIndexMax)
	}
}

func TestWriteCatalog_Size(t *testing.T) {
	stars := brightSources()
	for _, layout := range allLayouts {
		t.Run(layout.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if _, err := WriteCatalog(&buf, testGrid(), DefaultWriterConfig(1, layout), stars); err != nil {
				t.Fatalf("WriteCatalog: %v", err)
			}
			want := HeaderSize + 4*80 + layout.RecordSize()*len(stars)
			if buf.Len() != want {
				t.Errorf("size = %d, want %d", buf.Len(), want)
			}
		})
	}
}
