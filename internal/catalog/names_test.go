package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCommonNames(t *testing.T) {
	content := "# common names\n32349|_(\"Sirius\")\n\n91262|Vega\n  27989 | Betelgeuse \n"
	path := filepath.Join(t.TempDir(), "names.fab")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	names, err := LoadCommonNames(path)
	if err != nil {
		t.Fatalf("LoadCommonNames: %v", err)
	}
	want := map[int]string{32349: "Sirius", 91262: "Vega", 27989: "Betelgeuse"}
	if len(names) != len(want) {
		t.Fatalf("got %d names, want %d", len(names), len(want))
	}
	for hip, name := range want {
		if names[hip] != name {
			t.Errorf("names[%d] = %q, want %q", hip, names[hip], name)
		}
	}
}

func TestLoadCommonNames_Missing(t *testing.T) {
	names, err := LoadCommonNames(filepath.Join(t.TempDir(), "none.fab"))
	if err != nil || len(names) != 0 {
		t.Errorf("missing file = %v, %v", names, err)
	}
}

func TestParseCommonNames_Errors(t *testing.T) {
	tests := []string{
		"32349 Sirius",
		"abc|Sirius",
		"0|Nobody",
		"999999|Beyond",
	}
	for _, line := range tests {
		if _, err := parseCommonNames([]string{line}, "t"); err == nil {
			t.Errorf("line %q parsed without error", line)
		}
	}
}

func TestWriteCommonNames_RoundTrip(t *testing.T) {
	names := map[int]string{91262: "Vega", 32349: "Sirius", 11767: "Polaris"}
	var buf bytes.Buffer
	if err := WriteCommonNames(&buf, names); err != nil {
		t.Fatalf("WriteCommonNames: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "11767|") {
		t.Errorf("output not sorted: %q", buf.String())
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	got, err := parseCommonNames(lines, "buf")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for hip, name := range names {
		if got[hip] != name {
			t.Errorf("names[%d] = %q, want %q", hip, got[hip], name)
		}
	}
}
