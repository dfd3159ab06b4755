// Package stringtable loads line-indexed label files, such as the spectral
// type and multiple-star component tables that accompany a star catalog.
//
// Line n of the file is the label for index n. Files written by older
// tools are often Latin-1 or Windows-1252; a charmap option decodes them.
package stringtable

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ErrUnknownEncoding is returned by ParseEncoding for unsupported names.
var ErrUnknownEncoding = errors.New("unknown label encoding")

type options struct {
	decoder *encoding.Decoder
}

// Option configures table loading.
type Option func(*options)

// WithCharmap decodes the file from a single-byte code page.
func WithCharmap(cm *charmap.Charmap) Option {
	return func(o *options) {
		if cm != nil {
			o.decoder = cm.NewDecoder()
		}
	}
}

// ParseEncoding maps an encoding name to an Option. An empty name and
// "utf-8" select no decoding.
func ParseEncoding(name string) (Option, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return func(*options) {}, nil
	case "latin1", "latin-1", "iso-8859-1":
		return WithCharmap(charmap.ISO8859_1), nil
	case "cp1252", "windows-1252":
		return WithCharmap(charmap.Windows1252), nil
	case "cp437":
		return WithCharmap(charmap.CodePage437), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
}

// Load reads path into a table of exactly size labels. Lines beyond size
// are ignored and missing lines stay empty. A missing or empty file gives
// a table of empty labels and no error.
func Load(path string, size int, opts ...Option) ([]string, error) {
	table := make([]string, size)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return table, nil
		}
		return nil, fmt.Errorf("open label table: %w", err)
	}
	defer f.Close()

	n := 0
	err = scan(f, opts, func(line string) bool {
		if n >= size {
			return false
		}
		table[n] = line
		n++
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("read label table %s: %w", path, err)
	}
	return table, nil
}

// LoadLabels reads every line of path. A missing file gives an empty slice.
func LoadLabels(path string, opts ...Option) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("open label table: %w", err)
	}
	defer f.Close()

	labels := []string{}
	err = scan(f, opts, func(line string) bool {
		labels = append(labels, line)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("read label table %s: %w", path, err)
	}
	return labels, nil
}

// Read decodes labels from r, one per line.
func Read(r io.Reader, opts ...Option) ([]string, error) {
	labels := []string{}
	err := scan(r, opts, func(line string) bool {
		labels = append(labels, line)
		return true
	})
	return labels, err
}

func scan(r io.Reader, opts []Option, fn func(string) bool) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.decoder != nil {
		r = o.decoder.Reader(r)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for sc.Scan() {
		// Scanner drops "\n"; files from Windows still carry the "\r"
		if !fn(strings.TrimSuffix(sc.Text(), "\r")) {
			return nil
		}
	}
	return sc.Err()
}

// Lookup returns table[i], or "" when i is out of range.
func Lookup(table []string, i int) string {
	if i < 0 || i >= len(table) {
		return ""
	}
	return table[i]
}
