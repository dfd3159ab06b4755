package catalog

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/litescript/ls-starfield/internal/stringtable"
)

// LoadCommonNames reads a name file into a map from catalog number to
// name. Lines have the form `hip|Name` or `hip|_("Name")`; blank lines and
// lines starting with '#' are ignored. A missing file gives an empty map.
func LoadCommonNames(path string, opts ...stringtable.Option) (map[int]string, error) {
	lines, err := stringtable.LoadLabels(path, opts...)
	if err != nil {
		return nil, err
	}
	return parseCommonNames(lines, path)
}

func parseCommonNames(lines []string, path string) (map[int]string, error) {
	names := make(map[int]string, len(lines))
	for n, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		num, name, ok := strings.Cut(line, "|")
		if !ok {
			return nil, fmt.Errorf("%s:%d: missing '|' separator", path, n+1)
		}
		hip, err := strconv.Atoi(strings.TrimSpace(num))
		if err != nil || hip <= 0 || hip > NrOfHip {
			return nil, fmt.Errorf("%s:%d: bad catalog number %q", path, n+1, num)
		}
		name = strings.TrimSpace(name)
		if strings.HasPrefix(name, `_("`) && strings.HasSuffix(name, `")`) {
			name = name[3 : len(name)-2]
		}
		if name != "" {
			names[hip] = name
		}
	}
	return names, nil
}

// WriteCommonNames writes names in catalog-number order in the format
// LoadCommonNames reads.
func WriteCommonNames(w io.Writer, names map[int]string) error {
	hips := make([]int, 0, len(names))
	for hip := range names {
		hips = append(hips, hip)
	}
	slices.Sort(hips)

	bw := bufio.NewWriter(w)
	for _, hip := range hips {
		if _, err := fmt.Fprintf(bw, "%d|_(\"%s\")\n", hip, names[hip]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
