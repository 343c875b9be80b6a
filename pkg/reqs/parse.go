package reqs

import (
	"bufio"
	"io"
	"strings"
	"unicode"
)

// markers are the comment prefixes that activate extraction for a line.
var markers = []string{"fades", "spyn"}

// Parse scans r line by line and returns the modules imported on lines that
// carry a marker comment. Read errors are returned as-is.
func Parse(r io.Reader) (*Set, error) {
	s := New()
	err := eachLine(r, func(line string) {
		for _, mod := range parseLine(line) {
			s.Add(mod)
		}
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// eachLine calls fn for every line of r without its line ending. Lines have
// no length limit.
func eachLine(r io.Reader, fn func(line string)) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			fn(strings.TrimSuffix(line, "\r"))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// parseLine returns the module names referenced by a single marked line.
func parseLine(line string) []string {
	code, comment, ok := strings.Cut(line, "#")
	if !ok || !hasMarker(strings.TrimLeftFunc(comment, unicode.IsSpace)) {
		return nil
	}

	if strings.HasPrefix(code, "from") {
		fields := strings.Fields(code)
		if len(fields) < 2 {
			return nil
		}
		return fields[1:2]
	}

	rest, ok := strings.CutPrefix(code, "import")
	if !ok {
		return nil
	}

	var mods []string
	for _, piece := range strings.Split(rest, ",") {
		if fields := strings.Fields(piece); len(fields) > 0 {
			mods = append(mods, fields[0])
		}
	}
	return mods
}

func hasMarker(comment string) bool {
	for _, m := range markers {
		if strings.HasPrefix(comment, m) {
			return true
		}
	}
	return false
}
