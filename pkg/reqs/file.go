package reqs

import (
	"os"
	"strings"
)

// ReadFile adds the requirements listed in a requirements file at path.
// Each non-blank line not starting with '#' is added verbatim after trimming;
// version specifiers are kept as part of the name.
func (s *Set) ReadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return eachLine(f, func(line string) {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' {
			return
		}
		s.Add(line)
	})
}
