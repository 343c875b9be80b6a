package reqs

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ManifestName is the file name written by [Set.WriteManifest].
const ManifestName = "requirements.txt"

// pythonTag prefixes the interpreter selector in the fingerprint input so
// that a selector can never be confused with a requirement name.
const pythonTag = "py:"

// Set is a deduplicated, unordered collection of requirement names.
// Names are compared case-sensitively exactly as they were added.
// The zero value is not usable; call [New].
type Set struct {
	reqs map[string]struct{}
}

// New returns an empty set.
func New() *Set {
	return &Set{reqs: make(map[string]struct{})}
}

// Add inserts a requirement. Surrounding whitespace is trimmed and empty
// names are ignored.
func (s *Set) Add(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	s.reqs[name] = struct{}{}
}

// Extend adds every name in names.
func (s *Set) Extend(names []string) {
	for _, n := range names {
		s.Add(n)
	}
}

// ParseAndAppend extracts marked imports from r (see [Parse]) and adds them.
func (s *Set) ParseAndAppend(r io.Reader) error {
	parsed, err := Parse(r)
	if err != nil {
		return err
	}
	for name := range parsed.reqs {
		s.reqs[name] = struct{}{}
	}
	return nil
}

// Len returns the number of requirements.
func (s *Set) Len() int { return len(s.reqs) }

// Has reports whether name is in the set.
func (s *Set) Has(name string) bool {
	_, ok := s.reqs[name]
	return ok
}

// Sorted returns the requirements in byte-wise lexicographic order.
func (s *Set) Sorted() []string {
	out := make([]string, 0, len(s.reqs))
	for name := range s.reqs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Fingerprint returns the hex-encoded SHA3-224 digest identifying this set
// together with the interpreter selector python. An empty selector means no
// selector was requested.
//
// Requirements are fed in sorted order with no separators between them.
func (s *Set) Fingerprint(python string) string {
	h := sha3.New224()
	if python != "" {
		h.Write([]byte(pythonTag))
		h.Write([]byte(python))
	}
	for _, name := range s.Sorted() {
		h.Write([]byte(name))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// WriteManifest writes the sorted requirements, one per line, to requirements.txt in
// dir and returns the file path. An empty set writes nothing and returns "".
// The file must not already exist.
func (s *Set) WriteManifest(dir string) (string, error) {
	if len(s.reqs) == 0 {
		return "", nil
	}

	path := filepath.Join(dir, ManifestName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", err
	}

	w := bufio.NewWriter(f)
	for _, name := range s.Sorted() {
		fmt.Fprintln(w, name)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
