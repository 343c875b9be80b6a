package envcache

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	spynerrors "github.com/matzehuels/spyn/pkg/errors"
)

// ScratchDirName is the subdirectory of the cache root holding builds in
// progress.
const ScratchDirName = "tmp"

// ScratchStaleAfter is how long a scratch directory must sit unmodified
// before Clear treats it as abandoned.
const ScratchStaleAfter = 24 * time.Hour

// ErrExists is returned by Publish when an environment is already present
// for the fingerprint.
var ErrExists = errors.New("environment already published")

// Entry describes a published environment.
type Entry struct {
	Fingerprint string
	Path        string
	ModTime     time.Time
}

// Store is where environments live. Exists is the sole readiness check and
// Publish the sole commit point; a stricter store (for example one that
// writes a completion marker) can be substituted without changing callers.
type Store interface {
	// Root returns the cache root directory.
	Root() string

	// Path returns the directory an environment for fp occupies once published.
	Path(fp string) string

	// Exists reports whether an environment for fp is ready.
	Exists(fp string) bool

	// NewScratch creates an exclusively owned, empty directory on the same
	// filesystem as the published environments.
	NewScratch() (string, error)

	// Publish atomically moves scratch to Path(fp). It returns an error
	// wrapping ErrExists if another environment got there first.
	Publish(scratch, fp string) error

	// List returns the published environments sorted by fingerprint.
	List() ([]Entry, error)

	// Remove deletes the environment for fp. Removing a missing entry is not
	// an error.
	Remove(fp string) error

	// Clear deletes every published environment and every scratch directory
	// older than ScratchStaleAfter, returning the number of environments
	// removed.
	Clear() (int, error)
}

// DirStore is a Store backed by a plain directory tree.
type DirStore struct {
	root string
}

// NewDirStore returns a store rooted at root. Directories are created lazily
// by NewScratch.
func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

func (s *DirStore) Root() string { return s.root }

func (s *DirStore) Path(fp string) string {
	return filepath.Join(s.root, fp)
}

func (s *DirStore) Exists(fp string) bool {
	_, err := os.Stat(s.Path(fp))
	return err == nil
}

func (s *DirStore) scratchRoot() string {
	return filepath.Join(s.root, ScratchDirName)
}

func (s *DirStore) NewScratch() (string, error) {
	tmp := s.scratchRoot()
	if err := os.MkdirAll(tmp, 0755); err != nil {
		return "", spynerrors.Wrap(spynerrors.ErrCodeIO, err, "failed creating scratch directory %s", tmp)
	}

	dir := filepath.Join(tmp, uuid.NewString())
	if err := os.Mkdir(dir, 0755); err != nil {
		return "", spynerrors.Wrap(spynerrors.ErrCodeIO, err, "failed creating build directory %s", dir)
	}
	return dir, nil
}

func (s *DirStore) Publish(scratch, fp string) error {
	target := s.Path(fp)
	if err := os.Rename(scratch, target); err != nil {
		if s.Exists(fp) {
			return spynerrors.Wrap(spynerrors.ErrCodePublish, ErrExists, "publish %s", target)
		}
		return spynerrors.Wrap(spynerrors.ErrCodePublish, err, "failed moving %s to %s", scratch, target)
	}
	return nil
}

func (s *DirStore) List() ([]Entry, error) {
	dirents, err := os.ReadDir(s.root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, spynerrors.Wrap(spynerrors.ErrCodeIO, err, "read cache directory %s", s.root)
	}

	var entries []Entry
	for _, d := range dirents {
		if !d.IsDir() || spynerrors.ValidateFingerprint(d.Name()) != nil {
			continue
		}
		info, err := d.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Fingerprint: d.Name(),
			Path:        s.Path(d.Name()),
			ModTime:     info.ModTime(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Fingerprint < entries[j].Fingerprint })
	return entries, nil
}

func (s *DirStore) Remove(fp string) error {
	if err := spynerrors.ValidateFingerprint(fp); err != nil {
		return err
	}
	if err := os.RemoveAll(s.Path(fp)); err != nil {
		return spynerrors.Wrap(spynerrors.ErrCodeIO, err, "remove environment %s", fp)
	}
	return nil
}

func (s *DirStore) Clear() (int, error) {
	entries, err := s.List()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, e := range entries {
		if err := os.RemoveAll(e.Path); err != nil {
			return count, spynerrors.Wrap(spynerrors.ErrCodeIO, err, "remove environment %s", e.Fingerprint)
		}
		count++
	}
	if err := s.removeStaleScratch(time.Now().Add(-ScratchStaleAfter)); err != nil {
		return count, err
	}
	return count, nil
}

// removeStaleScratch deletes scratch directories last modified before cutoff.
// Newer ones may belong to a build running in another process.
func (s *DirStore) removeStaleScratch(cutoff time.Time) error {
	dirents, err := os.ReadDir(s.scratchRoot())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return spynerrors.Wrap(spynerrors.ErrCodeIO, err, "read scratch directory")
	}
	for _, d := range dirents {
		info, err := d.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.scratchRoot(), d.Name())
		if err := os.RemoveAll(path); err != nil {
			return spynerrors.Wrap(spynerrors.ErrCodeIO, err, "remove scratch directory %s", path)
		}
	}
	return nil
}

// Ensure DirStore implements Store.
var _ Store = (*DirStore)(nil)
