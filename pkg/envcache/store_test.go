package envcache

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	spynerrors "github.com/matzehuels/spyn/pkg/errors"
)

func testFingerprint(c byte) string {
	return strings.Repeat(string(c), 56)
}

func TestDirStorePaths(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".spyn")
	s := NewDirStore(root)

	if s.Root() != root {
		t.Errorf("Root() = %q, want %q", s.Root(), root)
	}
	fp := testFingerprint('a')
	if s.Path(fp) != filepath.Join(root, fp) {
		t.Errorf("Path() = %q", s.Path(fp))
	}
	if s.Exists(fp) {
		t.Error("Exists() on empty store should be false")
	}
}

func TestDirStoreNewScratch(t *testing.T) {
	s := NewDirStore(filepath.Join(t.TempDir(), ".spyn"))

	a, err := s.NewScratch()
	if err != nil {
		t.Fatalf("NewScratch failed: %v", err)
	}
	b, err := s.NewScratch()
	if err != nil {
		t.Fatalf("NewScratch failed: %v", err)
	}
	if a == b {
		t.Error("scratch directories must be unique")
	}
	if filepath.Dir(a) != filepath.Join(s.Root(), ScratchDirName) {
		t.Errorf("scratch %q should live under %s", a, ScratchDirName)
	}
	info, err := os.Stat(a)
	if err != nil || !info.IsDir() {
		t.Errorf("scratch directory not created: %v", err)
	}
}

func TestDirStorePublish(t *testing.T) {
	s := NewDirStore(filepath.Join(t.TempDir(), ".spyn"))
	fp := testFingerprint('b')

	scratch, err := s.NewScratch()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(scratch, "marker"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := s.Publish(scratch, fp); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if !s.Exists(fp) {
		t.Error("Exists() should be true after Publish")
	}
	if _, err := os.Stat(filepath.Join(s.Path(fp), "marker")); err != nil {
		t.Error("published directory should carry scratch contents")
	}
	if _, err := os.Stat(scratch); !os.IsNotExist(err) {
		t.Error("scratch directory should be gone after Publish")
	}

	// A second publish for the same fingerprint loses.
	other, err := s.NewScratch()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(other, "marker"), []byte("y"), 0644); err != nil {
		t.Fatal(err)
	}
	err = s.Publish(other, fp)
	if !errors.Is(err, ErrExists) {
		t.Errorf("second Publish error = %v, want ErrExists", err)
	}
	if !spynerrors.Is(err, spynerrors.ErrCodePublish) {
		t.Errorf("second Publish code = %v, want %v", spynerrors.GetCode(err), spynerrors.ErrCodePublish)
	}
	data, _ := os.ReadFile(filepath.Join(s.Path(fp), "marker"))
	if string(data) != "x" {
		t.Error("the first published environment must not be replaced")
	}
}

func TestDirStorePublishMissingScratch(t *testing.T) {
	s := NewDirStore(filepath.Join(t.TempDir(), ".spyn"))
	err := s.Publish(filepath.Join(t.TempDir(), "gone"), testFingerprint('c'))
	if err == nil || errors.Is(err, ErrExists) {
		t.Errorf("Publish error = %v, want plain publish failure", err)
	}
	if !spynerrors.Is(err, spynerrors.ErrCodePublish) {
		t.Errorf("code = %v, want %v", spynerrors.GetCode(err), spynerrors.ErrCodePublish)
	}
}

func TestDirStoreListRemoveClear(t *testing.T) {
	s := NewDirStore(filepath.Join(t.TempDir(), ".spyn"))

	entries, err := s.List()
	if err != nil || len(entries) != 0 {
		t.Fatalf("List() on missing root = %v, %v", entries, err)
	}

	for _, c := range []byte{'2', '1'} {
		if err := os.MkdirAll(s.Path(testFingerprint(c)), 0755); err != nil {
			t.Fatal(err)
		}
	}
	// Noise that must not be listed.
	if _, err := s.NewScratch(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Root(), "config.toml"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(s.Root(), "not-a-fingerprint"), 0755); err != nil {
		t.Fatal(err)
	}

	entries, err = s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Fingerprint != testFingerprint('1') || entries[1].Fingerprint != testFingerprint('2') {
		t.Fatalf("List() = %+v", entries)
	}

	if err := s.Remove(testFingerprint('1')); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if s.Exists(testFingerprint('1')) {
		t.Error("Remove should delete the environment")
	}
	if err := s.Remove(testFingerprint('1')); err != nil {
		t.Errorf("Remove of missing entry should succeed: %v", err)
	}
	if err := s.Remove("../etc"); !spynerrors.Is(err, spynerrors.ErrCodeInvalidInput) {
		t.Errorf("Remove of invalid fingerprint = %v, want INVALID_INPUT", err)
	}

	n, err := s.Clear()
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Clear() = %d, want 1", n)
	}
	if entries, _ := os.ReadDir(filepath.Join(s.Root(), ScratchDirName)); len(entries) != 1 {
		t.Errorf("Clear should keep the fresh scratch directory, found %d", len(entries))
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "not-a-fingerprint")); err != nil {
		t.Error("Clear must leave unrelated directories alone")
	}
}

func TestDirStoreClearKeepsActiveScratch(t *testing.T) {
	s := NewDirStore(filepath.Join(t.TempDir(), ".spyn"))

	active, err := s.NewScratch()
	if err != nil {
		t.Fatal(err)
	}
	stale, err := s.NewScratch()
	if err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-2 * ScratchStaleAfter)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("Clear should remove abandoned scratch directories")
	}
	if _, err := os.Stat(active); err != nil {
		t.Errorf("Clear must not remove a scratch directory in use: %v", err)
	}

	// The build in progress can still publish.
	fp := testFingerprint('d')
	if err := s.Publish(active, fp); err != nil {
		t.Fatalf("Publish after Clear failed: %v", err)
	}
	if !s.Exists(fp) {
		t.Error("environment should be published after Clear")
	}
}
