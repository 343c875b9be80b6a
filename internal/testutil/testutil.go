// Package testutil provides helpers shared by spyn's tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// fakeUVScript mimics the parts of uv that spyn drives. Every invocation is
// appended to $FAKE_UV_LOG as one line. "venv" creates DIR/bin/python, which
// runs `-c CODE` as shell code and otherwise exits 0. "pip" fails when
// $FAKE_UV_FAIL_INSTALL is set, "venv" when $FAKE_UV_FAIL_VENV is.
const fakeUVScript = `#!/bin/sh
if [ -n "$FAKE_UV_LOG" ]; then
  printf '%s|VIRTUAL_ENV=%s|PWD=%s\n' "$*" "$VIRTUAL_ENV" "$(pwd)" >> "$FAKE_UV_LOG"
fi
case "$1" in
  venv)
    [ -n "$FAKE_UV_FAIL_VENV" ] && exit 3
    for last; do :; done
    mkdir -p "$last/bin" && printf '#!/bin/sh\n[ "$1" = "-c" ] && exec /bin/sh "$@"\nexit 0\n' > "$last/bin/python" && chmod +x "$last/bin/python"
    ;;
  pip)
    [ -n "$FAKE_UV_FAIL_INSTALL" ] && exit 2
    ;;
esac
exit 0
`

// FakeUV writes a fake uv executable into a fresh directory and returns its
// path. Invocations are logged to the returned log file. Tests calling this
// are skipped on Windows.
func FakeUV(t testing.TB) (bin, logPath string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake uv is a POSIX shell script")
	}

	dir := t.TempDir()
	bin = filepath.Join(dir, "uv")
	if err := os.WriteFile(bin, []byte(fakeUVScript), 0755); err != nil {
		t.Fatalf("write fake uv: %v", err)
	}
	logPath = filepath.Join(dir, "uv.log")
	t.Setenv("FAKE_UV_LOG", logPath)
	t.Setenv("FAKE_UV_FAIL_VENV", "")
	t.Setenv("FAKE_UV_FAIL_INSTALL", "")
	t.Setenv("VIRTUAL_ENV", "")
	return bin, logPath
}

// UVCalls returns the logged fake uv invocations, one per element.
func UVCalls(t testing.TB, logPath string) []string {
	t.Helper()
	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read fake uv log: %v", err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

// SetHomeDir points the platform's home directory variable at dir for the
// duration of the test.
func SetHomeDir(t testing.TB, dir string) {
	t.Helper()
	switch runtime.GOOS {
	case "windows":
		t.Setenv("USERPROFILE", dir)
	default:
		t.Setenv("HOME", dir)
	}
}
