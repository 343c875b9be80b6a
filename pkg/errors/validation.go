package errors

import (
	"strings"
	"unicode"
)

// fingerprintLen is the hex length of a SHA3-224 digest.
const fingerprintLen = 56

// ValidateFingerprint checks that fp is a well-formed environment fingerprint.
// Fingerprints name directories under the cache root, so anything other than
// lowercase hex of the right length is rejected before it reaches a path join.
func ValidateFingerprint(fp string) error {
	if fp == "" {
		return New(ErrCodeInvalidInput, "fingerprint cannot be empty")
	}
	if len(fp) != fingerprintLen {
		return New(ErrCodeInvalidInput, "fingerprint %q must be %d hex characters", fp, fingerprintLen)
	}
	for _, r := range fp {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return New(ErrCodeInvalidInput, "fingerprint %q contains non-hex character %q", fp, r)
		}
	}
	return nil
}

// ValidateExecutableName validates the name given to --exec.
// It must be a plain basename resolved inside the environment's bin directory.
//
// Validation rules:
//   - Name cannot be empty
//   - No control characters
//   - No path separators
//   - Not "." or ".."
func ValidateExecutableName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "executable name cannot be empty")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "executable name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "executable name %q cannot contain path separators", name)
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidInput, "invalid executable name %q", name)
	}

	return nil
}
