// Package envcache maps requirement fingerprints to ready-to-use Python
// environments on disk.
//
// # Layout
//
//	<root>/<fingerprint>/   published environments, one per fingerprint
//	<root>/tmp/<uuid>/      scratch directories for builds in progress
//
// # Lifecycle
//
// [Manager.Ensure] computes the fingerprint of a requirement set and walks a
// small state machine:
//
//	UNKNOWN -> REUSED                          directory exists
//	UNKNOWN -> BUILDING -> PUBLISHED           built in scratch, renamed into place
//	UNKNOWN -> BUILDING -> FAILED              scratch discarded, error returned
//
// Existence of <root>/<fingerprint> is the only readiness signal. Nothing is
// written under that path until the scratch directory is renamed onto it, so
// a failed build never leaves a reusable entry behind. A directory placed
// there by something other than spyn is reused without inspection.
//
// There is no cross-process lock. Two invocations building the same
// fingerprint both run to completion; the first rename wins and the other
// discards its scratch directory and reuses the winner. Clearing the cache
// while another invocation builds leaves that build's scratch directory in
// place (only scratch directories older than [ScratchStaleAfter] are
// removed); the build then publishes into the emptied root as usual.
package envcache
