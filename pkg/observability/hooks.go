// Package observability provides hooks for the environment cache lifecycle.
//
// Hooks are plain interfaces with no-op default implementations. They are
// handed to the components that emit events (the cache manager and the
// builder) as explicit fields rather than registered in package-level state,
// so a test can capture events from one manager without affecting another.
//
// # Usage
//
//	mgr := envcache.NewManager(store, b, logger)
//	mgr.Hooks = myCacheHooks{}
//
// Components call hooks around each phase:
//
//	hooks.OnBuildStart(ctx, fp, n)
//	// ... build ...
//	hooks.OnBuildComplete(ctx, fp, time.Since(start), err)
package observability

import (
	"context"
	"time"
)

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from the environment cache manager.
type CacheHooks interface {
	// OnReuse records that an environment already existed for fp.
	OnReuse(ctx context.Context, fp, path string)

	// OnBuildStart records the start of a build for fp with n requirements.
	OnBuildStart(ctx context.Context, fp string, n int)

	// OnBuildComplete records the end of a build attempt. err is nil when the
	// environment was published.
	OnBuildComplete(ctx context.Context, fp string, duration time.Duration, err error)
}

// =============================================================================
// Process Hooks
// =============================================================================

// ProcessHooks receives events from external builder invocations.
type ProcessHooks interface {
	// OnCommandStart records a subprocess about to run.
	OnCommandStart(ctx context.Context, name string, args []string)

	// OnCommandComplete records a finished subprocess. exitCode is -1 when the
	// process could not be started.
	OnCommandComplete(ctx context.Context, name string, exitCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnReuse(context.Context, string, string)                       {}
func (NoopCacheHooks) OnBuildStart(context.Context, string, int)                     {}
func (NoopCacheHooks) OnBuildComplete(context.Context, string, time.Duration, error) {}

// NoopProcessHooks is a no-op implementation of ProcessHooks.
type NoopProcessHooks struct{}

func (NoopProcessHooks) OnCommandStart(context.Context, string, []string)                {}
func (NoopProcessHooks) OnCommandComplete(context.Context, string, int, time.Duration) {}

// =============================================================================
// Defaults
// =============================================================================

// CacheOrNoop returns h, or NoopCacheHooks when h is nil.
func CacheOrNoop(h CacheHooks) CacheHooks {
	if h == nil {
		return NoopCacheHooks{}
	}
	return h
}

// ProcessOrNoop returns h, or NoopProcessHooks when h is nil.
func ProcessOrNoop(h ProcessHooks) ProcessHooks {
	if h == nil {
		return NoopProcessHooks{}
	}
	return h
}
