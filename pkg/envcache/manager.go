package envcache

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spyn/pkg/builder"
	spynerrors "github.com/matzehuels/spyn/pkg/errors"
	"github.com/matzehuels/spyn/pkg/observability"
	"github.com/matzehuels/spyn/pkg/reqs"
)

// State is a step of the environment lifecycle.
type State int

const (
	StateUnknown State = iota
	StateReused
	StateBuilding
	StatePublished
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReused:
		return "reused"
	case StateBuilding:
		return "building"
	case StatePublished:
		return "published"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Environment is a ready environment returned by Ensure.
type Environment struct {
	Fingerprint string
	Path        string
	// State is StateReused or StatePublished.
	State State
}

// Manager decides between reusing and building environments.
type Manager struct {
	Store   Store
	Builder builder.Builder
	Logger  *log.Logger
	Hooks   observability.CacheHooks
}

// NewManager creates a manager. A nil logger means log.Default().
func NewManager(store Store, b builder.Builder, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		Store:   store,
		Builder: b,
		Logger:  logger,
		Hooks:   observability.NoopCacheHooks{},
	}
}

// Ensure returns the environment for set and opts.Python, building and
// publishing it first if it does not exist yet.
func (m *Manager) Ensure(ctx context.Context, set *reqs.Set, opts builder.Options) (*Environment, error) {
	hooks := observability.CacheOrNoop(m.Hooks)
	fp := set.Fingerprint(opts.Python)
	path := m.Store.Path(fp)

	if m.Store.Exists(fp) {
		m.Logger.Debug("using existing virtualenv dir", "path", path)
		hooks.OnReuse(ctx, fp, path)
		return &Environment{Fingerprint: fp, Path: path, State: StateReused}, nil
	}

	m.Logger.Debug("environment missing", "fingerprint", fp, "state", StateBuilding, "requirements", set.Sorted())
	hooks.OnBuildStart(ctx, fp, set.Len())
	start := time.Now()

	env, err := m.build(ctx, set, fp, opts)
	hooks.OnBuildComplete(ctx, fp, time.Since(start), err)
	if err != nil {
		m.Logger.Debug("build failed", "fingerprint", fp, "state", StateFailed)
		return nil, err
	}
	m.Logger.Debug("virtualenv preparation complete", "path", env.Path, "state", env.State)
	return env, nil
}

func (m *Manager) build(ctx context.Context, set *reqs.Set, fp string, opts builder.Options) (*Environment, error) {
	scratch, err := m.Store.NewScratch()
	if err != nil {
		return nil, phase(spynerrors.ErrCodeIO, err, "prepare build directory")
	}
	m.Logger.Debug("building in scratch directory", "path", scratch)

	published := false
	defer func() {
		if !published {
			m.discard(scratch)
		}
	}()

	if err := m.Builder.Create(ctx, scratch, opts); err != nil {
		return nil, phase(spynerrors.ErrCodeBuild, err, "create environment")
	}

	manifest, err := set.WriteManifest(scratch)
	if err != nil {
		return nil, spynerrors.Wrap(spynerrors.ErrCodeIO, err, "failed writing requirements manifest")
	}
	if manifest != "" {
		if err := m.Builder.Install(ctx, scratch, manifest, opts); err != nil {
			return nil, phase(spynerrors.ErrCodeInstall, err, "install requirements")
		}
	}

	path := m.Store.Path(fp)
	if err := m.Store.Publish(scratch, fp); err != nil {
		if errors.Is(err, ErrExists) {
			m.Logger.Info("environment was published concurrently, reusing it", "path", path)
			return &Environment{Fingerprint: fp, Path: path, State: StateReused}, nil
		}
		return nil, phase(spynerrors.ErrCodePublish, err, "publish environment")
	}
	published = true

	return &Environment{Fingerprint: fp, Path: path, State: StatePublished}, nil
}

// discard removes a scratch directory. Failures are logged and never replace
// the error that caused the discard.
func (m *Manager) discard(scratch string) {
	if err := os.RemoveAll(scratch); err != nil {
		m.Logger.Warn("failed removing scratch directory", "path", scratch, "err", err)
	}
}

// phase annotates err with code unless it already carries one.
func phase(code spynerrors.Code, err error, msg string) error {
	if spynerrors.GetCode(err) != "" {
		return err
	}
	return spynerrors.Wrap(code, err, "%s", msg)
}
