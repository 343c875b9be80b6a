package cli

import (
	"os"

	"github.com/charmbracelet/log"

	spynerrors "github.com/matzehuels/spyn/pkg/errors"
	"github.com/matzehuels/spyn/pkg/reqs"
)

// assembleRequirements collects the requirement set for a run. Sources are
// applied in order: --dep values, the front-end's own packages, inline
// markers of the first positional argument, then requirements files.
func assembleRequirements(opts *runOptions, args []string, logger *log.Logger) (*reqs.Set, error) {
	set := reqs.New()
	set.Extend(opts.deps)

	if opts.ipython {
		set.Add("ipython")
	}
	if opts.notebook {
		set.Extend([]string{"jupyter", "notebook"})
	}

	if len(args) > 0 {
		if err := appendScriptMarkers(set, args[0], logger); err != nil {
			return nil, err
		}
	}

	for _, path := range opts.reqFiles {
		if err := set.ReadFile(path); err != nil {
			return nil, spynerrors.Wrap(spynerrors.ErrCodeIO, err, "failed reading requirements file %s", path)
		}
		logger.Debug("read requirements file", "path", path)
	}

	return set, nil
}

// appendScriptMarkers parses path for marked imports when it names a regular
// file. Anything else (a module name, a flag, a missing path) is left for
// the interpreter.
func appendScriptMarkers(set *reqs.Set, path string, logger *log.Logger) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		logger.Debug("first argument is not a script, skipping marker scan", "arg", path)
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return spynerrors.Wrap(spynerrors.ErrCodeIO, err, "failed opening script %s", path)
	}
	defer f.Close()

	before := set.Len()
	if err := set.ParseAndAppend(f); err != nil {
		return spynerrors.Wrap(spynerrors.ErrCodeIO, err, "failed reading script %s", path)
	}
	logger.Debug("parsed script markers", "path", path, "added", set.Len()-before)
	return nil
}
