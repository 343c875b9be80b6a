//go:build unix

package launch

import "syscall"

// DefaultMode is the launch mode used on this platform.
const DefaultMode = ModeExec

func (c *Command) exec() error {
	return syscall.Exec(c.Path, append([]string{c.Path}, c.Args...), c.Env)
}
