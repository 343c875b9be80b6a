//go:build !unix

package launch

import "errors"

// DefaultMode is the launch mode used on this platform.
const DefaultMode = ModeSpawn

func (c *Command) exec() error {
	return errors.New("replacing the process image is not supported on this platform")
}
