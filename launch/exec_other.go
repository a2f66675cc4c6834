//go:build !unix

package launch

import "fmt"

// Exec is unsupported on platforms without execve.
func (s *Spec) Exec() error {
	return fmt.Errorf("process image replacement is not supported on this platform")
}
