//go:build unix

package launch

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Exec replaces the current process image with the workload via execve,
// keeping the process id and handing over the assembled environment. It never
// returns on success; any returned error means the workload did not start and
// the launcher must exit non-zero.
func (s *Spec) Exec() error {
	// Pre-check executability for a sharper diagnostic; execve stays the
	// authority.
	if err := unix.Access(s.Path, unix.X_OK); err != nil {
		return fmt.Errorf("workload binary %s is not executable: %w", s.Path, err)
	}

	if err := unix.Exec(s.Path, s.Args, s.Env); err != nil {
		return fmt.Errorf("execve %s: %w", s.Path, err)
	}
	return nil
}
