package launcher

import (
	"errors"
	"os"
	"os/exec"
)

// Launcher exit codes. Anything else mirrors the delegated script.
const (
	ExitOK = 0
	// ExitSpawnFailure is used when the resolved interpreter cannot be
	// started at all.
	ExitSpawnFailure = 1
	// ExitLauncherFailure marks archive-selection and script-location
	// failures, distinguishable from any subprocess outcome.
	ExitLauncherFailure = 2
)

// Invoke spawns the interpreter against the target script with the given
// arguments, the standard streams inherited from the launcher. It blocks
// until the child exits and returns its exit code. A non-nil error means
// the child never ran.
func Invoke(interpreter string, script string, args []string) (exitCode int, err error) {
	command := exec.Command(interpreter, append([]string{script}, args...)...)
	command.Stdin = os.Stdin
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr
	if err = command.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return exitError.ExitCode(), nil
		}
		return ExitSpawnFailure, err
	}
	return ExitOK, nil
}
