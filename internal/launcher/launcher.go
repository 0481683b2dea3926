package launcher

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Launcher assembles and runs one delegated script invocation:
// resolve the interpreter, optionally select the archive to transfer,
// validate the target script, spawn, and surface the exit code.
type Launcher struct {
	// BaseDir is the directory holding the launcher, the delegated script
	// and the optional virtual environment.
	BaseDir string
	// Script is the file name of the delegated script inside BaseDir.
	Script string
	// SelectArchive injects `--archive <newest archive in BaseDir>` before
	// the pass-through arguments.
	SelectArchive bool
	Settings      Settings
	PassThrough   []string
}

// Arguments builds the delegated script argument list: the configured
// default-argument block, then the launcher-injected archive option, then
// the caller's pass-through arguments in their original order.
func (l *Launcher) Arguments(archivePath string) (args []string) {
	args = append(args, l.Settings.DefaultArgs...)
	if archivePath != "" {
		args = append(args, "--archive", archivePath)
	}
	args = append(args, l.PassThrough...)
	return
}

// Run executes the launcher sequence and returns the process exit code.
func (l *Launcher) Run() int {
	interpreter := l.Settings.Python
	if interpreter == "" {
		interpreter = ResolveInterpreter(l.BaseDir)
	}
	logrus.Debugf("Using interpreter %s", interpreter)

	archivePath := ""
	if l.SelectArchive {
		var err error
		if archivePath, err = SelectArchive(l.BaseDir); err != nil {
			logrus.Error("Cannot select an archive to transfer")
			logrus.Errorf("%+v", err)
			return ExitLauncherFailure
		}
		logrus.Infof("Selected archive %s", archivePath)
	}

	scriptPath := filepath.Join(l.BaseDir, l.Script)
	if _, err := os.Stat(scriptPath); err != nil {
		logrus.Errorf("Cannot find the delegated script %s", scriptPath)
		logrus.Errorf("%+v", err)
		return ExitLauncherFailure
	}

	exitCode, err := Invoke(interpreter, scriptPath, l.Arguments(archivePath))
	if err != nil {
		logrus.Error("Cannot start the interpreter")
		logrus.Errorf("%+v", err)
	}
	return exitCode
}
