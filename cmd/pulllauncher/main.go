package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"backline.dev/launcher/internal/launcher"
)

// Name of the delegated backup script, searched next to the launcher.
const SCRIPT_NAME = "sftp_pull_to_zip.py"

func main() {
	baseDir, err := launcher.ExecutableDir()
	if err != nil {
		logrus.Error("Cannot locate the launcher directory")
		logrus.Errorf("%+v", err)
		os.Exit(launcher.ExitLauncherFailure)
	}

	settings, err := launcher.LoadSettings(baseDir)
	if err != nil {
		logrus.Error("Cannot load the launcher settings")
		logrus.Errorf("%+v", err)
		os.Exit(launcher.ExitLauncherFailure)
	}

	options, passThrough := launcher.SplitArgs(os.Args[1:])
	if options.Pause != "" {
		settings.Pause = options.Pause
	}
	if options.Python != "" {
		settings.Python = options.Python
	}
	pauseMode, err := launcher.ParsePauseMode(settings.Pause)
	if err != nil {
		logrus.Errorf("%+v", err)
		os.Exit(launcher.ExitLauncherFailure)
	}

	instance := &launcher.Launcher{
		BaseDir:     baseDir,
		Script:      SCRIPT_NAME,
		Settings:    settings,
		PassThrough: passThrough,
	}
	exitCode := instance.Run()

	if launcher.ShouldPause(pauseMode, exitCode, launcher.Interactive()) {
		launcher.Pause(os.Stdin, os.Stdout)
	}
	os.Exit(exitCode)
}
