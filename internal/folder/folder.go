package folder

import "path/filepath"

// Well known application folders, relative to the working directory.
const (
	SYSTEM   = "system"
	ARCHIVES = "archives"
	TEMP     = "temp"
)

// JournalPath is the transfer journal database location inside the base path.
var JournalPath = filepath.Join(SYSTEM, "journal.db")

// Launcher settings file name, looked up beside the launcher executable.
const LauncherSettingsName = "launcher.cfg"
