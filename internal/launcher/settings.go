package launcher

import (
	"os"
	"path/filepath"

	"backline.dev/launcher/internal/folder"
	"github.com/BurntSushi/toml"
)

// Settings holds the per-launcher configuration stored beside the launcher
// executable. DefaultArgs is the configurable default-argument block
// injected before any pass-through argument; it ships empty.
type Settings struct {
	Python      string   `toml:"python"`
	Pause       string   `toml:"pause"`
	DefaultArgs []string `toml:"default_args"`
}

// LoadSettings reads `launcher.cfg` from baseDir. A missing file is not an
// error: the defaults are written back so the knobs are discoverable, the
// way the system configuration file is seeded on first run.
func LoadSettings(baseDir string) (settings Settings, err error) {
	settings.Pause = "auto"
	settingsPath := filepath.Join(baseDir, folder.LauncherSettingsName)
	if _, statErr := os.Stat(settingsPath); os.IsNotExist(statErr) {
		err = writeSettings(settingsPath, settings)
		return
	}
	var settingsData []byte
	if settingsData, err = os.ReadFile(settingsPath); err != nil {
		return
	}
	err = toml.Unmarshal(settingsData, &settings)
	return
}

func writeSettings(settingsPath string, settings Settings) (err error) {
	var file *os.File
	if file, err = os.OpenFile(settingsPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644); err != nil {
		return
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(settings)
}
