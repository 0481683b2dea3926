package launcher_test

import (
	"os"
	"path/filepath"
	"testing"

	"backline.dev/launcher/internal/launcher"
	"github.com/stretchr/testify/assert"
)

func TestLoadSettingsSeedsDefaults(t *testing.T) {
	clearTestEnvironment()
	if err := os.MkdirAll(TEST_FOLDER_PATH, 0755); err != nil {
		t.Fatal(err)
	}
	settings, err := launcher.LoadSettings(TEST_FOLDER_PATH)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "auto", settings.Pause)
	assert.Empty(t, settings.DefaultArgs)
	if _, err := os.Stat(filepath.Join(TEST_FOLDER_PATH, "launcher.cfg")); os.IsNotExist(err) {
		t.Error("The settings file was not seeded")
	}
	clearTestEnvironment()
}

func TestLoadSettingsReadsExisting(t *testing.T) {
	clearTestEnvironment()
	if err := os.MkdirAll(TEST_FOLDER_PATH, 0755); err != nil {
		t.Fatal(err)
	}
	settingsBody := "python = \"py\"\npause = \"never\"\ndefault_args = [\"--verbose\"]\n"
	if err := os.WriteFile(filepath.Join(TEST_FOLDER_PATH, "launcher.cfg"), []byte(settingsBody), 0644); err != nil {
		t.Fatal(err)
	}
	settings, err := launcher.LoadSettings(TEST_FOLDER_PATH)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "py", settings.Python)
	assert.Equal(t, "never", settings.Pause)
	assert.Equal(t, []string{"--verbose"}, settings.DefaultArgs)
	clearTestEnvironment()
}
