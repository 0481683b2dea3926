package launcher_test

import (
	"bytes"
	"strings"
	"testing"

	"backline.dev/launcher/internal/launcher"
	"github.com/stretchr/testify/assert"
)

func TestParsePauseMode(t *testing.T) {
	for value, expected := range map[string]launcher.PauseMode{
		"":       launcher.AUTO,
		"auto":   launcher.AUTO,
		"always": launcher.ALWAYS,
		"never":  launcher.NEVER,
	} {
		mode, err := launcher.ParsePauseMode(value)
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, expected, mode, value)
	}
	if _, err := launcher.ParsePauseMode("sometimes"); err == nil {
		t.Fail()
	}
}

func TestShouldPause(t *testing.T) {
	assert.True(t, launcher.ShouldPause(launcher.ALWAYS, 0, false))
	assert.False(t, launcher.ShouldPause(launcher.NEVER, 1, true))
	assert.True(t, launcher.ShouldPause(launcher.AUTO, 1, true))
	assert.False(t, launcher.ShouldPause(launcher.AUTO, 0, true))
	assert.False(t, launcher.ShouldPause(launcher.AUTO, 1, false))
}

func TestPausePromptsAndWaits(t *testing.T) {
	output := &bytes.Buffer{}
	launcher.Pause(strings.NewReader("\n"), output)
	if !strings.Contains(output.String(), "ENTER") {
		t.Errorf("Prompt \"%s\" does not mention ENTER", output.String())
	}
}
