package launcher

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/term"
)

type PauseMode int

const (
	AUTO PauseMode = iota
	ALWAYS
	NEVER
)

// ParsePauseMode maps the `--pause` flag and settings values.
func ParsePauseMode(value string) (mode PauseMode, err error) {
	switch value {
	case "", "auto":
		mode = AUTO
	case "always":
		mode = ALWAYS
	case "never":
		mode = NEVER
	default:
		err = fmt.Errorf("unknown pause mode %q", value)
	}
	return
}

// Interactive reports whether the launcher was plausibly started without a
// persistent console, i.e. double-clicked on Windows. On any other platform
// the shell survives the process, so there is nothing to keep open.
func Interactive() bool {
	return runtime.GOOS == "windows" && term.IsTerminal(int(os.Stdin.Fd()))
}

// ShouldPause decides whether to block before exiting so the user can read
// the output. AUTO pauses only on failures reached from an interactive
// start; ALWAYS and NEVER override the heuristic.
func ShouldPause(mode PauseMode, exitCode int, interactive bool) bool {
	switch mode {
	case ALWAYS:
		return true
	case NEVER:
		return false
	}
	return interactive && exitCode != ExitOK
}

// Pause prompts on out and waits for a line on in.
func Pause(in io.Reader, out io.Writer) {
	fmt.Fprint(out, "Press ENTER to close...")
	bufio.NewReader(in).ReadString('\n')
}
