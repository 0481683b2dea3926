package launcher

import (
	"os"
	"path/filepath"
)

// DefaultInterpreter is the PATH-resolved fallback used when no virtual
// environment lives beside the launcher.
const DefaultInterpreter = "python"

// Conventional virtual environment interpreter locations, relative to the
// launcher directory. Both the Windows and the POSIX venv layouts are
// probed so the launcher behaves the same on every platform.
var venvInterpreters = [][]string{
	{".venv", "Scripts", "python.exe"},
	{"venv", "Scripts", "python.exe"},
	{".venv", "bin", "python"},
	{"venv", "bin", "python"},
}

// ResolveInterpreter returns the command used to spawn Python for the
// scripts living under baseDir. Resolution never fails: when no local
// interpreter exists the bare fallback name is returned and any spawn
// problem surfaces later from the invoker.
func ResolveInterpreter(baseDir string) string {
	for _, elements := range venvInterpreters {
		candidate := filepath.Join(append([]string{baseDir}, elements...)...)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return DefaultInterpreter
}
