package launcher

import (
	"os"
	"path/filepath"
)

// ExecutableDir locates the directory holding the running launcher binary,
// resolving symlinks so the delegated script is searched next to the real
// file.
func ExecutableDir() (baseDir string, err error) {
	var executablePath string
	if executablePath, err = os.Executable(); err != nil {
		return
	}
	if resolvedPath, resolveErr := filepath.EvalSymlinks(executablePath); resolveErr == nil {
		executablePath = resolvedPath
	}
	baseDir = filepath.Dir(executablePath)
	return
}
