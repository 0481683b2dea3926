package pull

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"backline.dev/launcher/internal/folder"
)

// OutputZipPath resolves the archive destination for one pull run. outDir
// names the output directory (a path ending in .zip means its parent was
// given by mistake); empty falls back to the archives folder. The directory
// is created and the file name carries the local date.
func OutputZipPath(outDir string, day time.Time) (archivePath string, err error) {
	if outDir == "" {
		outDir = folder.ARCHIVES
	} else if strings.EqualFold(filepath.Ext(outDir), ".zip") {
		outDir = filepath.Dir(outDir)
	}
	if outDir, err = filepath.Abs(outDir); err != nil {
		return
	}
	if err = os.MkdirAll(outDir, 0755); err != nil {
		return
	}
	fileName := fmt.Sprintf("bl-backup-%s.zip", day.Format("2006-01-02"))
	archivePath = filepath.Join(outDir, fileName)
	return
}
