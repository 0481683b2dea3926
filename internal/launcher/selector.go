package launcher

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoArchive is reported when the launcher directory holds no file
// eligible for transfer.
var ErrNoArchive = errors.New("no archive candidate found")

// SelectArchive picks the file the push launcher transfers when the caller
// does not name one: the most recently modified `*.zip` in dir, or the most
// recently modified regular file of any type when no zip exists. Equal
// modification times break on the lexicographically greatest name so the
// selection does not depend on directory listing order.
func SelectArchive(dir string) (selected string, err error) {
	var entries []os.DirEntry
	if entries, err = os.ReadDir(dir); err != nil {
		return
	}

	var zips, files []fs.FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		var info fs.FileInfo
		if info, err = entry.Info(); err != nil {
			return
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, info)
		if strings.EqualFold(filepath.Ext(info.Name()), ".zip") {
			zips = append(zips, info)
		}
	}

	candidates := zips
	if len(candidates) == 0 {
		candidates = files
	}
	if len(candidates) == 0 {
		err = ErrNoArchive
		return
	}

	newest := candidates[0]
	for _, candidate := range candidates[1:] {
		if candidate.ModTime().After(newest.ModTime()) ||
			(candidate.ModTime().Equal(newest.ModTime()) && candidate.Name() > newest.Name()) {
			newest = candidate
		}
	}
	return filepath.Abs(filepath.Join(dir, newest.Name()))
}
