package pull

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// RemoteFS is the slice of the SFTP surface the pull engine reads through.
type RemoteFS interface {
	ReadDir(remotePath string) ([]os.FileInfo, error)
	Stat(remotePath string) (os.FileInfo, error)
	Open(remotePath string) (io.ReadCloser, error)
	Normalize(remotePath string) (string, error)
}

// Engine downloads a whole remote tree into one local zip archive.
type Engine struct {
	FS        RemoteFS
	RemoteDir string
	// Exclude lists path suffixes; any remote file whose full path ends
	// with one of them is skipped.
	Exclude []string
}

// Result summarizes one finished pull.
type Result struct {
	ArchivePath string
	Files       uint
	Bytes       int64
}

// Run walks the remote tree and streams every regular file into the zip at
// archivePath, preserving modification times and unix modes in the entry
// headers.
func (engine *Engine) Run(archivePath string) (result Result, err error) {
	var remoteRoot string
	if remoteRoot, err = engine.FS.Normalize(engine.RemoteDir); err != nil {
		logrus.Error("Cannot resolve the remote folder")
		logrus.Errorf("%+v", err)
		return
	}
	logrus.Infof("Remote root: %s", remoteRoot)
	logrus.Infof("Output archive: %s", archivePath)

	var archiveFile *os.File
	if archiveFile, err = os.Create(archivePath); err != nil {
		return
	}
	defer archiveFile.Close()
	archiveWriter := zip.NewWriter(archiveFile)

	result.ArchivePath = archivePath
	if err = engine.walk(remoteRoot, func(dirPath string, fileNames []string) error {
		relDir := strings.TrimPrefix(strings.TrimPrefix(dirPath, remoteRoot), "/")
		for _, fileName := range fileNames {
			remoteFile := path.Join(dirPath, fileName)
			if engine.excluded(remoteFile) {
				logrus.Debugf("Skipping %s", remoteFile)
				continue
			}
			arcName := fileName
			if relDir != "" {
				arcName = relDir + "/" + fileName
			}
			logrus.Debugf("Getting %s -> %s", remoteFile, arcName)
			copied, copyErr := engine.addFile(archiveWriter, remoteFile, arcName)
			if copyErr != nil {
				return copyErr
			}
			result.Files++
			result.Bytes += copied
		}
		return nil
	}); err != nil {
		archiveWriter.Close()
		return
	}

	if err = archiveWriter.Close(); err != nil {
		return
	}
	logrus.Infof("Archived %d files, %d bytes", result.Files, result.Bytes)
	return
}

// walk visits the remote tree depth-first, directories and files sorted by
// name. Symlinks are classified by a Stat probe; unreadable ones are
// skipped, and directories that vanish mid-walk are ignored.
func (engine *Engine) walk(top string, visit func(dirPath string, fileNames []string) error) (err error) {
	var entries []os.FileInfo
	if entries, err = engine.FS.ReadDir(top); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return
	}

	var dirs, files []string
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case entry.IsDir():
			dirs = append(dirs, name)
		case entry.Mode().IsRegular():
			files = append(files, name)
		case entry.Mode()&os.ModeSymlink != 0:
			if target, statErr := engine.FS.Stat(path.Join(top, name)); statErr == nil {
				if target.IsDir() {
					dirs = append(dirs, name)
				} else if target.Mode().IsRegular() {
					files = append(files, name)
				}
			}
		}
	}
	sort.Strings(dirs)
	sort.Strings(files)

	if err = visit(top, files); err != nil {
		return
	}
	for _, dir := range dirs {
		if err = engine.walk(path.Join(top, dir), visit); err != nil {
			return
		}
	}
	return
}

func (engine *Engine) excluded(remoteFile string) bool {
	for _, suffix := range engine.Exclude {
		if suffix != "" && strings.HasSuffix(remoteFile, suffix) {
			return true
		}
	}
	return false
}

func (engine *Engine) addFile(archiveWriter *zip.Writer, remoteFile string, arcName string) (copied int64, err error) {
	var info os.FileInfo
	if info, err = engine.FS.Stat(remoteFile); err != nil {
		return
	}

	header := &zip.FileHeader{
		Name:     arcName,
		Method:   zip.Deflate,
		Modified: clampZipTime(info.ModTime()),
	}
	header.SetMode(info.Mode())

	var reader io.ReadCloser
	if reader, err = engine.FS.Open(remoteFile); err != nil {
		return
	}
	defer reader.Close()
	var entryWriter io.Writer
	if entryWriter, err = archiveWriter.CreateHeader(header); err != nil {
		return
	}
	return io.Copy(entryWriter, reader)
}

// The zip format cannot express timestamps before 1980.
func clampZipTime(modTime time.Time) time.Time {
	if modTime.Year() < 1980 {
		return time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return modTime
}
