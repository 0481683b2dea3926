package push

import (
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// RemoteTarget is the slice of the SFTP surface the push engine writes
// through.
type RemoteTarget interface {
	Normalize(remotePath string) (string, error)
	MkdirAll(remotePath string) error
	Create(remotePath string) (io.WriteCloser, error)
	Symlink(target string, linkPath string) error
	Remove(remotePath string) error
	Chmod(remotePath string, mode os.FileMode) error
	Chtimes(remotePath string, modTime time.Time) error
}

// Engine unpacks one local archive onto the VM over SFTP.
type Engine struct {
	Target    RemoteTarget
	RemoteDir string
	// Routes reroute members by prefix; everything else lands under
	// RemoteDir.
	Routes []Route
	// StripTopLevel drops the single shared top level directory from every
	// member path before routing.
	StripTopLevel bool
}

// Result summarizes one finished deploy.
type Result struct {
	Files    uint
	Dirs     uint
	Symlinks uint
	Skipped  uint
	Bytes    int64
}

// Deploy streams every archive member to its destination, recreating
// directories, symlinks and unix modes, and stamping modification times.
func (engine *Engine) Deploy(source Source) (result Result, err error) {
	var defaultRoot string
	if defaultRoot, err = engine.Target.Normalize(engine.RemoteDir); err != nil {
		logrus.Error("Cannot resolve the remote folder")
		logrus.Errorf("%+v", err)
		return
	}
	if err = engine.Target.MkdirAll(defaultRoot); err != nil {
		return
	}
	logrus.Infof("Remote root: %s", defaultRoot)

	top := ""
	if engine.StripTopLevel {
		var names []string
		if names, err = source.Names(); err != nil {
			return
		}
		if top = FirstTopLevel(names); top != "" {
			logrus.Infof("Stripping top level directory: %s", top)
		}
	}

	err = source.Walk(func(member Member) error {
		rel := StripTop(NormalizeArcPath(member.Name), top)
		if rel == "" {
			return nil
		}
		remoteDir, tail := ResolveDestination(rel, engine.Routes, defaultRoot)
		destination, safe := SafeJoin(remoteDir, tail)
		if !safe || tail == "" && !member.IsDir {
			logrus.Warnf("Skipping unsafe member %s", member.Name)
			result.Skipped++
			return nil
		}

		switch {
		case member.IsDir:
			return engine.deployDir(member, destination, &result)
		case member.LinkTarget != "":
			return engine.deploySymlink(member, destination, &result)
		default:
			return engine.deployFile(member, destination, &result)
		}
	})
	if err != nil {
		return
	}
	logrus.Infof("Deployed %d files, %d dirs, %d symlinks, %d bytes",
		result.Files, result.Dirs, result.Symlinks, result.Bytes)
	return
}

func (engine *Engine) deployDir(member Member, destination string, result *Result) (err error) {
	logrus.Debugf("Creating directory %s", destination)
	if err = engine.Target.MkdirAll(destination); err != nil {
		return
	}
	if mode := member.Mode.Perm(); mode != 0 {
		if err = engine.Target.Chmod(destination, mode); err != nil {
			return
		}
	}
	result.Dirs++
	return
}

func (engine *Engine) deploySymlink(member Member, destination string, result *Result) (err error) {
	logrus.Debugf("Linking %s -> %s", destination, member.LinkTarget)
	if err = engine.Target.MkdirAll(path.Dir(destination)); err != nil {
		return
	}
	// Symlink fails when the path exists, so clear it first.
	if removeErr := engine.Target.Remove(destination); removeErr != nil && !os.IsNotExist(removeErr) {
		logrus.Debugf("Cannot remove %s: %v", destination, removeErr)
	}
	if linkErr := engine.Target.Symlink(member.LinkTarget, destination); linkErr != nil {
		// Not every SFTP server allows symlinks; store the member as a
		// regular file instead.
		logrus.Warnf("Cannot link %s, writing a regular file: %v", destination, linkErr)
		fallback := member
		if fallback.Open == nil {
			body := member.LinkTarget
			fallback.Open = func() (io.ReadCloser, error) {
				return io.NopCloser(strings.NewReader(body)), nil
			}
		}
		return engine.deployFile(fallback, destination, result)
	}
	result.Symlinks++
	return
}

func (engine *Engine) deployFile(member Member, destination string, result *Result) (err error) {
	logrus.Debugf("Putting %s", destination)
	if err = engine.Target.MkdirAll(path.Dir(destination)); err != nil {
		return
	}

	var reader io.ReadCloser
	if reader, err = member.Open(); err != nil {
		return
	}
	var writer io.WriteCloser
	if writer, err = engine.Target.Create(destination); err != nil {
		reader.Close()
		return
	}
	copied, copyErr := io.Copy(writer, reader)
	reader.Close()
	if closeErr := writer.Close(); copyErr == nil {
		copyErr = closeErr
	}
	if err = copyErr; err != nil {
		return
	}

	if mode := member.Mode.Perm(); mode != 0 {
		if err = engine.Target.Chmod(destination, mode); err != nil {
			return
		}
	}
	if !member.ModTime.IsZero() {
		if err = engine.Target.Chtimes(destination, member.ModTime); err != nil {
			return
		}
	}
	result.Files++
	result.Bytes += copied
	return
}
