package sshlink

import (
	"io"
	"os"
	"time"

	"github.com/pkg/sftp"
)

// FS adapts the SFTP client to the narrow interfaces the pull and push
// engines consume, so the engines can be exercised against fakes.
type FS struct {
	client *sftp.Client
}

func (fs *FS) ReadDir(remotePath string) ([]os.FileInfo, error) {
	return fs.client.ReadDir(remotePath)
}

func (fs *FS) Stat(remotePath string) (os.FileInfo, error) {
	return fs.client.Stat(remotePath)
}

func (fs *FS) Open(remotePath string) (io.ReadCloser, error) {
	return fs.client.Open(remotePath)
}

// Normalize resolves the server-side canonical form of a path, the SFTP
// REALPATH operation.
func (fs *FS) Normalize(remotePath string) (string, error) {
	return fs.client.RealPath(remotePath)
}

func (fs *FS) MkdirAll(remotePath string) error {
	return fs.client.MkdirAll(remotePath)
}

func (fs *FS) Create(remotePath string) (io.WriteCloser, error) {
	return fs.client.Create(remotePath)
}

func (fs *FS) Symlink(target string, linkPath string) error {
	return fs.client.Symlink(target, linkPath)
}

func (fs *FS) Remove(remotePath string) error {
	return fs.client.Remove(remotePath)
}

func (fs *FS) Chmod(remotePath string, mode os.FileMode) error {
	return fs.client.Chmod(remotePath, mode)
}

func (fs *FS) Chtimes(remotePath string, modTime time.Time) error {
	return fs.client.Chtimes(remotePath, modTime, modTime)
}

func (fs *FS) Close() error {
	return fs.client.Close()
}
