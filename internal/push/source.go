package push

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Member is one archive entry as seen by the deploy loop.
type Member struct {
	// Name is the raw member path as stored in the archive.
	Name    string
	Mode    os.FileMode
	ModTime time.Time
	IsDir   bool
	// LinkTarget is non-empty for symlink members.
	LinkTarget string
	// Open streams the member body. Only valid until the visit callback
	// returns; nil for directories.
	Open func() (io.ReadCloser, error)
}

// Source iterates one local archive. Implementations exist for zip and for
// the tar family.
type Source interface {
	// Names lists every member path.
	Names() ([]string, error)
	// Walk visits every member in archive order.
	Walk(visit func(member Member) error) error
	// OpenMember streams one member by its raw name.
	OpenMember(name string) (io.ReadCloser, error)
	Close() error
}

// UnsupportedArchiveError marks archive types the push engine cannot read.
type UnsupportedArchiveError struct {
	Name string
}

func (err *UnsupportedArchiveError) Error() string {
	return fmt.Sprintf("unsupported archive type: %s", err.Name)
}

// OpenSource picks the reader matching the archive extension.
func OpenSource(archivePath string) (source Source, err error) {
	lower := strings.ToLower(archivePath)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return openZipSource(archivePath)
	case strings.HasSuffix(lower, ".tar"),
		strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"),
		strings.HasSuffix(lower, ".tar.bz2"), strings.HasSuffix(lower, ".tbz2"),
		strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return openTarSource(archivePath)
	}
	err = &UnsupportedArchiveError{Name: archivePath}
	return
}
