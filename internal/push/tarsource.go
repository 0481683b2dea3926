package push

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
)

// tarSource reopens the file for every pass, so Names, Walk and OpenMember
// each see a fresh stream.
type tarSource struct {
	archivePath string
}

func openTarSource(archivePath string) (Source, error) {
	if _, err := os.Stat(archivePath); err != nil {
		return nil, err
	}
	return &tarSource{archivePath: archivePath}, nil
}

func (source *tarSource) open() (reader *tar.Reader, closer io.Closer, err error) {
	var file *os.File
	if file, err = os.Open(source.archivePath); err != nil {
		return
	}
	lower := strings.ToLower(source.archivePath)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		var decompressed *gzip.Reader
		if decompressed, err = gzip.NewReader(file); err != nil {
			file.Close()
			return
		}
		reader = tar.NewReader(decompressed)
	case strings.HasSuffix(lower, ".tar.bz2"), strings.HasSuffix(lower, ".tbz2"):
		reader = tar.NewReader(bzip2.NewReader(file))
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		var decompressed *xz.Reader
		if decompressed, err = xz.NewReader(file); err != nil {
			file.Close()
			return
		}
		reader = tar.NewReader(decompressed)
	default:
		reader = tar.NewReader(file)
	}
	closer = file
	return
}

func (source *tarSource) Names() (names []string, err error) {
	var (
		reader *tar.Reader
		closer io.Closer
	)
	if reader, closer, err = source.open(); err != nil {
		return
	}
	defer closer.Close()
	for {
		var header *tar.Header
		if header, err = reader.Next(); err != nil {
			if err == io.EOF {
				err = nil
			}
			return
		}
		names = append(names, header.Name)
	}
}

func (source *tarSource) Walk(visit func(member Member) error) (err error) {
	var (
		reader *tar.Reader
		closer io.Closer
	)
	if reader, closer, err = source.open(); err != nil {
		return
	}
	defer closer.Close()
	for {
		var header *tar.Header
		if header, err = reader.Next(); err != nil {
			if err == io.EOF {
				err = nil
			}
			return
		}

		member := Member{
			Name:    header.Name,
			Mode:    header.FileInfo().Mode(),
			ModTime: header.ModTime,
		}
		switch header.Typeflag {
		case tar.TypeDir:
			member.IsDir = true
		case tar.TypeSymlink:
			member.LinkTarget = header.Linkname
		case tar.TypeReg:
			member.Open = func() (io.ReadCloser, error) {
				return io.NopCloser(reader), nil
			}
		default:
			continue
		}
		if member.ModTime.IsZero() {
			member.ModTime = time.Unix(0, 0)
		}
		if err = visit(member); err != nil {
			return
		}
	}
}

func (source *tarSource) OpenMember(name string) (io.ReadCloser, error) {
	reader, closer, err := source.open()
	if err != nil {
		return nil, err
	}
	for {
		header, nextErr := reader.Next()
		if nextErr != nil {
			closer.Close()
			if nextErr == io.EOF {
				return nil, os.ErrNotExist
			}
			return nil, nextErr
		}
		if header.Name == name {
			return &memberReader{reader: reader, closer: closer}, nil
		}
	}
}

func (source *tarSource) Close() error {
	return nil
}

// memberReader couples one tar member stream with the underlying file.
type memberReader struct {
	reader io.Reader
	closer io.Closer
}

func (member *memberReader) Read(buffer []byte) (int, error) {
	return member.reader.Read(buffer)
}

func (member *memberReader) Close() error {
	return member.closer.Close()
}
