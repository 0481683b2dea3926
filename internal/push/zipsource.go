package push

import (
	"archive/zip"
	"io"
	"os"
	"strings"
)

type zipSource struct {
	reader *zip.ReadCloser
}

func openZipSource(archivePath string) (Source, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	return &zipSource{reader: reader}, nil
}

func (source *zipSource) Names() (names []string, err error) {
	for _, file := range source.reader.File {
		names = append(names, file.Name)
	}
	return
}

func (source *zipSource) Walk(visit func(member Member) error) (err error) {
	for _, file := range source.reader.File {
		file := file
		mode := file.Mode()
		member := Member{
			Name:    file.Name,
			Mode:    mode,
			ModTime: file.Modified,
			IsDir:   mode.IsDir() || strings.HasSuffix(file.Name, "/"),
		}
		if mode&os.ModeSymlink != 0 {
			// A zip symlink body is the target path.
			var linkReader io.ReadCloser
			if linkReader, err = file.Open(); err != nil {
				return
			}
			var target []byte
			target, err = io.ReadAll(linkReader)
			linkReader.Close()
			if err != nil {
				return
			}
			member.LinkTarget = string(target)
		}
		if !member.IsDir {
			member.Open = func() (io.ReadCloser, error) { return file.Open() }
		}
		if err = visit(member); err != nil {
			return
		}
	}
	return
}

func (source *zipSource) OpenMember(name string) (io.ReadCloser, error) {
	for _, file := range source.reader.File {
		if file.Name == name {
			return file.Open()
		}
	}
	return nil, os.ErrNotExist
}

func (source *zipSource) Close() error {
	return source.reader.Close()
}
