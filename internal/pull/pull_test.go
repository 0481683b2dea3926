package pull_test

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"backline.dev/launcher/internal/pull"
	"github.com/stretchr/testify/assert"
)

const TEST_FOLDER_PATH = "test"

func clearTestEnvironment() {
	os.RemoveAll(TEST_FOLDER_PATH)
}

type fakeEntry struct {
	data    []byte
	mode    os.FileMode
	modTime time.Time
	// target of a symlink entry, resolved by Stat
	linkTarget string
}

type fakeInfo struct {
	name  string
	entry fakeEntry
}

func (info fakeInfo) Name() string       { return info.name }
func (info fakeInfo) Size() int64        { return int64(len(info.entry.data)) }
func (info fakeInfo) Mode() os.FileMode  { return info.entry.mode }
func (info fakeInfo) ModTime() time.Time { return info.entry.modTime }
func (info fakeInfo) IsDir() bool        { return info.entry.mode.IsDir() }
func (info fakeInfo) Sys() interface{}   { return nil }

type fakeFS struct {
	entries map[string]fakeEntry
}

func (fs *fakeFS) children(dirPath string) (names []string) {
	for entryPath := range fs.entries {
		if path.Dir(entryPath) == dirPath {
			names = append(names, path.Base(entryPath))
		}
	}
	sort.Strings(names)
	return
}

func (fs *fakeFS) ReadDir(dirPath string) (infos []os.FileInfo, err error) {
	if entry, ok := fs.entries[dirPath]; !ok || !entry.mode.IsDir() {
		return nil, os.ErrNotExist
	}
	for _, name := range fs.children(dirPath) {
		infos = append(infos, fakeInfo{name: name, entry: fs.entries[path.Join(dirPath, name)]})
	}
	return
}

func (fs *fakeFS) Stat(entryPath string) (os.FileInfo, error) {
	entry, ok := fs.entries[entryPath]
	if !ok {
		return nil, os.ErrNotExist
	}
	if entry.mode&os.ModeSymlink != 0 {
		return fs.Stat(entry.linkTarget)
	}
	return fakeInfo{name: path.Base(entryPath), entry: entry}, nil
}

func (fs *fakeFS) Open(entryPath string) (io.ReadCloser, error) {
	entry, ok := fs.entries[entryPath]
	if !ok {
		return nil, os.ErrNotExist
	}
	if entry.mode&os.ModeSymlink != 0 {
		return fs.Open(entry.linkTarget)
	}
	return io.NopCloser(&byteReader{data: entry.data}), nil
}

func (fs *fakeFS) Normalize(entryPath string) (string, error) {
	return path.Clean(entryPath), nil
}

type byteReader struct {
	data []byte
	read int
}

func (reader *byteReader) Read(buffer []byte) (int, error) {
	if reader.read >= len(reader.data) {
		return 0, io.EOF
	}
	copied := copy(buffer, reader.data[reader.read:])
	reader.read += copied
	return copied, nil
}

func newFakeTree() *fakeFS {
	fileTime := time.Date(2024, time.March, 10, 12, 30, 0, 0, time.UTC)
	return &fakeFS{entries: map[string]fakeEntry{
		"/srv/app":            {mode: os.ModeDir | 0755},
		"/srv/app/a.txt":      {data: []byte("alpha"), mode: 0644, modTime: fileTime},
		"/srv/app/old.txt":    {data: []byte("old"), mode: 0644, modTime: time.Date(1975, time.June, 1, 0, 0, 0, 0, time.UTC)},
		"/srv/app/skip.log":   {data: []byte("noise"), mode: 0644, modTime: fileTime},
		"/srv/app/sub":        {mode: os.ModeDir | 0755},
		"/srv/app/sub/b.bin":  {data: []byte{0x1, 0x2, 0x3}, mode: 0755, modTime: fileTime},
		"/srv/app/alias.txt":  {mode: os.ModeSymlink, linkTarget: "/srv/app/a.txt"},
		"/srv/app/broken.lnk": {mode: os.ModeSymlink, linkTarget: "/srv/app/missing"},
	}}
}

func runPull(t *testing.T, engine *pull.Engine) (pull.Result, *zip.ReadCloser) {
	t.Helper()
	if err := os.MkdirAll(TEST_FOLDER_PATH, 0755); err != nil {
		t.Fatal(err)
	}
	archivePath := filepath.Join(TEST_FOLDER_PATH, "out.zip")
	result, err := engine.Run(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	return result, reader
}

func TestRunArchivesTree(t *testing.T) {
	clearTestEnvironment()
	engine := &pull.Engine{
		FS:        newFakeTree(),
		RemoteDir: "/srv/app",
		Exclude:   []string{".log"},
	}
	result, reader := runPull(t, engine)
	defer reader.Close()

	var names []string
	entries := map[string]*zip.File{}
	for _, file := range reader.File {
		names = append(names, file.Name)
		entries[file.Name] = file
	}
	sort.Strings(names)
	assert.Equal(t, []string{"a.txt", "alias.txt", "old.txt", "sub/b.bin"}, names)
	assert.Equal(t, uint(4), result.Files)
	assert.Equal(t, int64(5+3+5+3), result.Bytes)

	entryReader, err := entries["a.txt"].Open()
	if err != nil {
		t.Fatal(err)
	}
	body, err := io.ReadAll(entryReader)
	entryReader.Close()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "alpha", string(body))

	assert.Equal(t, os.FileMode(0755), entries["sub/b.bin"].Mode())
	assert.Equal(t, 2024, entries["a.txt"].Modified.Year())
	clearTestEnvironment()
}

func TestRunClampsPre1980Times(t *testing.T) {
	clearTestEnvironment()
	engine := &pull.Engine{FS: newFakeTree(), RemoteDir: "/srv/app"}
	_, reader := runPull(t, engine)
	defer reader.Close()

	for _, file := range reader.File {
		if file.Name == "old.txt" {
			assert.Equal(t, 1980, file.Modified.Year())
			clearTestEnvironment()
			return
		}
	}
	t.Error("old.txt was not archived")
}

func TestRunMissingRemoteRootIsEmptyArchive(t *testing.T) {
	clearTestEnvironment()
	engine := &pull.Engine{FS: newFakeTree(), RemoteDir: "/srv/gone"}
	result, reader := runPull(t, engine)
	defer reader.Close()
	assert.Empty(t, reader.File)
	assert.Equal(t, uint(0), result.Files)
	clearTestEnvironment()
}
