package launcher_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"backline.dev/launcher/internal/launcher"
)

func writeTimed(t *testing.T, name string, modTime time.Time) {
	t.Helper()
	fullPath := touch(t, TEST_FOLDER_PATH, name)
	if err := os.Chtimes(fullPath, modTime, modTime); err != nil {
		t.Fatal(err)
	}
}

func TestSelectNewestZip(t *testing.T) {
	clearTestEnvironment()
	now := time.Now()
	writeTimed(t, "a.zip", now.Add(-time.Hour))
	writeTimed(t, "b.zip", now)
	writeTimed(t, "newest.txt", now.Add(time.Hour))

	selected, err := launcher.SelectArchive(TEST_FOLDER_PATH)
	if err != nil {
		t.Log(err)
		t.Fail()
	}
	if filepath.Base(selected) != "b.zip" {
		t.Errorf("Selected \"%s\", not \"b.zip\"", filepath.Base(selected))
	}
	if !filepath.IsAbs(selected) {
		t.Errorf("Selected path \"%s\" is not absolute", selected)
	}
	clearTestEnvironment()
}

func TestSelectFallbackToNewestFile(t *testing.T) {
	clearTestEnvironment()
	now := time.Now()
	writeTimed(t, "notes.txt", now.Add(-time.Hour))
	writeTimed(t, "report.txt", now)

	selected, err := launcher.SelectArchive(TEST_FOLDER_PATH)
	if err != nil {
		t.Log(err)
		t.Fail()
	}
	if filepath.Base(selected) != "report.txt" {
		t.Errorf("Selected \"%s\", not \"report.txt\"", filepath.Base(selected))
	}
	clearTestEnvironment()
}

func TestSelectBreaksTiesByName(t *testing.T) {
	clearTestEnvironment()
	sharedTime := time.Now().Truncate(time.Second)
	writeTimed(t, "a.zip", sharedTime)
	writeTimed(t, "b.zip", sharedTime)

	selected, err := launcher.SelectArchive(TEST_FOLDER_PATH)
	if err != nil {
		t.Log(err)
		t.Fail()
	}
	if filepath.Base(selected) != "b.zip" {
		t.Errorf("Selected \"%s\", not \"b.zip\"", filepath.Base(selected))
	}
	clearTestEnvironment()
}

func TestSelectIgnoresDirectories(t *testing.T) {
	clearTestEnvironment()
	if err := os.MkdirAll(filepath.Join(TEST_FOLDER_PATH, "folder.zip"), 0755); err != nil {
		t.Fatal(err)
	}
	writeTimed(t, "real.zip", time.Now())

	selected, err := launcher.SelectArchive(TEST_FOLDER_PATH)
	if err != nil {
		t.Log(err)
		t.Fail()
	}
	if filepath.Base(selected) != "real.zip" {
		t.Errorf("Selected \"%s\", not \"real.zip\"", filepath.Base(selected))
	}
	clearTestEnvironment()
}

func TestSelectEmptyDirectory(t *testing.T) {
	clearTestEnvironment()
	if err := os.MkdirAll(TEST_FOLDER_PATH, 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := launcher.SelectArchive(TEST_FOLDER_PATH); !errors.Is(err, launcher.ErrNoArchive) {
		t.Errorf("Expected ErrNoArchive, got %v", err)
	}
	clearTestEnvironment()
}

func TestSelectMissingDirectory(t *testing.T) {
	clearTestEnvironment()
	if _, err := launcher.SelectArchive(TEST_FOLDER_PATH); err == nil {
		t.Fail()
	}
}
