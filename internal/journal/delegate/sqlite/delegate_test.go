package sqlite_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"backline.dev/launcher/internal/journal/delegate"
	"backline.dev/launcher/internal/journal/delegate/sqlite"
)

const TEST_FOLDER_PATH = "test"

func clearTestEnvironment() {
	os.RemoveAll(TEST_FOLDER_PATH)
}

func TestOpenAndClose(t *testing.T) {
	clearTestEnvironment()
	s := sqlite.SQLiteDelegate{
		BasePath: TEST_FOLDER_PATH,
	}
	if err := s.Open(); err != nil {
		t.Log(err)
		t.Fail()
	}
	s.Close()
	clearTestEnvironment()
}

func TestOpenAfterFirstCreation(t *testing.T) {
	clearTestEnvironment()
	s := sqlite.SQLiteDelegate{
		BasePath: TEST_FOLDER_PATH,
	}
	if err := s.Open(); err != nil {
		t.Log(err)
		t.Fail()
	}
	s.Close()
	if err := s.Open(); err != nil {
		t.Log(err)
		t.Fail()
	}
	s.Close()
	clearTestEnvironment()
}

func TestMigrate(t *testing.T) {
	clearTestEnvironment()
	s := sqlite.SQLiteDelegate{
		BasePath: TEST_FOLDER_PATH,
	}
	if err := s.Open(); err != nil {
		t.Log(err)
		t.Fail()
	}
	if err := s.Migrate(); err != nil {
		t.Log(err)
		t.Fail()
	}
	s.Close()
	clearTestEnvironment()
}

func TestFailMigration(t *testing.T) {
	clearTestEnvironment()
	s := sqlite.SQLiteDelegate{
		BasePath: TEST_FOLDER_PATH,
	}
	if err := s.Migrate(); err == nil {
		t.Fail()
	}
}

func TestFailClose(t *testing.T) {
	s := sqlite.SQLiteDelegate{
		BasePath: TEST_FOLDER_PATH,
	}
	if err := s.Close(); err == nil {
		t.Fail()
	}
}

func TestAppendAndList(t *testing.T) {
	clearTestEnvironment()
	s := sqlite.SQLiteDelegate{
		BasePath: TEST_FOLDER_PATH,
	}
	if err := s.Open(); err != nil {
		t.Log(err)
		t.Fail()
	}
	if err := s.Migrate(); err != nil {
		t.Fail()
	}

	startedAt := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	if err := s.Append(delegate.Transfer{
		Operation:  "pull",
		Host:       "vm.example.net",
		RemoteDir:  "/srv/app",
		Archive:    "bl-backup-2024-03-01.zip",
		Files:      42,
		Bytes:      1024,
		Outcome:    "ok",
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(time.Minute),
	}); err != nil {
		t.Log(err)
		t.Fail()
	}
	if err := s.Append(delegate.Transfer{
		Operation: "push",
		Host:      "vm.example.net",
		Archive:   "bundle.zip",
		Outcome:   "failed",
		StartedAt: startedAt.Add(time.Hour),
	}); err != nil {
		t.Log(err)
		t.Fail()
	}

	if transfers, err := s.List(0); err != nil {
		t.Log(err)
		t.Fail()
	} else {
		assert.Len(t, transfers, 2)
		assert.Equal(t, "push", transfers[0].Operation)
		assert.Equal(t, "pull", transfers[1].Operation)
		assert.Equal(t, uint(42), transfers[1].Files)
		assert.Equal(t, int64(1024), transfers[1].Bytes)
		assert.Equal(t, "ok", transfers[1].Outcome)
	}

	if transfers, err := s.List(1); err != nil {
		t.Log(err)
		t.Fail()
	} else {
		assert.Len(t, transfers, 1)
		assert.Equal(t, "push", transfers[0].Operation)
	}

	s.Close()
	clearTestEnvironment()
}
