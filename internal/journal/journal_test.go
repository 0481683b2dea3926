package journal_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"backline.dev/launcher/internal/journal"
	"backline.dev/launcher/internal/journal/delegate"
)

type fakeDelegate struct {
	opened    bool
	migrated  bool
	closed    bool
	appended  []delegate.Transfer
	appendErr error
}

func (fake *fakeDelegate) Open() error {
	fake.opened = true
	return nil
}

func (fake *fakeDelegate) Close() error {
	fake.closed = true
	return nil
}

func (fake *fakeDelegate) Migrate() error {
	fake.migrated = true
	return nil
}

func (fake *fakeDelegate) Append(transfer delegate.Transfer) error {
	if fake.appendErr != nil {
		return fake.appendErr
	}
	fake.appended = append(fake.appended, transfer)
	return nil
}

func (fake *fakeDelegate) List(limit int) ([]delegate.Transfer, error) {
	if limit > 0 && limit < len(fake.appended) {
		return fake.appended[:limit], nil
	}
	return fake.appended, nil
}

func TestInitialize(t *testing.T) {
	fake := &fakeDelegate{}
	instance := journal.NewJournal(fake)
	if err := instance.Initialize(); err != nil {
		t.Log(err)
		t.Fail()
	}
	assert.True(t, fake.opened)
	assert.True(t, fake.migrated)

	instance.Deinitialize()
	assert.True(t, fake.closed)
}

func TestRecordAndHistory(t *testing.T) {
	fake := &fakeDelegate{}
	instance := journal.NewJournal(fake)
	if err := instance.Initialize(); err != nil {
		t.Log(err)
		t.Fail()
	}

	instance.Record(delegate.Transfer{Operation: "pull", Outcome: "ok"})
	instance.Record(delegate.Transfer{Operation: "push", Outcome: "ok"})

	transfers, err := instance.History(0)
	assert.Nil(t, err)
	assert.Len(t, transfers, 2)
}

func TestRecordSwallowsDelegateFailure(t *testing.T) {
	fake := &fakeDelegate{appendErr: errors.New("disk full")}
	instance := journal.NewJournal(fake)

	instance.Record(delegate.Transfer{Operation: "pull", Outcome: "ok"})
	assert.Empty(t, fake.appended)
}
