// Package journal keeps a local history of pull and push runs in a SQLite
// database under the system folder.
package journal

import (
	"github.com/sirupsen/logrus"

	"backline.dev/launcher/internal/journal/delegate"
)

type Journal struct {
	delegate delegate.JournalDelegate
}

func NewJournal(delegate delegate.JournalDelegate) (instance *Journal) {
	instance = &Journal{
		delegate: delegate,
	}
	return
}

func (journal *Journal) Initialize() (err error) {
	logrus.Debug("Connecting to the transfer journal")
	if err = journal.delegate.Open(); err != nil {
		return
	}
	logrus.Debug("Applying journal migrations")
	if err = journal.delegate.Migrate(); err != nil {
		return
	}
	return
}

// Record appends one transfer. Journal failures are logged and never fail
// the transfer itself.
func (journal *Journal) Record(transfer delegate.Transfer) {
	if err := journal.delegate.Append(transfer); err != nil {
		logrus.Error("Cannot record the transfer")
		logrus.Errorf("%+v", err)
	}
}

func (journal *Journal) History(limit int) ([]delegate.Transfer, error) {
	return journal.delegate.List(limit)
}

func (journal *Journal) Deinitialize() {
	journal.delegate.Close()
}
