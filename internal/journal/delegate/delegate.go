package delegate

import "time"

// Transfer is one recorded pull or push run.
type Transfer struct {
	Operation  string
	Host       string
	RemoteDir  string
	Archive    string
	Files      uint
	Bytes      int64
	Outcome    string
	StartedAt  time.Time
	FinishedAt time.Time
}

type JournalDelegate interface {
	Open() error
	Close() error
	Migrate() error
	Append(transfer Transfer) error
	List(limit int) ([]Transfer, error)
}
