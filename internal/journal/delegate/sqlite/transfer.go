package sqlite

import (
	"time"

	"backline.dev/launcher/internal/journal/delegate"
)

type Transfer struct {
	Id         uint      `gorm:"primaryKey"`
	Operation  string    `gorm:"not null"`
	Host       string    `gorm:"not null"`
	RemoteDir  string
	Archive    string    `gorm:"not null"`
	Files      uint      `gorm:"not null"`
	Bytes      int64     `gorm:"not null"`
	Outcome    string    `gorm:"not null"`
	StartedAt  time.Time `gorm:"not null"`
	FinishedAt time.Time `gorm:"not null"`
}

func (sqliteDelegate *SQLiteDelegate) Append(transfer delegate.Transfer) error {
	if sqliteDelegate.database == nil {
		return ErrNotOpened
	}
	entity := Transfer{
		Operation:  transfer.Operation,
		Host:       transfer.Host,
		RemoteDir:  transfer.RemoteDir,
		Archive:    transfer.Archive,
		Files:      transfer.Files,
		Bytes:      transfer.Bytes,
		Outcome:    transfer.Outcome,
		StartedAt:  transfer.StartedAt,
		FinishedAt: transfer.FinishedAt,
	}
	if entityCreationTransaction := sqliteDelegate.database.Create(&entity); entityCreationTransaction.Error != nil {
		return entityCreationTransaction.Error
	}
	return nil
}

// List returns the most recent transfers first.
func (sqliteDelegate *SQLiteDelegate) List(limit int) (transfers []delegate.Transfer, err error) {
	if sqliteDelegate.database == nil {
		err = ErrNotOpened
		return
	}
	var entities []Transfer
	query := sqliteDelegate.database.Order("id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if result := query.Find(&entities); result.Error != nil {
		err = result.Error
		return
	}
	for _, entity := range entities {
		transfers = append(transfers, delegate.Transfer{
			Operation:  entity.Operation,
			Host:       entity.Host,
			RemoteDir:  entity.RemoteDir,
			Archive:    entity.Archive,
			Files:      entity.Files,
			Bytes:      entity.Bytes,
			Outcome:    entity.Outcome,
			StartedAt:  entity.StartedAt,
			FinishedAt: entity.FinishedAt,
		})
	}
	return
}
