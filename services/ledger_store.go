// services/ledger_store.go
package services

import (
	"errors"

	"github.com/GiorgyArmani/mintw4ve-sub000/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLedgerStore backs the ledger package's key-value Store contract
// with the ledger_blobs table. Saves are single-row upserts; last write
// wins, which is the documented behavior for concurrent sessions.
type GormLedgerStore struct {
	DB *gorm.DB
}

func NewGormLedgerStore(db *gorm.DB) *GormLedgerStore {
	return &GormLedgerStore{DB: db}
}

func (s *GormLedgerStore) Load(name string) ([]byte, bool, error) {
	var row models.LedgerBlob
	if err := s.DB.First(&row, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return row.Blob, true, nil
}

func (s *GormLedgerStore) Save(name string, blob []byte) error {
	row := models.LedgerBlob{Name: name, Blob: blob}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"blob", "updated_at"}),
	}).Create(&row).Error
}
