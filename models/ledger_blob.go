// models/ledger_blob.go
package models

import "time"

// LedgerBlob is the durable key-value store backing the wallet ledgers.
// One row per store name (e.g. "wallet:0xabc", "earnings:0xabc"); the
// blob is the full JSON state and every save replaces it. Balance and
// earnings blobs are written independently — no transaction spans keys.
type LedgerBlob struct {
	Name      string    `gorm:"primaryKey;type:varchar(160)" json:"name"`
	Blob      []byte    `gorm:"type:bytea;not null" json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LedgerBlob) TableName() string { return "ledger_blobs" }
