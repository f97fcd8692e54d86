// models/listing.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListingKind separates priced offers from budgeted asks
type ListingKind string

const (
	ListingKindService ListingKind = "service" // priced offer (e.g. mixing, cover art)
	ListingKindRequest ListingKind = "request" // budgeted ask
)

type ListingStatus string

const (
	ListingStatusOpen   ListingStatus = "open"
	ListingStatusClosed ListingStatus = "closed"
)

// Listing is a marketplace entry, independent of the track/reward system.
// Price is in the platform token unit ($MINT).
type Listing struct {
	ID          string          `gorm:"primaryKey;type:uuid" json:"id"`
	Kind        ListingKind     `gorm:"not null;index" json:"kind"`
	OwnerWallet string          `gorm:"index;not null" json:"owner_wallet"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"price"` // budget for requests
	Status      ListingStatus   `gorm:"not null;default:'open'" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Order records a completed purchase of a service listing. The buyer's
// ledger debit happens first; the order row is written in the same
// request so a purchase is never silently unrecorded.
type Order struct {
	ID           string          `gorm:"primaryKey;type:uuid" json:"id"`
	ListingID    string          `gorm:"index;not null" json:"listing_id"`
	BuyerWallet  string          `gorm:"index;not null" json:"buyer_wallet"`
	SellerWallet string          `gorm:"not null" json:"seller_wallet"`
	Price        decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"price"`
	CreatedAt    time.Time       `json:"created_at"`
}
