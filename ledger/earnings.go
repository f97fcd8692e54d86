package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EventType tags the action that produced an earning.
type EventType string

const (
	EventStream EventType = "stream"
	EventMint   EventType = "mint"
	EventCollab EventType = "collab"
	EventTip    EventType = "tip"
)

// Reward constants. The stream reward is intentionally flat per stream;
// if product wants the advertised variable range this is the one place
// to change.
var (
	StreamReward = decimal.RequireFromString("0.1")
	MintReward   = decimal.RequireFromString("1.00")
)

// Earning is a single append-only reward event.
type Earning struct {
	ID           string          `json:"id"`
	TrackID      string          `json:"track_id"`
	ArtistWallet string          `json:"artist_wallet"`
	Amount       decimal.Decimal `json:"amount"`
	Timestamp    int64           `json:"timestamp"` // milliseconds since epoch
	EventType    EventType       `json:"event_type"`
}

// EarningsLog is an insertion-ordered, append-only list of reward events
// with an incrementally maintained aggregate total. State is flushed to
// the backing Store on every append, independently of any balance blob.
type EarningsLog struct {
	store  Store
	name   string
	events []Earning
	total  decimal.Decimal
}

type earningsBlob struct {
	Events []Earning `json:"events"`
	Total  string    `json:"total"`
}

// OpenEarningsLog loads the persisted log for name, starting empty when
// no prior state exists.
func OpenEarningsLog(store Store, name string) (*EarningsLog, error) {
	g := &EarningsLog{store: store, name: name, total: decimal.Zero}

	blob, ok, err := store.Load(name)
	if err != nil {
		return nil, fmt.Errorf("load earnings %q: %w", name, err)
	}
	if !ok {
		return g, nil
	}

	var state earningsBlob
	if err := json.Unmarshal(blob, &state); err != nil {
		return nil, fmt.Errorf("decode earnings %q: %w", name, err)
	}
	total, err := decimal.NewFromString(state.Total)
	if err != nil {
		return nil, fmt.Errorf("decode earnings %q: %w", name, err)
	}
	g.events = state.Events
	g.total = total
	return g, nil
}

// RecordStream appends a stream earning for trackID credited to
// artistWallet and returns the amount actually granted.
func (g *EarningsLog) RecordStream(trackID, artistWallet string) (decimal.Decimal, error) {
	return g.record(trackID, artistWallet, StreamReward, EventStream)
}

// RecordMint appends a mint earning for trackID credited to artistWallet
// and returns the amount actually granted.
func (g *EarningsLog) RecordMint(trackID, artistWallet string) (decimal.Decimal, error) {
	return g.record(trackID, artistWallet, MintReward, EventMint)
}

func (g *EarningsLog) record(trackID, artistWallet string, amount decimal.Decimal, typ EventType) (decimal.Decimal, error) {
	now := time.Now().UnixMilli()
	e := Earning{
		ID:           fmt.Sprintf("%s-%d", trackID, now),
		TrackID:      trackID,
		ArtistWallet: artistWallet,
		Amount:       amount,
		Timestamp:    now,
		EventType:    typ,
	}
	g.events = append(g.events, e)
	g.total = g.total.Add(amount)
	if err := g.flush(); err != nil {
		return decimal.Decimal{}, err
	}
	return amount, nil
}

// ByTrack returns the earnings whose track matches, in original append
// order. The result is a fresh slice; calling repeatedly without new
// appends yields identical results.
func (g *EarningsLog) ByTrack(trackID string) []Earning {
	var out []Earning
	for _, e := range g.events {
		if e.TrackID == trackID {
			out = append(out, e)
		}
	}
	return out
}

// All returns every earning in append order.
func (g *EarningsLog) All() []Earning {
	out := make([]Earning, len(g.events))
	copy(out, g.events)
	return out
}

// Total returns the incrementally maintained sum of all recorded amounts.
func (g *EarningsLog) Total() decimal.Decimal {
	return g.total
}

// Len returns the number of recorded earnings.
func (g *EarningsLog) Len() int {
	return len(g.events)
}

// Clear empties the log and zeroes the aggregate.
func (g *EarningsLog) Clear() error {
	g.events = nil
	g.total = decimal.Zero
	return g.flush()
}

func (g *EarningsLog) flush() error {
	blob, err := json.Marshal(earningsBlob{Events: g.events, Total: g.total.String()})
	if err != nil {
		return err
	}
	return g.store.Save(g.name, blob)
}
