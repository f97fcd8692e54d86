package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SeedBalance is the starting balance granted on first use of a wallet.
const SeedBalance = "100.00"

var (
	// ErrBadAmount is returned for amounts that are not parseable
	// non-negative decimals. Nothing is mutated in that case.
	ErrBadAmount = errors.New("amount must be a non-negative decimal")

	// ErrInsufficientBalance is returned by AttemptPurchase when the
	// balance does not cover the price. Nothing is mutated in that case.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// BalanceLedger tracks a single spendable token quantity per store name.
// The balance is kept as an exact decimal and rendered as a fixed
// 2-decimal string. Decreases clamp at zero; there is no upper bound.
// Every mutation flushes the full state to the backing Store.
type BalanceLedger struct {
	store   Store
	name    string
	balance decimal.Decimal
}

type balanceBlob struct {
	Balance string `json:"balance"`
}

// OpenBalanceLedger loads the persisted balance for name, seeding it with
// SeedBalance when no prior state exists.
func OpenBalanceLedger(store Store, name string) (*BalanceLedger, error) {
	l := &BalanceLedger{store: store, name: name}

	blob, ok, err := store.Load(name)
	if err != nil {
		return nil, fmt.Errorf("load balance %q: %w", name, err)
	}
	if !ok {
		l.balance = decimal.RequireFromString(SeedBalance)
		if err := l.flush(); err != nil {
			return nil, err
		}
		return l, nil
	}

	var state balanceBlob
	if err := json.Unmarshal(blob, &state); err != nil {
		return nil, fmt.Errorf("decode balance %q: %w", name, err)
	}
	bal, err := decimal.NewFromString(state.Balance)
	if err != nil {
		return nil, fmt.Errorf("decode balance %q: %w", name, err)
	}
	l.balance = bal
	return l, nil
}

// Balance returns the current balance as a fixed 2-decimal string.
func (l *BalanceLedger) Balance() string {
	return l.balance.StringFixed(2)
}

// Increase adds amount to the balance. No upper bound.
func (l *BalanceLedger) Increase(amount string) error {
	d, err := ParseAmount(amount)
	if err != nil {
		return err
	}
	l.balance = l.balance.Add(d)
	return l.flush()
}

// Decrease subtracts amount from the balance, flooring the result at
// zero. Overdrawing silently zeroes the balance rather than failing.
func (l *BalanceLedger) Decrease(amount string) error {
	d, err := ParseAmount(amount)
	if err != nil {
		return err
	}
	l.balance = l.balance.Sub(d)
	if l.balance.IsNegative() {
		l.balance = decimal.Zero
	}
	return l.flush()
}

// Reset restores the balance to SeedBalance.
func (l *BalanceLedger) Reset() error {
	l.balance = decimal.RequireFromString(SeedBalance)
	return l.flush()
}

// AttemptPurchase gates a spend on the available balance: when the
// balance covers price the ledger is debited, otherwise
// ErrInsufficientBalance is returned and nothing changes.
func AttemptPurchase(l *BalanceLedger, price string) error {
	d, err := ParseAmount(price)
	if err != nil {
		return err
	}
	if l.balance.LessThan(d) {
		return ErrInsufficientBalance
	}
	l.balance = l.balance.Sub(d)
	return l.flush()
}

func (l *BalanceLedger) flush() error {
	blob, err := json.Marshal(balanceBlob{Balance: l.balance.StringFixed(2)})
	if err != nil {
		return err
	}
	return l.store.Save(l.name, blob)
}

// ParseAmount parses a decimal amount string, rejecting malformed and
// negative input so bad values never corrupt a balance.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, ErrBadAmount
	}
	return d, nil
}
