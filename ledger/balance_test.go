package ledger

import (
	"errors"
	"testing"
)

func openTestLedger(t *testing.T) *BalanceLedger {
	t.Helper()
	l, err := OpenBalanceLedger(NewMemoryStore(), "wallet:test")
	if err != nil {
		t.Fatalf("OpenBalanceLedger: %v", err)
	}
	return l
}

func TestBalanceSeededOnFirstUse(t *testing.T) {
	l := openTestLedger(t)
	if got := l.Balance(); got != "100.00" {
		t.Fatalf("seed balance = %q, want %q", got, "100.00")
	}
}

func TestBalanceNeverNegative(t *testing.T) {
	tests := []struct {
		name string
		ops  []struct {
			op     string
			amount string
		}
		want string
	}{
		{
			name: "simple add and subtract",
			ops: []struct{ op, amount string }{
				{"inc", "10.5"},
				{"dec", "30"},
			},
			want: "80.50",
		},
		{
			name: "overdraw clamps at zero",
			ops: []struct{ op, amount string }{
				{"dec", "250"},
			},
			want: "0.00",
		},
		{
			name: "clamp then keep earning",
			ops: []struct{ op, amount string }{
				{"dec", "1000"},
				{"inc", "0.1"},
				{"dec", "0.3"},
				{"inc", "5"},
			},
			want: "5.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := openTestLedger(t)
			for _, op := range tt.ops {
				var err error
				switch op.op {
				case "inc":
					err = l.Increase(op.amount)
				case "dec":
					err = l.Decrease(op.amount)
				}
				if err != nil {
					t.Fatalf("%s(%s): %v", op.op, op.amount, err)
				}
				if l.Balance()[0] == '-' {
					t.Fatalf("balance went negative: %s", l.Balance())
				}
			}
			if got := l.Balance(); got != tt.want {
				t.Fatalf("balance = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBalanceRejectsBadAmounts(t *testing.T) {
	tests := []string{"", "abc", "1.2.3", "-5", "NaN", "10 tokens"}

	for _, amount := range tests {
		t.Run(amount, func(t *testing.T) {
			l := openTestLedger(t)
			if err := l.Increase(amount); !errors.Is(err, ErrBadAmount) {
				t.Fatalf("Increase(%q) err = %v, want ErrBadAmount", amount, err)
			}
			if err := l.Decrease(amount); !errors.Is(err, ErrBadAmount) {
				t.Fatalf("Decrease(%q) err = %v, want ErrBadAmount", amount, err)
			}
			if got := l.Balance(); got != "100.00" {
				t.Fatalf("balance mutated by bad input: %q", got)
			}
		})
	}
}

func TestBalanceResetRestoresSeed(t *testing.T) {
	l := openTestLedger(t)
	if err := l.Increase("42.42"); err != nil {
		t.Fatal(err)
	}
	if err := l.Decrease("140"); err != nil {
		t.Fatal(err)
	}
	if err := l.Reset(); err != nil {
		t.Fatal(err)
	}
	if got := l.Balance(); got != "100.00" {
		t.Fatalf("balance after reset = %q, want %q", got, "100.00")
	}
}

func TestBalanceSurvivesReopen(t *testing.T) {
	store := NewMemoryStore()
	l, err := OpenBalanceLedger(store, "wallet:reopen")
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Decrease("25"); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenBalanceLedger(store, "wallet:reopen")
	if err != nil {
		t.Fatal(err)
	}
	if got := reopened.Balance(); got != "75.00" {
		t.Fatalf("reopened balance = %q, want %q", got, "75.00")
	}
}

func TestAttemptPurchase(t *testing.T) {
	l := openTestLedger(t)

	// Price above balance: rejected, no mutation.
	if err := AttemptPurchase(l, "150"); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("purchase of 150 err = %v, want ErrInsufficientBalance", err)
	}
	if got := l.Balance(); got != "100.00" {
		t.Fatalf("balance after rejected purchase = %q, want %q", got, "100.00")
	}

	// Affordable price: debited.
	if err := AttemptPurchase(l, "40"); err != nil {
		t.Fatalf("purchase of 40: %v", err)
	}
	if got := l.Balance(); got != "60.00" {
		t.Fatalf("balance after purchase = %q, want %q", got, "60.00")
	}

	// Exact balance is spendable.
	if err := AttemptPurchase(l, "60.00"); err != nil {
		t.Fatalf("purchase of 60.00: %v", err)
	}
	if got := l.Balance(); got != "0.00" {
		t.Fatalf("balance after exact spend = %q, want %q", got, "0.00")
	}

	// Malformed price never debits.
	if err := AttemptPurchase(l, "-1"); !errors.Is(err, ErrBadAmount) {
		t.Fatalf("purchase of -1 err = %v, want ErrBadAmount", err)
	}
}
