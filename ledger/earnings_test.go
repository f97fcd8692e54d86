package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
)

func openTestLog(t *testing.T) *EarningsLog {
	t.Helper()
	g, err := OpenEarningsLog(NewMemoryStore(), "earnings:test")
	if err != nil {
		t.Fatalf("OpenEarningsLog: %v", err)
	}
	return g
}

func TestRecordStreamGrantsFixedReward(t *testing.T) {
	g := openTestLog(t)

	for i := 0; i < 5; i++ {
		granted, err := g.RecordStream("track-a", "0xArtist")
		if err != nil {
			t.Fatalf("RecordStream: %v", err)
		}
		if !granted.Equal(StreamReward) {
			t.Fatalf("granted = %s, want %s", granted, StreamReward)
		}
	}
	if g.Len() != 5 {
		t.Fatalf("len = %d, want 5", g.Len())
	}
	if want := StreamReward.Mul(decimal.NewFromInt(5)); !g.Total().Equal(want) {
		t.Fatalf("total = %s, want %s", g.Total(), want)
	}
}

func TestTotalMatchesRecomputedSum(t *testing.T) {
	g := openTestLog(t)

	if _, err := g.RecordStream("t1", "0xa"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.RecordMint("t2", "0xb"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.RecordStream("t1", "0xa"); err != nil {
		t.Fatal(err)
	}

	sum := decimal.Zero
	for _, e := range g.All() {
		sum = sum.Add(e.Amount)
	}
	if !g.Total().Equal(sum) {
		t.Fatalf("incremental total %s != recomputed sum %s", g.Total(), sum)
	}
}

func TestByTrackFiltersInAppendOrder(t *testing.T) {
	g := openTestLog(t)

	if _, err := g.RecordStream("t1", "0xa"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.RecordStream("t2", "0xb"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.RecordMint("t1", "0xa"); err != nil {
		t.Fatal(err)
	}

	got := g.ByTrack("t1")
	if len(got) != 2 {
		t.Fatalf("ByTrack len = %d, want 2", len(got))
	}
	if got[0].EventType != EventStream || got[1].EventType != EventMint {
		t.Fatalf("ByTrack order = [%s, %s], want [stream, mint]", got[0].EventType, got[1].EventType)
	}
	for _, e := range got {
		if e.TrackID != "t1" {
			t.Fatalf("ByTrack returned foreign record %q", e.TrackID)
		}
	}

	// Restartable, non-destructive read: a second call is identical.
	again := g.ByTrack("t1")
	if len(again) != len(got) {
		t.Fatalf("second ByTrack len = %d, want %d", len(again), len(got))
	}
	for i := range got {
		if again[i].ID != got[i].ID {
			t.Fatalf("second ByTrack diverged at %d: %q vs %q", i, again[i].ID, got[i].ID)
		}
	}
}

func TestEarningFieldsAndMintConstant(t *testing.T) {
	g := openTestLog(t)

	granted, err := g.RecordMint("track-m", "0xArtist")
	if err != nil {
		t.Fatal(err)
	}
	if !granted.Equal(MintReward) {
		t.Fatalf("mint granted = %s, want %s", granted, MintReward)
	}

	e := g.All()[0]
	if e.TrackID != "track-m" || e.ArtistWallet != "0xArtist" || e.EventType != EventMint {
		t.Fatalf("unexpected earning: %+v", e)
	}
	if e.ID == "" || e.Timestamp <= 0 {
		t.Fatalf("earning missing id/timestamp: %+v", e)
	}
	if e.Amount.IsNegative() {
		t.Fatalf("negative earning amount: %s", e.Amount)
	}
}

func TestClearEmptiesLogAndTotal(t *testing.T) {
	g := openTestLog(t)
	if _, err := g.RecordStream("t1", "0xa"); err != nil {
		t.Fatal(err)
	}
	if err := g.Clear(); err != nil {
		t.Fatal(err)
	}
	if g.Len() != 0 {
		t.Fatalf("len after clear = %d", g.Len())
	}
	if !g.Total().Equal(decimal.Zero) {
		t.Fatalf("total after clear = %s", g.Total())
	}
}

func TestEarningsSurviveReopen(t *testing.T) {
	store := NewMemoryStore()
	g, err := OpenEarningsLog(store, "earnings:reopen")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.RecordStream("t1", "0xa"); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenEarningsLog(store, "earnings:reopen")
	if err != nil {
		t.Fatal(err)
	}
	if reopened.Len() != 1 {
		t.Fatalf("reopened len = %d, want 1", reopened.Len())
	}
	if !reopened.Total().Equal(StreamReward) {
		t.Fatalf("reopened total = %s, want %s", reopened.Total(), StreamReward)
	}
}
