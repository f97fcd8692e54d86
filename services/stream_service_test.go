package services

import (
	"testing"
	"time"

	"github.com/GiorgyArmani/mintw4ve-sub000/ledger"
)

func TestSweepStaleSessions(t *testing.T) {
	s := &StreamService{sessions: make(map[string]*listenSession)}

	now := time.Now()
	s.sessions["fresh"] = &listenSession{
		ID: "fresh", Wallet: "0xbob",
		Trigger:  ledger.NewRewardTrigger("0xbob"),
		LastSeen: now.Add(-10 * time.Minute),
	}
	s.sessions["stale"] = &listenSession{
		ID: "stale", Wallet: "0xbob",
		Trigger:  ledger.NewRewardTrigger("0xbob"),
		LastSeen: now.Add(-3 * time.Hour),
	}

	if removed := s.SweepStaleSessions(2 * time.Hour); removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, ok := s.sessions["fresh"]; !ok {
		t.Fatal("fresh session was swept")
	}
	if _, ok := s.sessions["stale"]; ok {
		t.Fatal("stale session survived")
	}
}

func TestSweepStaleSessionsEmpty(t *testing.T) {
	s := &StreamService{sessions: make(map[string]*listenSession)}
	if removed := s.SweepStaleSessions(time.Hour); removed != 0 {
		t.Fatalf("removed = %d, want 0", removed)
	}
}
