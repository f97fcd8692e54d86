package ledger

import (
	"encoding/json"
	"testing"
)

func TestIDSetMarshalsAsSortedArray(t *testing.T) {
	s := NewIDSet("t3", "t1", "t2", "t1")

	blob, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(blob), `["t1","t2","t3"]`; got != want {
		t.Fatalf("marshal = %s, want %s", got, want)
	}
}

func TestIDSetRoundTrip(t *testing.T) {
	s := NewIDSet("b", "a")
	blob, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}

	var restored IDSet
	if err := json.Unmarshal(blob, &restored); err != nil {
		t.Fatal(err)
	}
	if len(restored) != 2 || !restored.Has("a") || !restored.Has("b") {
		t.Fatalf("restored set = %v", restored)
	}
}

func TestIDSetToggle(t *testing.T) {
	s := NewIDSet()
	if !s.Toggle("x") {
		t.Fatal("first toggle should add")
	}
	if !s.Has("x") {
		t.Fatal("x missing after add")
	}
	if s.Toggle("x") {
		t.Fatal("second toggle should remove")
	}
	if s.Has("x") {
		t.Fatal("x present after remove")
	}
}
