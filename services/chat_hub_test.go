package services

import (
	"testing"

	"github.com/GiorgyArmani/mintw4ve-sub000/models"
)

func TestChatHubDeliversToReceiver(t *testing.T) {
	hub := newChatHub()

	ch, cancel := hub.Subscribe("0xbob")
	defer cancel()

	hub.Publish(models.Message{ID: "m1", Sender: "0xalice", Receiver: "0xbob", Body: "hey"})

	select {
	case msg := <-ch:
		if msg.ID != "m1" || msg.Body != "hey" {
			t.Fatalf("got %+v, want m1/hey", msg)
		}
	default:
		t.Fatal("no message delivered to subscriber")
	}
}

func TestChatHubIgnoresOtherReceivers(t *testing.T) {
	hub := newChatHub()

	ch, cancel := hub.Subscribe("0xbob")
	defer cancel()

	hub.Publish(models.Message{ID: "m1", Sender: "0xalice", Receiver: "0xcarol", Body: "nope"})

	select {
	case msg := <-ch:
		t.Fatalf("unexpected delivery: %+v", msg)
	default:
	}
}

func TestChatHubCancelStopsDelivery(t *testing.T) {
	hub := newChatHub()

	ch, cancel := hub.Subscribe("0xbob")
	cancel()

	hub.Publish(models.Message{ID: "m1", Sender: "0xalice", Receiver: "0xbob", Body: "late"})

	select {
	case msg := <-ch:
		t.Fatalf("delivery after cancel: %+v", msg)
	default:
	}
}

func TestChatHubFanOut(t *testing.T) {
	hub := newChatHub()

	ch1, cancel1 := hub.Subscribe("0xbob")
	defer cancel1()
	ch2, cancel2 := hub.Subscribe("0xbob")
	defer cancel2()

	hub.Publish(models.Message{ID: "m1", Receiver: "0xbob", Body: "both"})

	for i, ch := range []<-chan models.Message{ch1, ch2} {
		select {
		case msg := <-ch:
			if msg.ID != "m1" {
				t.Fatalf("subscriber %d got %+v", i, msg)
			}
		default:
			t.Fatalf("subscriber %d got nothing", i)
		}
	}
}

func TestChatHubSkipsFullSubscriber(t *testing.T) {
	hub := newChatHub()

	ch, cancel := hub.Subscribe("0xbob")
	defer cancel()

	// Overfill past the channel buffer; Publish must not block
	for i := 0; i < 40; i++ {
		hub.Publish(models.Message{ID: "m", Receiver: "0xbob"})
	}

	drained := 0
	for {
		select {
		case <-ch:
			drained++
			continue
		default:
		}
		break
	}
	if drained == 0 || drained > 16 {
		t.Fatalf("drained %d messages, want 1..16", drained)
	}
}
