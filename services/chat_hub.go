// services/chat_hub.go
package services

import (
	"sync"

	"github.com/GiorgyArmani/mintw4ve-sub000/models"
)

// chatHub fans new messages out to in-process subscribers keyed by
// receiver wallet. Subscribe hands back an explicit unsubscribe so the
// consuming stream can release its slot when the connection closes.
type chatHub struct {
	mu   sync.Mutex
	subs map[string]map[chan models.Message]struct{}
}

func newChatHub() *chatHub {
	return &chatHub{subs: make(map[string]map[chan models.Message]struct{})}
}

// Subscribe registers for messages addressed to wallet. The returned
// cancel func must be called exactly once; after it returns the channel
// receives nothing more.
func (h *chatHub) Subscribe(wallet string) (<-chan models.Message, func()) {
	ch := make(chan models.Message, 16)

	h.mu.Lock()
	if h.subs[wallet] == nil {
		h.subs[wallet] = make(map[chan models.Message]struct{})
	}
	h.subs[wallet][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[wallet]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, wallet)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers msg to every subscriber of its receiver. Slow
// subscribers are skipped rather than blocking the sender; they catch
// up from the DB on reconnect.
func (h *chatHub) Publish(msg models.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[msg.Receiver] {
		select {
		case ch <- msg:
		default:
		}
	}
}
