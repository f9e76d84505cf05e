// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package ledger

import "go.uber.org/zap"

// Subscribe returns a channel that receives every event committed after the
// call, and a function that ends the subscription. Delivery never blocks an
// operation: when the channel buffer is full the event is dropped for that
// subscriber, which can catch up with Events from its last seen sequence.
func (l *Ledger) Subscribe(buffer int) (<-chan EventRecord, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan EventRecord, buffer)

	l.mu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = ch
	l.mu.Unlock()

	var once bool
	cancel := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if once {
			return
		}
		once = true
		delete(l.subs, id)
		close(ch)
	}
	return ch, cancel
}

func (l *Ledger) publish(ev EventRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, ch := range l.subs {
		select {
		case ch <- ev:
		default:
			l.log.Warn("event dropped for slow subscriber",
				zap.Int("subscriber", id),
				zap.Uint64("seq", ev.Seq),
				zap.String("kind", string(ev.Kind)))
		}
	}
}
