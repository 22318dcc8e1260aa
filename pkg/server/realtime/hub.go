/* Copyright 2025 Matcal Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package realtime implements the change feed: row-level change events
// fanned out to per-table subscribers.
package realtime

// Event types mirror the row operations of the underlying tables
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// Event is one row-level change notification
type Event struct {
	Table  string      `json:"table"`
	Type   string      `json:"type"`
	Record interface{} `json:"record,omitempty"`
}

// Publisher publishes change events. Implemented by Hub; a nil publisher
// on the app context disables the feed.
type Publisher interface {
	Publish(e Event)
}

// Subscriber receives events for a single table on C
type Subscriber struct {
	Table string
	C     chan Event
}

// subscriberBuffer is the per-subscriber event queue size. A subscriber
// that falls this far behind starts missing events; the feed is advisory.
const subscriberBuffer = 16

// Hub fans change events out to table subscribers
type Hub struct {
	subscribers map[*Subscriber]bool
	register    chan *Subscriber
	unregister  chan *Subscriber
	broadcast   chan Event
	done        chan struct{}
}

// NewHub creates a hub and starts its dispatch loop
func NewHub() *Hub {
	h := &Hub{
		subscribers: make(map[*Subscriber]bool),
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		broadcast:   make(chan Event),
		done:        make(chan struct{}),
	}
	go h.run()

	return h
}

func (h *Hub) run() {
	for {
		select {
		case sub := <-h.register:
			h.subscribers[sub] = true
		case sub := <-h.unregister:
			if h.subscribers[sub] {
				delete(h.subscribers, sub)
				close(sub.C)
			}
		case e := <-h.broadcast:
			for sub := range h.subscribers {
				if sub.Table != e.Table {
					continue
				}
				select {
				case sub.C <- e:
				default:
					// subscriber is not draining; skip it for this event
				}
			}
		case <-h.done:
			for sub := range h.subscribers {
				delete(h.subscribers, sub)
				close(sub.C)
			}
			return
		}
	}
}

// Subscribe registers a subscriber for change events on the given table
func (h *Hub) Subscribe(table string) *Subscriber {
	sub := &Subscriber{
		Table: table,
		C:     make(chan Event, subscriberBuffer),
	}

	select {
	case h.register <- sub:
	case <-h.done:
		close(sub.C)
	}

	return sub
}

// Unsubscribe releases the subscriber. It is a no-op if the subscriber is
// already released.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}

	select {
	case h.unregister <- sub:
	case <-h.done:
	}
}

// Publish fans the event out to the table's subscribers without blocking
// the caller
func (h *Hub) Publish(e Event) {
	select {
	case h.broadcast <- e:
	case <-h.done:
	}
}

// Close shuts down the dispatch loop and releases all subscribers
func (h *Hub) Close() {
	close(h.done)
}
