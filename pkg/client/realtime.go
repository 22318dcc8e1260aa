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

package client

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// Tables exposed by the change feed
const (
	TableOnlineUsers  = "online_users"
	TableActivityLogs = "activity_logs"
)

// changeEvent is one change feed message
type changeEvent struct {
	Table  string          `json:"table"`
	Type   string          `json:"type"`
	Record json.RawMessage `json:"record"`
}

// NewRealtime creates a new Realtime service
func NewRealtime(facade *Facade) *Realtime {
	return &Realtime{
		facade: facade,
		subs:   make(map[string]*websocket.Conn),
	}
}

// Realtime subscribes to the server's change feed over websocket, one
// connection per table
type Realtime struct {
	facade *Facade

	mu   sync.Mutex
	subs map[string]*websocket.Conn
}

// connect opens the change feed connection for a table
func (r *Realtime) connect(ctx context.Context, table string) (*websocket.Conn, error) {
	c, err := r.facade.GetClient(ctx)
	if err != nil {
		return nil, err
	}

	wsBase := strings.Replace(strings.Replace(c.BaseURL, "https://", "wss://", 1), "http://", "ws://", 1)
	url := wsBase + "/api/v1/realtime?table=" + table + "&apikey=" + c.apiKey

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "dialing change feed")
	}

	return conn, nil
}

// subscribe opens one connection per table and pumps its events into
// handle until the connection dies or the subscription is dropped
func (r *Realtime) subscribe(ctx context.Context, table string, handle func(changeEvent)) error {
	r.mu.Lock()
	if _, ok := r.subs[table]; ok {
		// already subscribed
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	conn, err := r.connect(ctx, table)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.subs[table] = conn
	r.mu.Unlock()

	go func() {
		defer r.Unsubscribe(table)

		for {
			var e changeEvent
			if err := conn.ReadJSON(&e); err != nil {
				return
			}

			handle(e)
		}
	}()

	return nil
}

// SubscribeOnlineUsers invokes onChange whenever the online user set
// changes. Any change type counts: the caller re-fetches the listing.
func (r *Realtime) SubscribeOnlineUsers(ctx context.Context, onChange func()) error {
	return r.subscribe(ctx, TableOnlineUsers, func(changeEvent) {
		onChange()
	})
}

// SubscribeActivity invokes onInsert for every new audit row. Only
// inserts are delivered; the audit trail is append-only.
func (r *Realtime) SubscribeActivity(ctx context.Context, onInsert func(Entry)) error {
	return r.subscribe(ctx, TableActivityLogs, func(e changeEvent) {
		if e.Type != "INSERT" {
			return
		}

		var entry Entry
		if err := json.Unmarshal(e.Record, &entry); err != nil {
			return
		}

		onInsert(entry)
	})
}

// Unsubscribe drops the subscription for a table. Dropping an absent
// subscription is a no-op.
func (r *Realtime) Unsubscribe(table string) {
	r.mu.Lock()
	conn, ok := r.subs[table]
	if ok {
		delete(r.subs, table)
	}
	r.mu.Unlock()

	if ok {
		conn.Close()
	}
}

// Close drops all subscriptions
func (r *Realtime) Close() {
	r.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(r.subs))
	for table, conn := range r.subs {
		conns = append(conns, conn)
		delete(r.subs, table)
	}
	r.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}
