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

package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matcal/matcal/pkg/server/app"
	"github.com/matcal/matcal/pkg/server/database"
	"github.com/matcal/matcal/pkg/server/log"
	"github.com/matcal/matcal/pkg/server/realtime"
)

const (
	// writeWait is the deadline for a single websocket write
	writeWait = 10 * time.Second
	// pingPeriod is how often the server pings an idle connection. It must
	// be shorter than the client's read timeout.
	pingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the data API is origin-agnostic; access control happens via the
	// api key, not the origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewRealtime creates a new Realtime controller
func NewRealtime(app *app.App, hub *realtime.Hub) *Realtime {
	return &Realtime{app: app, hub: hub}
}

// Realtime is the change feed controller. It bridges hub subscriptions
// onto websocket connections.
type Realtime struct {
	app *app.App
	hub *realtime.Hub
}

// Subscribe handles GET /api/v1/realtime. The table query parameter picks
// which table's changes the connection receives.
func (c *Realtime) Subscribe(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Query().Get("table")
	if table != database.TableOnlineUsers && table != database.TableActivityLogs {
		respondError(w, http.StatusBadRequest, "unknown table")
		return
	}

	if c.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "change feed is not available")
		return
	}

	// subscribe before completing the handshake so events published right
	// after the client connects are not missed
	sub := c.hub.Subscribe(table)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		c.hub.Unsubscribe(sub)
		log.ErrorWrap(err, "upgrading connection")
		return
	}

	go c.pump(conn, sub)
}

// pump forwards hub events to the connection until either side goes away
func (c *Realtime) pump(conn *websocket.Conn, sub *realtime.Subscriber) {
	defer conn.Close()

	// the reader exists only to notice the client closing the connection
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				c.hub.Unsubscribe(sub)
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-sub.C:
			if !ok {
				conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
				return
			}

			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(e); err != nil {
				c.hub.Unsubscribe(sub)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.hub.Unsubscribe(sub)
				return
			}
		}
	}
}
