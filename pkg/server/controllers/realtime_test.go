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
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matcal/matcal/pkg/assert"
	"github.com/matcal/matcal/pkg/server/app"
	"github.com/matcal/matcal/pkg/server/database"
	"github.com/matcal/matcal/pkg/server/realtime"
	"github.com/matcal/matcal/pkg/server/testutils"
)

func wsURL(serverURL, table string) string {
	return strings.Replace(serverURL, "http://", "ws://", 1) + "/api/v1/realtime?table=" + table
}

func TestRealtimeRejectsUnknownTable(t *testing.T) {
	a := app.NewTest()
	a.DB = testutils.InitMemoryDB(t)

	server := MustNewServer(t, &a)
	defer server.Close()

	req, err := http.NewRequest("GET", server.URL+"/api/v1/realtime?table=users", nil)
	if err != nil {
		t.Fatal(err)
	}

	res := testutils.HTTPDo(t, req)
	assert.StatusCodeEquals(t, res, http.StatusBadRequest, "status mismatch")
}

func TestRealtimeDeliversEvents(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	user := testutils.SetupUserData(db, "1001", "alice", "alice@example.com", "secret")

	a := app.NewTest()
	a.DB = db

	server := MustNewServer(t, &a)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server.URL, database.TableActivityLogs), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if _, err := a.LogActivity(user.ID, database.ActivityTest, "connection test", nil); err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var e realtime.Event
	if err := conn.ReadJSON(&e); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, e.Table, database.TableActivityLogs, "table mismatch")
	assert.Equal(t, e.Type, realtime.EventInsert, "event type mismatch")
}

func TestRealtimeFiltersByTable(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest()
	a.DB = db

	server := MustNewServer(t, &a)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server.URL, database.TableOnlineUsers), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	// an activity insert must not reach an online_users subscriber
	user := testutils.SetupUserData(db, "1001", "alice", "alice@example.com", "secret")
	if _, err := a.LogActivity(user.ID, database.ActivityTest, "connection test", nil); err != nil {
		t.Fatal(err)
	}
	if err := a.MarkOnline(user.ID, user.Username); err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var e realtime.Event
	if err := conn.ReadJSON(&e); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, e.Table, database.TableOnlineUsers, "subscriber received an event for another table")
}
