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
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matcal/matcal/pkg/assert"
)

func TestHeartbeat(t *testing.T) {
	var beats int32
	server := newAPIServer(t, map[string]http.HandlerFunc{
		"/api/v1/presence": func(w http.ResponseWriter, r *http.Request) {
			var payload struct {
				UserID   int    `json:"userId"`
				Username string `json:"username"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Error(err)
			}
			if payload.UserID != 7 || payload.Username != "alice" {
				t.Errorf("unexpected payload: %+v", payload)
			}

			atomic.AddInt32(&beats, 1)
			w.WriteHeader(http.StatusNoContent)
		},
	})
	defer server.Close()

	tracker := NewTracker(NewFacade(server.URL+"/api/config"), 7, "alice")

	if err := tracker.Heartbeat(context.Background()); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, atomic.LoadInt32(&beats), int32(1), "beat count mismatch")
}

func TestTrackerStartStop(t *testing.T) {
	var beats int32
	server := newAPIServer(t, map[string]http.HandlerFunc{
		"/api/v1/presence": func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&beats, 1)
			w.WriteHeader(http.StatusNoContent)
		},
	})
	defer server.Close()

	tracker := NewTracker(NewFacade(server.URL+"/api/config"), 7, "alice")

	tracker.Start()
	// a second start must not spawn a second loop
	tracker.Start()

	// the loop beats once immediately on start
	deadline := time.Now().Add(5 * time.Second)
	for atomic.LoadInt32(&beats) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no heartbeat after start")
		}
		time.Sleep(10 * time.Millisecond)
	}

	tracker.Stop()
	// stopping twice is a no-op
	tracker.Stop()

	assert.Equal(t, atomic.LoadInt32(&beats), int32(1), "a duplicate start must not double the heartbeats")
}

func TestListOnline(t *testing.T) {
	server := newAPIServer(t, map[string]http.HandlerFunc{
		"/api/v1/presence": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"users":[{"id":1,"user_id":7,"username":"alice"},{"id":2,"user_id":8,"username":"bob"}],"count":2}`)
		},
	})
	defer server.Close()

	users, err := ListOnline(context.Background(), NewFacade(server.URL+"/api/config"))
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, len(users), 2, "user count mismatch")
	assert.Equal(t, users[0].Username, "alice", "username mismatch")
}
