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
	"sync"
	"time"
)

// HeartbeatInterval is how often a running tracker refreshes the user's
// presence row. It must stay well inside the server's online window.
const HeartbeatInterval = 60 * time.Second

// OnlineUser is one row of the online user listing
type OnlineUser struct {
	ID       int       `json:"id"`
	UserID   int       `json:"user_id"`
	Username string    `json:"username"`
	LastSeen time.Time `json:"last_seen"`
}

// NewTracker creates a presence tracker for the given user
func NewTracker(facade *Facade, userID int, username string) *Tracker {
	return &Tracker{
		facade:   facade,
		userID:   userID,
		username: username,
		interval: HeartbeatInterval,
	}
}

// Tracker keeps the user's presence row fresh with periodic heartbeats
type Tracker struct {
	facade   *Facade
	userID   int
	username string
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

type heartbeatPayload struct {
	UserID   int    `json:"userId"`
	Username string `json:"username"`
}

// Heartbeat refreshes the presence row once
func (t *Tracker) Heartbeat(ctx context.Context) error {
	c, err := t.facade.GetClient(ctx)
	if err != nil {
		return err
	}

	return c.do(ctx, "POST", "/api/v1/presence", heartbeatPayload{
		UserID:   t.userID,
		Username: t.username,
	}, nil)
}

// Start begins the heartbeat loop. Starting a running tracker is a no-op.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		return
	}

	stop := make(chan struct{})
	t.stop = stop

	go t.run(stop)
}

// Stop ends the heartbeat loop. Stopping a stopped tracker is a no-op.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop == nil {
		return
	}

	close(t.stop)
	t.stop = nil
}

func (t *Tracker) run(stop chan struct{}) {
	// mark the user online right away; the first tick is an interval out
	t.beat()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.beat()
		case <-stop:
			return
		}
	}
}

// beat sends one heartbeat with a bounded deadline. Failures are dropped:
// presence is advisory and the next tick tries again.
func (t *Tracker) beat() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t.Heartbeat(ctx)
}

// ListOnline fetches the users currently online
func ListOnline(ctx context.Context, facade *Facade) ([]OnlineUser, error) {
	c, err := facade.GetClient(ctx)
	if err != nil {
		return nil, err
	}

	var res struct {
		Users []OnlineUser `json:"users"`
		Count int          `json:"count"`
	}
	if err := c.do(ctx, "GET", "/api/v1/presence", nil, &res); err != nil {
		return nil, err
	}

	return res.Users, nil
}
