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
	"time"
)

// Activity types recorded by the client
const (
	ActivityLogin      = "LOGIN"
	ActivityLogout     = "LOGOUT"
	ActivityNavigation = "NAVIGATION"
	ActivityPageUnload = "PAGE_UNLOAD"
)

// Entry is one audit row as served by the activity endpoints
type Entry struct {
	ID           int             `json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	UserID       int             `json:"user_id"`
	ActivityType string          `json:"activity_type"`
	Description  string          `json:"description"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	User         *EntryUser      `json:"user,omitempty"`
}

// EntryUser is the username enrichment on a recent activity row
type EntryUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	NIK      string `json:"nik"`
}

// NewActivity creates a new Activity service
func NewActivity(facade *Facade) *Activity {
	return &Activity{facade: facade}
}

// Activity records and reads the audit trail
type Activity struct {
	facade *Facade
}

type activityPayload struct {
	UserID       int         `json:"userId"`
	ActivityType string      `json:"activityType"`
	Description  string      `json:"description"`
	Metadata     interface{} `json:"metadata,omitempty"`
}

// Log records one audit row
func (a *Activity) Log(ctx context.Context, userID int, activityType, description string, metadata interface{}) error {
	c, err := a.facade.GetClient(ctx)
	if err != nil {
		return err
	}

	return c.do(ctx, "POST", "/api/v1/activity", activityPayload{
		UserID:       userID,
		ActivityType: activityType,
		Description:  description,
		Metadata:     metadata,
	}, nil)
}

// TrackNavigation records the user opening a menu
func (a *Activity) TrackNavigation(ctx context.Context, userID int, menu string) error {
	return a.Log(ctx, userID, ActivityNavigation, "Accessed "+menu, map[string]string{"menu": menu})
}

// Recent fetches the latest audit rows across all users
func (a *Activity) Recent(ctx context.Context, limit int) ([]Entry, error) {
	c, err := a.facade.GetClient(ctx)
	if err != nil {
		return nil, err
	}

	var res struct {
		Activities []Entry `json:"activities"`
	}
	path := fmt.Sprintf("/api/v1/activity?limit=%d", limit)
	if err := c.do(ctx, "GET", path, nil, &res); err != nil {
		return nil, err
	}

	return res.Activities, nil
}

// ForUser fetches the latest audit rows for one user
func (a *Activity) ForUser(ctx context.Context, userID, limit int) ([]Entry, error) {
	c, err := a.facade.GetClient(ctx)
	if err != nil {
		return nil, err
	}

	var res struct {
		Activities []Entry `json:"activities"`
	}
	path := fmt.Sprintf("/api/v1/users/%d/activity?limit=%d", userID, limit)
	if err := c.do(ctx, "GET", path, nil, &res); err != nil {
		return nil, err
	}

	return res.Activities, nil
}

// flushTimeout bounds the page-unload report. The page is going away;
// a slow server must not hold it up.
const flushTimeout = 2 * time.Second

// FlushOnExit records that the user closed the page. It blocks for at
// most the flush timeout and drops the row on failure.
func (a *Activity) FlushOnExit(userID int) {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	a.Log(ctx, userID, ActivityPageUnload, "User closed the page", nil)
}
