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

package app

import (
	"encoding/json"

	"github.com/matcal/matcal/pkg/server/database"
	"github.com/matcal/matcal/pkg/server/realtime"
	pkgErrors "github.com/pkg/errors"
)

// ActivityUser is the username enrichment attached to an audit row
type ActivityUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	NIK      string `json:"nik"`
}

// ActivityWithUser is an audit row together with its user, when the user
// still exists
type ActivityWithUser struct {
	database.ActivityLog
	User *ActivityUser `json:"user"`
}

// LogActivity appends one audit row
func (a *App) LogActivity(userID int, activityType, description string, metadata json.RawMessage) (database.ActivityLog, error) {
	if userID == 0 {
		return database.ActivityLog{}, ErrUserIDRequired
	}

	row := database.ActivityLog{
		UserID:       userID,
		ActivityType: activityType,
		Description:  description,
		Metadata:     metadata,
	}
	if err := a.DB.Create(&row).Error; err != nil {
		return database.ActivityLog{}, pkgErrors.Wrap(err, "inserting activity row")
	}

	a.publish(realtime.Event{Table: database.TableActivityLogs, Type: realtime.EventInsert, Record: row})

	return row, nil
}

// lookupActivityUsers fetches the users for the distinct user ids present
// in the given rows. A second query rather than a join: the page sizes here
// never justify more.
func (a *App) lookupActivityUsers(rows []database.ActivityLog) (map[int]ActivityUser, error) {
	seen := map[int]bool{}
	ids := []int{}
	for _, row := range rows {
		if !seen[row.UserID] {
			seen[row.UserID] = true
			ids = append(ids, row.UserID)
		}
	}

	if len(ids) == 0 {
		return map[int]ActivityUser{}, nil
	}

	var users []database.User
	if err := a.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding users for activity rows")
	}

	byID := make(map[int]ActivityUser, len(users))
	for _, u := range users {
		byID[u.ID] = ActivityUser{ID: u.ID, Username: u.Username, NIK: u.NIK}
	}

	return byID, nil
}

// ListRecentActivity returns the most recent audit rows enriched with
// usernames. A row whose user no longer exists carries a nil user instead
// of failing the whole listing.
func (a *App) ListRecentActivity(limit int) ([]ActivityWithUser, error) {
	rows := []database.ActivityLog{}
	err := a.DB.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, pkgErrors.Wrap(err, "listing activity rows")
	}

	users, err := a.lookupActivityUsers(rows)
	if err != nil {
		return nil, err
	}

	ret := make([]ActivityWithUser, 0, len(rows))
	for _, row := range rows {
		enriched := ActivityWithUser{ActivityLog: row}
		if u, ok := users[row.UserID]; ok {
			enriched.User = &u
		}
		ret = append(ret, enriched)
	}

	return ret, nil
}

// ListUserActivity returns the most recent audit rows for one user
func (a *App) ListUserActivity(userID, limit int) ([]database.ActivityLog, error) {
	if userID == 0 {
		return nil, ErrUserIDRequired
	}

	rows := []database.ActivityLog{}
	err := a.DB.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, pkgErrors.Wrap(err, "listing user activity rows")
	}

	return rows, nil
}
