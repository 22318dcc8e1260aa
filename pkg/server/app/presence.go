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
	"errors"
	"time"

	"github.com/matcal/matcal/pkg/server/database"
	"github.com/matcal/matcal/pkg/server/realtime"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// OnlineWindow is the recency window within which a presence row counts
// as online
const OnlineWindow = 2 * time.Minute

// MarkOnline refreshes the presence row for a user, creating it if needed.
// The select-then-write pair is not transactional: two clients racing for
// the same user can produce a duplicate row. Presence is advisory, so the
// duplicate is tolerated.
func (a *App) MarkOnline(userID int, username string) error {
	if userID == 0 {
		return ErrUserIDRequired
	}

	now := a.Clock.Now()

	var existing database.OnlineUser
	err := a.DB.Where("user_id = ?", userID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row := database.OnlineUser{UserID: userID, Username: username, LastSeen: now}
		if err := a.DB.Create(&row).Error; err != nil {
			return pkgErrors.Wrap(err, "inserting presence row")
		}

		a.publish(realtime.Event{Table: database.TableOnlineUsers, Type: realtime.EventInsert})
		return nil
	} else if err != nil {
		return pkgErrors.Wrap(err, "finding presence row")
	}

	if err := a.DB.Model(&existing).Update("last_seen", now).Error; err != nil {
		return pkgErrors.Wrap(err, "updating presence row")
	}

	a.publish(realtime.Event{Table: database.TableOnlineUsers, Type: realtime.EventUpdate})
	return nil
}

// RemoveOnline deletes the presence row for a user
func (a *App) RemoveOnline(userID int) error {
	if err := a.DB.Where("user_id = ?", userID).Delete(&database.OnlineUser{}).Error; err != nil {
		return pkgErrors.Wrap(err, "deleting presence row")
	}

	a.publish(realtime.Event{Table: database.TableOnlineUsers, Type: realtime.EventDelete})
	return nil
}

// ListOnline returns the users seen within the online window, ordered
// by username
func (a *App) ListOnline() ([]database.OnlineUser, error) {
	cutoff := a.Clock.Now().Add(-OnlineWindow)

	rows := []database.OnlineUser{}
	err := a.DB.Where("last_seen >= ?", cutoff).Order("username").Find(&rows).Error
	if err != nil {
		return nil, pkgErrors.Wrap(err, "listing online users")
	}

	return rows, nil
}

// PruneStalePresence deletes presence rows not refreshed within the given
// duration and reports how many were removed
func (a *App) PruneStalePresence(staleAfter time.Duration) (int64, error) {
	cutoff := a.Clock.Now().Add(-staleAfter)

	res := a.DB.Where("last_seen < ?", cutoff).Delete(&database.OnlineUser{})
	if res.Error != nil {
		return 0, pkgErrors.Wrap(res.Error, "pruning stale presence rows")
	}

	if res.RowsAffected > 0 {
		a.publish(realtime.Event{Table: database.TableOnlineUsers, Type: realtime.EventDelete})
	}

	return res.RowsAffected, nil
}
