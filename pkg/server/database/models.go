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

package database

import (
	"encoding/json"
	"time"
)

// Model is the base model definition
type Model struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"-" gorm:"autoUpdateTime"`
}

// User is a model for a user.
//
// TODO: passwords are stored and compared in plaintext, which matches the
// established credential contract but is a security gap. Migrate to bcrypt
// together with a column rewrite.
type User struct {
	Model
	NIK      string `json:"nik" gorm:"uniqueIndex;type:text"`
	Username string `json:"username" gorm:"uniqueIndex;type:text"`
	Email    string `json:"email" gorm:"uniqueIndex;type:text"`
	Password string `json:"-" gorm:"type:text"`
}

// OnlineUser is an advisory presence record: one row per user, refreshed
// while the user is active and deleted on logout
type OnlineUser struct {
	Model
	UserID   int       `json:"user_id" gorm:"index"`
	Username string    `json:"username"`
	LastSeen time.Time `json:"last_seen"`
}

// ActivityLog is one append-only audit row. Rows are never updated or
// deleted by the application.
type ActivityLog struct {
	Model
	UserID       int             `json:"user_id" gorm:"index"`
	ActivityType string          `json:"activity_type" gorm:"index"`
	Description  string          `json:"description"`
	Metadata     json.RawMessage `json:"metadata,omitempty" gorm:"type:text"`
}
