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
	"testing"

	"github.com/matcal/matcal/pkg/assert"
	"github.com/matcal/matcal/pkg/server/database"
	"github.com/matcal/matcal/pkg/server/testutils"
	"github.com/pkg/errors"
)

func TestLogActivity(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUserData(db, "1001", "alice", "alice@example.com", "secret")

		a := NewTest()
		a.DB = db

		row, err := a.LogActivity(user.ID, database.ActivityNavigation, "Accessed Penghitung Material", json.RawMessage(`{"menu":"Penghitung Material"}`))
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.NotEqual(t, row.ID, 0, "inserted row should have an id")
		assert.Equal(t, row.ActivityType, database.ActivityNavigation, "activity type mismatch")

		var count int64
		testutils.MustExec(t, db.Model(&database.ActivityLog{}).Count(&count), "counting activity rows")
		assert.Equal(t, count, int64(1), "activity row count mismatch")
	})

	t.Run("missing user id", func(t *testing.T) {
		a := NewTest()
		a.DB = testutils.InitMemoryDB(t)

		_, err := a.LogActivity(0, database.ActivityLogin, "User logged in", nil)
		assert.Equal(t, err, ErrUserIDRequired, "error mismatch")
	})
}

func TestListRecentActivity(t *testing.T) {
	t.Run("empty table", func(t *testing.T) {
		a := NewTest()
		a.DB = testutils.InitMemoryDB(t)

		rows, err := a.ListRecentActivity(1)
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, len(rows), 0, "expected an empty listing, not an error")
	})

	t.Run("ordering and limit", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUserData(db, "1001", "alice", "alice@example.com", "secret")

		a := NewTest()
		a.DB = db

		for _, desc := range []string{"first", "second", "third"} {
			if _, err := a.LogActivity(user.ID, database.ActivityNavigation, desc, nil); err != nil {
				t.Fatal(err)
			}
		}

		rows, err := a.ListRecentActivity(2)
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, len(rows), 2, "row count mismatch")
		assert.Equal(t, rows[0].Description, "third", "most recent row should come first")
		assert.Equal(t, rows[1].Description, "second", "ordering mismatch")
	})

	t.Run("username enrichment", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUserData(db, "1001", "alice", "alice@example.com", "secret")

		a := NewTest()
		a.DB = db

		if _, err := a.LogActivity(user.ID, database.ActivityLogin, "User logged in", nil); err != nil {
			t.Fatal(err)
		}

		// a row pointing at a user that no longer exists
		orphan := database.ActivityLog{UserID: 999, ActivityType: database.ActivityLogout, Description: "User logged out"}
		testutils.MustExec(t, db.Create(&orphan), "inserting orphan row")

		rows, err := a.ListRecentActivity(10)
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, len(rows), 2, "row count mismatch")

		byUserID := map[int]ActivityWithUser{}
		for _, r := range rows {
			byUserID[r.UserID] = r
		}

		if byUserID[user.ID].User == nil {
			t.Fatal("expected user enrichment for an existing user")
		}
		assert.Equal(t, byUserID[user.ID].User.Username, "alice", "username mismatch")

		if byUserID[999].User != nil {
			t.Errorf("expected nil user for a missing user, got %+v", byUserID[999].User)
		}
	})
}

func TestListUserActivity(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	alice := testutils.SetupUserData(db, "1001", "alice", "alice@example.com", "secret")
	bob := testutils.SetupUserData(db, "1002", "bob", "bob@example.com", "secret")

	a := NewTest()
	a.DB = db

	if _, err := a.LogActivity(alice.ID, database.ActivityLogin, "User logged in", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := a.LogActivity(bob.ID, database.ActivityLogin, "User logged in", nil); err != nil {
		t.Fatal(err)
	}

	rows, err := a.ListUserActivity(alice.ID, 10)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, len(rows), 1, "row count mismatch")
	assert.Equal(t, rows[0].UserID, alice.ID, "user id mismatch")

	_, err = a.ListUserActivity(0, 10)
	assert.Equal(t, err, ErrUserIDRequired, "error mismatch")
}
