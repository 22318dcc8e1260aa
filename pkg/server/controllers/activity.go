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
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/matcal/matcal/pkg/server/app"
	"github.com/matcal/matcal/pkg/server/database"
)

// Listing page sizes for the audit trail
const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

// NewActivity creates a new Activity controller
func NewActivity(app *app.App) *Activity {
	return &Activity{app: app}
}

// Activity is the audit trail controller
type Activity struct {
	app *app.App
}

// ActivityForm is the payload for recording an activity
type ActivityForm struct {
	UserID       int             `schema:"userId" json:"userId"`
	ActivityType string          `schema:"activityType" json:"activityType"`
	Description  string          `schema:"description" json:"description"`
	Metadata     json.RawMessage `schema:"-" json:"metadata"`
}

// Create handles POST /api/v1/activity
func (c *Activity) Create(w http.ResponseWriter, r *http.Request) {
	var form ActivityForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	if form.ActivityType == "" {
		respondError(w, http.StatusBadRequest, "activityType is required")
		return
	}

	row, err := c.app.LogActivity(form.UserID, form.ActivityType, form.Description, form.Metadata)
	if err != nil {
		handleJSONError(w, err, "recording activity")
		return
	}

	respondJSON(w, http.StatusCreated, row)
}

// parseLimit reads the limit query parameter, clamped to the page size cap
func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultActivityLimit
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return defaultActivityLimit
	}
	if limit > maxActivityLimit {
		return maxActivityLimit
	}

	return limit
}

// activityResponse is the response for the recent activity listing
type activityResponse struct {
	Activities []app.ActivityWithUser `json:"activities"`
}

// Index handles GET /api/v1/activity
func (c *Activity) Index(w http.ResponseWriter, r *http.Request) {
	rows, err := c.app.ListRecentActivity(parseLimit(r))
	if err != nil {
		handleJSONError(w, err, "listing activity")
		return
	}

	respondJSON(w, http.StatusOK, activityResponse{Activities: rows})
}

// userActivityResponse is the response for a single user's activity listing
type userActivityResponse struct {
	Activities []database.ActivityLog `json:"activities"`
}

// UserIndex handles GET /api/v1/users/{userID}/activity
func (c *Activity) UserIndex(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	userID, err := strconv.Atoi(vars["userID"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	rows, err := c.app.ListUserActivity(userID, parseLimit(r))
	if err != nil {
		handleJSONError(w, err, "listing user activity")
		return
	}

	respondJSON(w, http.StatusOK, userActivityResponse{Activities: rows})
}
