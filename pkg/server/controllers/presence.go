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

	"github.com/matcal/matcal/pkg/server/app"
	"github.com/matcal/matcal/pkg/server/database"
)

// NewPresence creates a new Presence controller
func NewPresence(app *app.App) *Presence {
	return &Presence{app: app}
}

// Presence is the online user tracking controller
type Presence struct {
	app *app.App
}

// presenceResponse is the response for the online user listing
type presenceResponse struct {
	Users []database.OnlineUser `json:"users"`
	Count int                   `json:"count"`
}

// Index handles GET /api/v1/presence
func (p *Presence) Index(w http.ResponseWriter, r *http.Request) {
	users, err := p.app.ListOnline()
	if err != nil {
		handleJSONError(w, err, "listing online users")
		return
	}

	respondJSON(w, http.StatusOK, presenceResponse{Users: users, Count: len(users)})
}

// HeartbeatForm is the payload for a presence heartbeat
type HeartbeatForm struct {
	UserID   int    `schema:"userId" json:"userId"`
	Username string `schema:"username" json:"username"`
}

// Heartbeat handles POST /api/v1/presence
func (p *Presence) Heartbeat(w http.ResponseWriter, r *http.Request) {
	var form HeartbeatForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	if err := p.app.MarkOnline(form.UserID, form.Username); err != nil {
		handleJSONError(w, err, "marking user online")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
