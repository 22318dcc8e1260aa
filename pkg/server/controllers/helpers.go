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
	"strings"

	"github.com/gorilla/schema"
	"github.com/matcal/matcal/pkg/materials"
	"github.com/matcal/matcal/pkg/server/app"
	"github.com/matcal/matcal/pkg/server/log"
	"github.com/pkg/errors"
)

var formDecoder = schema.NewDecoder()

func init() {
	formDecoder.IgnoreUnknownKeys(true)
}

// parseForm parses the request body as a URL-encoded form into dst
func parseForm(r *http.Request, dst interface{}) error {
	if err := r.ParseForm(); err != nil {
		return errors.Wrap(err, "parsing form")
	}

	if err := formDecoder.Decode(dst, r.PostForm); err != nil {
		return errors.Wrap(err, "decoding form")
	}

	return nil
}

// parseRequestData decodes the request payload into dst. JSON bodies and
// URL-encoded forms are both accepted.
func parseRequestData(r *http.Request, dst interface{}) error {
	ct := r.Header.Get("Content-Type")

	if strings.HasPrefix(ct, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return errors.Wrap(err, "decoding json payload")
		}

		return nil
	}

	return parseForm(r, dst)
}

// respondJSON writes v as the JSON response body with the given status
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}

// errorResponse is the uniform error payload of the data API
type errorResponse struct {
	Error string `json:"error"`
}

// respondError writes a JSON error payload with the given status
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// statusForError maps a known user-facing error to its HTTP status.
// It returns 0 for errors that must not reach the user.
func statusForError(err error) int {
	switch errors.Cause(err) {
	case app.ErrLoginInvalid:
		return http.StatusUnauthorized
	case app.ErrDuplicateUsername, app.ErrDuplicateEmail, app.ErrDuplicateNIK:
		return http.StatusConflict
	case app.ErrNIKRequired, app.ErrUsernameRequired, app.ErrEmailRequired,
		app.ErrPasswordRequired, app.ErrUserIDRequired, materials.ErrNothingToCompute:
		return http.StatusBadRequest
	}

	return 0
}

// handleJSONError responds with a user-facing message for known errors and
// with a generic message for everything else. Internal errors are logged,
// never echoed.
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	if status := statusForError(err); status != 0 {
		respondError(w, status, errors.Cause(err).Error())
		return
	}

	log.ErrorWrap(err, msg)
	respondError(w, http.StatusInternalServerError, app.MsgGenericFailure)
}
