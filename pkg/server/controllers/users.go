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
	"github.com/matcal/matcal/pkg/server/log"
)

// NewUsers creates a new Users controller
func NewUsers(app *app.App) *Users {
	return &Users{app: app}
}

// Users is a user controller
type Users struct {
	app *app.App
}

// SigninForm is the payload for signing in
type SigninForm struct {
	Username string `schema:"username" json:"username"`
	Password string `schema:"password" json:"password"`
}

// userResponse wraps a user row for the signin and signup responses
type userResponse struct {
	User database.User `json:"user"`
}

// Signin handles POST /api/v1/signin
func (u *Users) Signin(w http.ResponseWriter, r *http.Request) {
	var form SigninForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	if form.Username == "" {
		handleJSONError(w, app.ErrUsernameRequired, "username is not provided")
		return
	}
	if form.Password == "" {
		handleJSONError(w, app.ErrPasswordRequired, "password is not provided")
		return
	}

	user, err := u.app.Authenticate(form.Username, form.Password)
	if err != nil {
		handleJSONError(w, err, "authenticating user")
		return
	}

	// presence and the audit trail are best-effort; a failure there must
	// not fail the login itself
	if err := u.app.MarkOnline(user.ID, user.Username); err != nil {
		log.ErrorWrap(err, "marking user online on login")
	}
	if _, err := u.app.LogActivity(user.ID, database.ActivityLogin, "User logged in", nil); err != nil {
		log.ErrorWrap(err, "logging login activity")
	}

	respondJSON(w, http.StatusOK, userResponse{User: *user})
}

// SignupForm is the payload for creating an account
type SignupForm struct {
	NIK      string `schema:"nik" json:"nik"`
	Username string `schema:"username" json:"username"`
	Email    string `schema:"email" json:"email"`
	Password string `schema:"password" json:"password"`
}

// Signup handles POST /api/v1/signup
func (u *Users) Signup(w http.ResponseWriter, r *http.Request) {
	var form SignupForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	user, err := u.app.CreateUser(form.NIK, form.Username, form.Email, form.Password)
	if err != nil {
		if status := statusForError(err); status != 0 {
			respondError(w, status, err.Error())
			return
		}

		log.ErrorWrap(err, "creating user")
		respondError(w, http.StatusInternalServerError, app.MsgSignupFailure)
		return
	}

	respondJSON(w, http.StatusCreated, userResponse{User: user})
}

// SignoutForm is the payload for signing out
type SignoutForm struct {
	UserID int `schema:"userId" json:"userId"`
}

// Signout handles POST /api/v1/signout. Signout always succeeds from the
// client's point of view: the session is gone regardless of what happens
// to the presence row or the audit trail.
func (u *Users) Signout(w http.ResponseWriter, r *http.Request) {
	var form SignoutForm
	if err := parseRequestData(r, &form); err != nil {
		log.ErrorWrap(err, "parsing signout payload")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if form.UserID != 0 {
		if _, err := u.app.LogActivity(form.UserID, database.ActivityLogout, "User logged out", nil); err != nil {
			log.ErrorWrap(err, "logging logout activity")
		}
		if err := u.app.RemoveOnline(form.UserID); err != nil {
			log.ErrorWrap(err, "removing user presence on logout")
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
