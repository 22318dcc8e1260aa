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
	"strconv"
	"time"
)

// User is the account identity served by the signin and signup endpoints
type User struct {
	ID       int    `json:"id"`
	NIK      string `json:"nik"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewAuth creates a new Auth service
func NewAuth(facade *Facade, session *SessionStore) *Auth {
	return &Auth{facade: facade, session: session}
}

// Auth signs users in and out against the data API and keeps the session
// store in step
type Auth struct {
	facade  *Facade
	session *SessionStore
}

type credentialsPayload struct {
	NIK      string `json:"nik,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type userResponse struct {
	User User `json:"user"`
}

// Login signs the user in and stores the session on success
func (a *Auth) Login(ctx context.Context, username, password string) (*User, error) {
	c, err := a.facade.GetClient(ctx)
	if err != nil {
		return nil, err
	}

	var res userResponse
	err = c.do(ctx, "POST", "/api/v1/signin", credentialsPayload{
		Username: username,
		Password: password,
	}, &res)
	if err != nil {
		return nil, err
	}

	a.session.Set(strconv.Itoa(res.User.ID), res.User.Username)

	return &res.User, nil
}

// Signup creates an account. The new user is not signed in; the login
// screen expects another explicit login.
func (a *Auth) Signup(ctx context.Context, nik, username, email, password string) (*User, error) {
	c, err := a.facade.GetClient(ctx)
	if err != nil {
		return nil, err
	}

	var res userResponse
	err = c.do(ctx, "POST", "/api/v1/signup", credentialsPayload{
		NIK:      nik,
		Username: username,
		Email:    email,
		Password: password,
	}, &res)
	if err != nil {
		return nil, err
	}

	return &res.User, nil
}

type signoutPayload struct {
	UserID int `json:"userId"`
}

// logoutTimeout bounds the server round-trip during logout. The session
// is cleared regardless of whether the request makes it.
const logoutTimeout = 3 * time.Second

// Logout signs the user out. The server call is best-effort; the local
// session is always cleared.
func (a *Auth) Logout(ctx context.Context, userID int) error {
	defer a.session.Clear()

	ctx, cancel := context.WithTimeout(ctx, logoutTimeout)
	defer cancel()

	c, err := a.facade.GetClient(ctx)
	if err != nil {
		return err
	}

	return c.do(ctx, "POST", "/api/v1/signout", signoutPayload{UserID: userID}, nil)
}
