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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matcal/matcal/pkg/assert"
)

// newAPIServer serves the config endpoint plus the given API handlers
func newAPIServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	var server *httptest.Server
	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Config{APIURL: server.URL, APIKey: "anon-key"})
	})
	for path, h := range handlers {
		mux.HandleFunc(path, h)
	}

	server = httptest.NewServer(mux)

	return server
}

func TestLogin(t *testing.T) {
	server := newAPIServer(t, map[string]http.HandlerFunc{
		"/api/v1/signin": func(w http.ResponseWriter, r *http.Request) {
			var payload struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Error(err)
			}

			if payload.Username != "alice" || payload.Password != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error":"Username atau password salah"}`)
				return
			}

			fmt.Fprint(w, `{"user":{"id":7,"nik":"1001","username":"alice","email":"alice@example.com"}}`)
		},
	})
	defer server.Close()

	facade := NewFacade(server.URL + "/api/config")
	session := &SessionStore{}
	auth := NewAuth(facade, session)

	t.Run("success stores the session", func(t *testing.T) {
		user, err := auth.Login(context.Background(), "alice", "secret")
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, user.ID, 7, "user id mismatch")
		assert.Equal(t, session.IsAuthenticated(), true, "session should be set")

		userID, username := session.Current()
		assert.Equal(t, userID, "7", "session user id mismatch")
		assert.Equal(t, username, "alice", "session username mismatch")
	})

	t.Run("failure leaves the session empty", func(t *testing.T) {
		session.Clear()

		_, err := auth.Login(context.Background(), "alice", "wrong")
		if err == nil {
			t.Fatal("expected an error")
		}
		assert.Equal(t, err.Error(), "Username atau password salah", "error message mismatch")
		assert.Equal(t, session.IsAuthenticated(), false, "session should stay empty")
	})
}

func TestLogoutClearsSessionOnServerError(t *testing.T) {
	server := newAPIServer(t, map[string]http.HandlerFunc{
		"/api/v1/signout": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
	})
	defer server.Close()

	facade := NewFacade(server.URL + "/api/config")
	session := &SessionStore{}
	session.Set("7", "alice")

	auth := NewAuth(facade, session)

	err := auth.Logout(context.Background(), 7)
	if err == nil {
		t.Fatal("expected the server error to surface")
	}

	assert.Equal(t, session.IsAuthenticated(), false, "session must be cleared regardless")
}

func TestSignup(t *testing.T) {
	server := newAPIServer(t, map[string]http.HandlerFunc{
		"/api/v1/signup": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"user":{"id":8,"nik":"1002","username":"bob","email":"bob@example.com"}}`)
		},
	})
	defer server.Close()

	facade := NewFacade(server.URL + "/api/config")
	session := &SessionStore{}
	auth := NewAuth(facade, session)

	user, err := auth.Signup(context.Background(), "1002", "bob", "bob@example.com", "secret")
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, user.Username, "bob", "username mismatch")
	// signup does not sign the user in
	assert.Equal(t, session.IsAuthenticated(), false, "session should stay empty")
}
