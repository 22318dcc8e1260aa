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

import "sync"

// LoginPath is where unauthenticated users are sent
const LoginPath = "/login.html"

// SessionStore holds the signed-in user's identity. It is safe for
// concurrent use.
type SessionStore struct {
	mu       sync.RWMutex
	userID   string
	username string
}

// Set stores the signed-in user
func (s *SessionStore) Set(userID, username string) {
	s.mu.Lock()
	s.userID = userID
	s.username = username
	s.mu.Unlock()
}

// Clear forgets the signed-in user
func (s *SessionStore) Clear() {
	s.mu.Lock()
	s.userID = ""
	s.username = ""
	s.mu.Unlock()
}

// Current returns the signed-in user's id and username
func (s *SessionStore) Current() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.userID, s.username
}

// IsAuthenticated reports whether a user is signed in
func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.userID != ""
}
