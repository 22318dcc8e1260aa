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

import "github.com/pkg/errors"

// User-facing errors. Their messages are shown to the user verbatim;
// everything else is reported as a generic failure.
var (
	// ErrLoginInvalid is an error for invalid credentials
	ErrLoginInvalid = errors.New("Username atau password salah")
	// ErrDuplicateUsername is an error for a username that is already taken
	ErrDuplicateUsername = errors.New("Username sudah digunakan")
	// ErrDuplicateEmail is an error for an email that is already taken
	ErrDuplicateEmail = errors.New("Email sudah digunakan")
	// ErrDuplicateNIK is an error for an employee number that is already taken
	ErrDuplicateNIK = errors.New("NIK sudah digunakan")
)

// Validation errors
var (
	// ErrNIKRequired is an error for a missing employee number
	ErrNIKRequired = errors.New("NIK is required")
	// ErrUsernameRequired is an error for a missing username
	ErrUsernameRequired = errors.New("Username is required")
	// ErrEmailRequired is an error for a missing email
	ErrEmailRequired = errors.New("Email is required")
	// ErrPasswordRequired is an error for a missing password
	ErrPasswordRequired = errors.New("Password is required")
	// ErrUserIDRequired is an error for a missing user id
	ErrUserIDRequired = errors.New("userId is required")
)

// Generic user-facing failure messages
const (
	// MsgGenericFailure is shown when an internal error must not leak detail
	MsgGenericFailure = "Terjadi kesalahan. Silakan coba lagi."
	// MsgSignupFailure is shown when account creation fails for an internal reason
	MsgSignupFailure = "Gagal membuat akun. Silakan coba lagi."
)
