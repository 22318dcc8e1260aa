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
	"errors"

	"github.com/matcal/matcal/pkg/server/database"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// Authenticate looks a user up by the exact username and password pair.
//
// TODO: credentials are compared in plaintext; migrate to bcrypt together
// with the users table rewrite.
func (a *App) Authenticate(username, password string) (*database.User, error) {
	var user database.User
	err := a.DB.Where("username = ? AND password = ?", username, password).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLoginInvalid
	} else if err != nil {
		return nil, pkgErrors.Wrap(err, "finding user")
	}

	return &user, nil
}

// checkDuplicate reports which unique field an existing row conflicts on.
// The priority order is username, then email, then nik.
func checkDuplicate(existing database.User, nik, username, email string) error {
	if existing.Username == username {
		return ErrDuplicateUsername
	}
	if existing.Email == email {
		return ErrDuplicateEmail
	}
	if existing.NIK == nik {
		return ErrDuplicateNIK
	}

	return nil
}

// CreateUser creates a user after checking the three unique fields
func (a *App) CreateUser(nik, username, email, password string) (database.User, error) {
	if nik == "" {
		return database.User{}, ErrNIKRequired
	}
	if username == "" {
		return database.User{}, ErrUsernameRequired
	}
	if email == "" {
		return database.User{}, ErrEmailRequired
	}
	if password == "" {
		return database.User{}, ErrPasswordRequired
	}

	var existing database.User
	err := a.DB.Where("username = ? OR email = ? OR nik = ?", username, email, nik).First(&existing).Error
	if err == nil {
		if dupErr := checkDuplicate(existing, nik, username, email); dupErr != nil {
			return database.User{}, dupErr
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return database.User{}, pkgErrors.Wrap(err, "checking existing user")
	}

	user := database.User{
		NIK:      nik,
		Username: username,
		Email:    email,
		Password: password,
	}
	if err := a.DB.Create(&user).Error; err != nil {
		return database.User{}, pkgErrors.Wrap(err, "saving user")
	}

	return user, nil
}
