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
)

// NewConfig creates a new Config controller
func NewConfig(app *app.App) *Config {
	return &Config{app: app}
}

// Config hands the data API coordinates out to browser clients. It sits
// outside the api key check because it is how clients obtain the key.
type Config struct {
	app *app.App
}

// clientConfig is the payload served to browser clients. The field names
// are a compatibility contract with the deployed frontend and must not
// change.
type clientConfig struct {
	APIURL string `json:"supabaseUrl"`
	APIKey string `json:"supabaseKey"`
}

// Index handles /api/config. Only GET and preflight OPTIONS are allowed.
func (c *Config) Index(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondJSON(w, http.StatusOK, clientConfig{
			APIURL: c.app.APIURL,
			APIKey: c.app.APIKey,
		})
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	default:
		respondError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	}
}
