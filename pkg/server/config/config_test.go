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

package config

import (
	"testing"

	"github.com/matcal/matcal/pkg/assert"
	"github.com/pkg/errors"
)

func TestNewDefaults(t *testing.T) {
	c, err := New(Params{})
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, c.AppEnv, AppEnvProduction, "app env default mismatch")
	assert.Equal(t, c.Port, "3000", "port default mismatch")
	assert.Equal(t, c.DBPath, DefaultDBFilename, "db path default mismatch")
	assert.Equal(t, c.LogLevel, "info", "log level default mismatch")
	assert.Equal(t, c.IsProd(), true, "default environment should be production")
}

func TestNewEnvFallback(t *testing.T) {
	t.Setenv("PORT", "8123")
	t.Setenv("SUPABASE_URL", "http://localhost:8123")
	t.Setenv("SUPABASE_KEY", "anon-key")

	c, err := New(Params{AppEnv: "TEST"})
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, c.Port, "8123", "port should come from env")
	assert.Equal(t, c.SupabaseURL, "http://localhost:8123", "backend url should come from env")
	assert.Equal(t, c.SupabaseKey, "anon-key", "backend key should come from env")
	assert.Equal(t, c.IsProd(), false, "TEST environment should not be production")
}

func TestNewParamPrecedence(t *testing.T) {
	t.Setenv("PORT", "8123")

	c, err := New(Params{Port: "9000"})
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, c.Port, "9000", "explicit param should win over env")
}

func TestValidate(t *testing.T) {
	t.Run("invalid web url", func(t *testing.T) {
		_, err := New(Params{WebURL: "not a url"})
		assert.Equal(t, errors.Cause(err), ErrWebURLInvalid, "error mismatch")
	})
}
