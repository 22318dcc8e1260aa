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
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matcal/matcal/pkg/assert"
)

// newConfigServer serves a config payload pointing back at itself and
// counts how many times the config was fetched
func newConfigServer(t *testing.T, fetches *int32) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/config" {
			http.NotFound(w, r)
			return
		}

		atomic.AddInt32(fetches, 1)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Config{
			APIURL: server.URL,
			APIKey: "anon-key",
		})
	}))

	return server
}

func TestGetClientSharesOneFetch(t *testing.T) {
	var fetches int32
	server := newConfigServer(t, &fetches)
	defer server.Close()

	f := NewFacade(server.URL + "/api/config")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	clients := make([]*Client, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			c, err := f.GetClient(ctx)
			if err != nil {
				t.Error(err)
				return
			}
			clients[i] = c
		}(i)
	}
	wg.Wait()

	assert.Equal(t, atomic.LoadInt32(&fetches), int32(1), "concurrent callers must share one fetch")

	for i := 1; i < 10; i++ {
		if clients[i] != clients[0] {
			t.Fatal("callers should receive the same client")
		}
	}
}

func TestGetClientMemoizes(t *testing.T) {
	var fetches int32
	server := newConfigServer(t, &fetches)
	defer server.Close()

	f := NewFacade(server.URL + "/api/config")

	ctx := context.Background()
	if _, err := f.GetClient(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := f.GetClient(ctx); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, atomic.LoadInt32(&fetches), int32(1), "second call must reuse the memoized client")
}

func TestGetClientRetriesAfterFailure(t *testing.T) {
	var calls int32

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the first fetch fails, the second succeeds
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		json.NewEncoder(w).Encode(Config{APIURL: server.URL, APIKey: "anon-key"})
	}))
	defer server.Close()

	f := NewFacade(server.URL + "/api/config")

	ctx := context.Background()
	if _, err := f.GetClient(ctx); err == nil {
		t.Fatal("expected the first fetch to fail")
	}

	c, err := f.GetClient(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, c.BaseURL, server.URL, "base url mismatch")
	assert.Equal(t, atomic.LoadInt32(&calls), int32(2), "failed fetch must be retried")
}

func TestReset(t *testing.T) {
	var fetches int32
	server := newConfigServer(t, &fetches)
	defer server.Close()

	f := NewFacade(server.URL + "/api/config")

	ctx := context.Background()
	if _, err := f.GetClient(ctx); err != nil {
		t.Fatal(err)
	}

	f.Reset()

	if _, err := f.GetClient(ctx); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, atomic.LoadInt32(&fetches), int32(2), "reset must force a fresh fetch")
}

func TestGetClientInvalidConfig(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Config{APIURL: "", APIKey: ""})
	}))
	defer server.Close()

	f := NewFacade(server.URL + "/api/config")

	_, err := f.GetClient(context.Background())
	assert.Equal(t, err, ErrConfigInvalid, "error mismatch")
}

func TestDoSendsAPIKey(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("apikey")
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	c, err := NewClient(Config{APIURL: server.URL, APIKey: "anon-key"})
	if err != nil {
		t.Fatal(err)
	}

	if err := c.do(context.Background(), "GET", "/api/v1/presence", nil, nil); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, gotKey, "anon-key", "api key header mismatch")
}

func TestDoDecodesErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"Username atau password salah"}`)
	}))
	defer server.Close()

	c, err := NewClient(Config{APIURL: server.URL, APIKey: "anon-key"})
	if err != nil {
		t.Fatal(err)
	}

	err = c.do(context.Background(), "POST", "/api/v1/signin", map[string]string{}, nil)

	httpErr, ok := err.(HTTPError)
	if !ok {
		t.Fatalf("expected an HTTPError, got %T", err)
	}
	assert.Equal(t, httpErr.StatusCode, http.StatusUnauthorized, "status mismatch")
	assert.Equal(t, httpErr.Message, "Username atau password salah", "message mismatch")
}
