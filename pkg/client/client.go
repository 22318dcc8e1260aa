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

// Package client is the Go client for the matcal data API. Clients
// bootstrap themselves from the server's config endpoint, which hands out
// the API base URL and the access key.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Config mirrors the payload of the server's /api/config endpoint. The
// field names are a compatibility contract with the deployed frontend.
type Config struct {
	APIURL string `json:"supabaseUrl"`
	APIKey string `json:"supabaseKey"`
}

// ErrConfigInvalid signals a config payload missing the URL or the key
var ErrConfigInvalid = errors.New("config payload is missing the url or the key")

// Client is a configured data API client
type Client struct {
	BaseURL string
	apiKey  string
	hc      *http.Client
}

// NewClient builds a client from a config payload
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIURL == "" || cfg.APIKey == "" {
		return nil, ErrConfigInvalid
	}

	return &Client{
		BaseURL: strings.TrimSuffix(cfg.APIURL, "/"),
		apiKey:  cfg.APIKey,
		hc:      &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// HTTPError is a non-2xx response from the data API. Message carries the
// user-facing error payload when the server sent one.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("server responded with %d", e.StatusCode)
}

// do performs one API request. A non-nil dst receives the decoded
// response body.
func (c *Client) do(ctx context.Context, method, path string, payload, dst interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "marshalling payload")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "constructing request")
	}
	req.Header.Set("apikey", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return errors.Wrap(err, "making request")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		httpErr := HTTPError{StatusCode: res.StatusCode}

		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(res.Body).Decode(&payload); err == nil {
			httpErr.Message = payload.Error
		}

		return httpErr
	}

	if dst == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return errors.Wrap(err, "decoding response")
	}

	return nil
}

// configCall is one in-flight or completed config fetch. done is closed
// once client and err are set.
type configCall struct {
	done   chan struct{}
	client *Client
	err    error
}

// Facade lazily resolves the data API client from the config endpoint.
// Concurrent callers share a single in-flight fetch, a successful fetch is
// memoized, and a failed fetch is retried on the next call.
type Facade struct {
	configURL string
	hc        *http.Client

	mu   sync.Mutex
	call *configCall
}

// NewFacade creates a facade that bootstraps from the given config
// endpoint URL
func NewFacade(configURL string) *Facade {
	return &Facade{
		configURL: configURL,
		hc:        &http.Client{Timeout: 10 * time.Second},
	}
}

// GetClient returns the resolved client, fetching the config if no fetch
// has succeeded yet
func (f *Facade) GetClient(ctx context.Context) (*Client, error) {
	f.mu.Lock()
	call := f.call
	if call == nil {
		call = &configCall{done: make(chan struct{})}
		f.call = call
		go f.fetch(call)
	}
	f.mu.Unlock()

	select {
	case <-call.done:
		return call.client, call.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Reset discards the memoized client so the next GetClient fetches the
// config again. An in-flight fetch is detached, not cancelled.
func (f *Facade) Reset() {
	f.mu.Lock()
	f.call = nil
	f.mu.Unlock()
}

func (f *Facade) fetch(call *configCall) {
	call.client, call.err = f.fetchConfig()

	if call.err != nil {
		f.mu.Lock()
		// only clear the slot if it still belongs to this fetch; Reset
		// may have installed a newer call in the meantime
		if f.call == call {
			f.call = nil
		}
		f.mu.Unlock()
	}

	close(call.done)
}

func (f *Facade) fetchConfig() (*Client, error) {
	res, err := f.hc.Get(f.configURL)
	if err != nil {
		return nil, errors.Wrap(err, "fetching config")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("config endpoint responded with %d", res.StatusCode)
	}

	var cfg Config
	if err := json.NewDecoder(res.Body).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}

	return NewClient(cfg)
}
