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

	"github.com/gorilla/mux"
	"github.com/matcal/matcal/pkg/server/app"
	"github.com/matcal/matcal/pkg/server/assets"
	mw "github.com/matcal/matcal/pkg/server/middleware"
	"github.com/pkg/errors"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	WebRoutes   []Route
	APIRoutes   []Route
}

// NewWebRoutes returns a new web routes
func NewWebRoutes(a *app.App, c *Controllers) []Route {
	return []Route{
		{"GET", "/health", c.Health.Index, true},
	}
}

// NewAPIRoutes returns a new api routes
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	return []Route{
		{"POST", "/v1/signin", c.Users.Signin, true},
		{"OPTIONS", "/v1/signin", c.Users.Signin, true},
		{"POST", "/v1/signup", c.Users.Signup, true},
		{"OPTIONS", "/v1/signup", c.Users.Signup, true},
		{"POST", "/v1/signout", c.Users.Signout, true},
		{"OPTIONS", "/v1/signout", c.Users.Signout, true},

		{"GET", "/v1/presence", c.Presence.Index, true},
		{"POST", "/v1/presence", c.Presence.Heartbeat, true},
		{"OPTIONS", "/v1/presence", c.Presence.Heartbeat, true},

		{"GET", "/v1/activity", c.Activity.Index, true},
		{"POST", "/v1/activity", c.Activity.Create, true},
		{"OPTIONS", "/v1/activity", c.Activity.Create, true},
		{"GET", "/v1/users/{userID}/activity", c.Activity.UserIndex, true},

		{"GET", "/v1/materials", c.Materials.Index, true},
		{"GET", "/v1/materials/{position}", c.Materials.Show, true},
		{"POST", "/v1/materials/calc", c.Materials.Calc, true},
		{"OPTIONS", "/v1/materials/calc", c.Materials.Calc, true},

		// long-lived connections must not be counted against the limiter
		{"GET", "/v1/realtime", c.Realtime.Subscribe, false},
	}
}

func registerRoutes(router *mux.Router, wrapper mw.Middleware, app *app.App, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, app, route.RateLimit)

		router.
			Handle(route.Pattern, wrappedHandler).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter().StrictSlash(true)

	// the config endpoint sits before the api subrouter because it must
	// bypass the api key check: it is how clients obtain the key. The
	// handler does its own method dispatch so that unsupported methods
	// get a 405 rather than a 404.
	router.Handle("/api/config", mw.ApplyLimit(mw.CORS(rc.Controllers.Config.Index), true))

	webRouter := router.PathPrefix("/").Subrouter()
	apiRouter := router.PathPrefix("/api").Subrouter()
	registerRoutes(webRouter, mw.WebMw, app, rc.WebRoutes)
	registerRoutes(apiRouter, mw.APIMw, app, rc.APIRoutes)

	// static
	staticFs, err := assets.GetStaticFS()
	if err != nil {
		return nil, errors.Wrap(err, "getting the filesystem for static files")
	}

	staticHandler := http.StripPrefix("/static/", http.FileServer(http.FS(staticFs)))
	router.PathPrefix("/static/").Handler(staticHandler)

	router.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nAllow: /"))
	})

	// catch-all
	router.PathPrefix("/").HandlerFunc(rc.Controllers.Static.NotFound)

	return mw.Global(router), nil
}
