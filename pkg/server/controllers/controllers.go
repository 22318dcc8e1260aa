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
	"github.com/matcal/matcal/pkg/server/app"
	"github.com/matcal/matcal/pkg/server/realtime"
)

// Controllers is a group of controllers
type Controllers struct {
	Users     *Users
	Presence  *Presence
	Activity  *Activity
	Materials *Materials
	Config    *Config
	Realtime  *Realtime
	Static    *Static
	Health    *Health
}

// New returns a new group of controllers
func New(app *app.App) *Controllers {
	c := Controllers{}

	// the change feed needs the concrete hub; a bare publisher cannot
	// accept subscribers
	hub, _ := app.Stream.(*realtime.Hub)

	c.Users = NewUsers(app)
	c.Presence = NewPresence(app)
	c.Activity = NewActivity(app)
	c.Materials = NewMaterials(app)
	c.Config = NewConfig(app)
	c.Realtime = NewRealtime(app, hub)
	c.Static = NewStatic(app)
	c.Health = NewHealth(app)

	return &c
}
