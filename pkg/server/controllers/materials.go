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
	"strconv"

	"github.com/gorilla/mux"
	"github.com/matcal/matcal/pkg/materials"
	"github.com/matcal/matcal/pkg/server/app"
)

// NewMaterials creates a new Materials controller
func NewMaterials(app *app.App) *Materials {
	return &Materials{app: app}
}

// Materials is the consumption calculator controller
type Materials struct {
	app *app.App
}

// materialEntry is one row of the material picker
type materialEntry struct {
	Position   int    `json:"position"`
	Production string `json:"production"`
}

// materialsResponse is the response for the material listing
type materialsResponse struct {
	Materials []materialEntry `json:"materials"`
}

// Index handles GET /api/v1/materials
func (c *Materials) Index(w http.ResponseWriter, r *http.Request) {
	records := c.app.Catalog.Records()

	entries := make([]materialEntry, 0, len(records))
	for i, rec := range records {
		entries = append(entries, materialEntry{Position: i, Production: rec.Production})
	}

	respondJSON(w, http.StatusOK, materialsResponse{Materials: entries})
}

// Show handles GET /api/v1/materials/{position}. It serves the detail
// panel content with non-applicable fields omitted.
func (c *Materials) Show(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	position, err := strconv.Atoi(vars["position"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid material position")
		return
	}

	view := materials.NewView(c.app.Catalog)
	info := view.Select(position)
	if info == nil {
		respondError(w, http.StatusNotFound, "material not found")
		return
	}

	respondJSON(w, http.StatusOK, info)
}

// CalcForm is the payload for a consumption computation. The production
// counts arrive as the raw input field values.
type CalcForm struct {
	Position int    `schema:"position" json:"position"`
	Good     string `schema:"good" json:"good"`
	NG       string `schema:"ng" json:"ng"`
}

// calcResponse carries the computation result together with the
// display-formatted consumable lines
type calcResponse struct {
	Result  materials.Result `json:"result"`
	Display []string         `json:"display"`
}

// Calc handles POST /api/v1/materials/calc
func (c *Materials) Calc(w http.ResponseWriter, r *http.Request) {
	var form CalcForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	view := materials.NewView(c.app.Catalog)
	view.Select(form.Position)
	view.SetCounts(form.Good, form.NG)

	result, err := view.Compute()
	if err != nil {
		handleJSONError(w, err, "computing consumption")
		return
	}

	display := make([]string, 0, len(result.Lines))
	for _, line := range result.Lines {
		display = append(display, line.Display())
	}

	respondJSON(w, http.StatusOK, calcResponse{Result: result, Display: display})
}
