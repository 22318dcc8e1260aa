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
	"testing"

	"github.com/matcal/matcal/pkg/assert"
	"github.com/matcal/matcal/pkg/materials"
	"github.com/matcal/matcal/pkg/server/app"
	"github.com/matcal/matcal/pkg/server/testutils"
)

func TestListMaterials(t *testing.T) {
	a := app.NewTest()
	a.DB = testutils.InitMemoryDB(t)

	server := MustNewServer(t, &a)
	defer server.Close()

	req, err := http.NewRequest("GET", server.URL+"/api/v1/materials", nil)
	if err != nil {
		t.Fatal(err)
	}

	res := testutils.HTTPDo(t, req)
	assert.StatusCodeEquals(t, res, http.StatusOK, "status mismatch")

	var payload struct {
		Materials []struct {
			Position   int    `json:"position"`
			Production string `json:"production"`
		} `json:"materials"`
	}
	testutils.MustUnmarshalBody(t, res, &payload)

	assert.Equal(t, len(payload.Materials), a.Catalog.Len(), "material count mismatch")
	assert.Equal(t, payload.Materials[0].Production, "COVER UPPER BK", "production name mismatch")
}

func TestShowMaterial(t *testing.T) {
	a := app.NewTest()
	a.DB = testutils.InitMemoryDB(t)

	server := MustNewServer(t, &a)
	defer server.Close()

	t.Run("existing material", func(t *testing.T) {
		req, err := http.NewRequest("GET", server.URL+"/api/v1/materials/0", nil)
		if err != nil {
			t.Fatal(err)
		}

		res := testutils.HTTPDo(t, req)
		assert.StatusCodeEquals(t, res, http.StatusOK, "status mismatch")

		var info materials.Info
		testutils.MustUnmarshalBody(t, res, &info)
		assert.Equal(t, info.MaterialName, "ABS HF380", "material name mismatch")
		assert.Equal(t, info.ShowImage, true, "image flag mismatch")
	})

	t.Run("out of range", func(t *testing.T) {
		req, err := http.NewRequest("GET", server.URL+"/api/v1/materials/99", nil)
		if err != nil {
			t.Fatal(err)
		}

		res := testutils.HTTPDo(t, req)
		assert.StatusCodeEquals(t, res, http.StatusNotFound, "status mismatch")
	})
}

func TestCalc(t *testing.T) {
	a := app.NewTest()
	a.DB = testutils.InitMemoryDB(t)

	server := MustNewServer(t, &a)
	defer server.Close()

	t.Run("computes consumption", func(t *testing.T) {
		req := testutils.MustJSONRequest(t, "POST", server.URL+"/api/v1/materials/calc", map[string]interface{}{
			"position": 0,
			"good":     "5",
			"ng":       "2",
		})

		res := testutils.HTTPDo(t, req)
		assert.StatusCodeEquals(t, res, http.StatusOK, "status mismatch")

		var payload struct {
			Result  materials.Result `json:"result"`
			Display []string         `json:"display"`
		}
		testutils.MustUnmarshalBody(t, res, &payload)

		assert.Equal(t, payload.Result.Total, 7, "total mismatch")
		// ink 0,8 per unit over 7 units
		assert.Equal(t, payload.Result.Lines[0].Quantity, 5.6, "ink quantity mismatch")
		assert.Equal(t, payload.Display[0], "Tinta PG-95: 5.60 g", "display line mismatch")

		if payload.Result.Film == nil {
			t.Fatal("expected film usage for material 0")
		}
		// film 1,5 per unit over 7 units: 10.5 rounds to 11 mm, 1.05 to 1 cm
		assert.Equal(t, payload.Result.Film.Millimeters, 11, "film mm mismatch")
		assert.Equal(t, payload.Result.Film.Centimeters, 1, "film cm mismatch")
	})

	t.Run("zero totals are rejected", func(t *testing.T) {
		req := testutils.MustJSONRequest(t, "POST", server.URL+"/api/v1/materials/calc", map[string]interface{}{
			"position": 0,
			"good":     "0",
			"ng":       "",
		})

		res := testutils.HTTPDo(t, req)
		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "status mismatch")

		var payload struct {
			Error string `json:"error"`
		}
		testutils.MustUnmarshalBody(t, res, &payload)
		assert.Equal(t, payload.Error, "Pilih material dan masukkan jumlah GOOD atau NG!", "error message mismatch")
	})

	t.Run("no selection is rejected", func(t *testing.T) {
		req := testutils.MustJSONRequest(t, "POST", server.URL+"/api/v1/materials/calc", map[string]interface{}{
			"position": -1,
			"good":     "5",
			"ng":       "0",
		})

		res := testutils.HTTPDo(t, req)
		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "status mismatch")
	})
}
