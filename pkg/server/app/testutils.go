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
	"strings"

	"github.com/matcal/matcal/pkg/clock"
	"github.com/matcal/matcal/pkg/materials"
	"github.com/matcal/matcal/pkg/server/realtime"
	"github.com/pkg/errors"
)

const testCatalogJSON = `{
  "Sheet1": [
    {
      "PRODUKSI": "COVER UPPER BK",
      "NAME MATERIAL": "ABS HF380",
      "WAREHOUSE CODE": "WH-0231",
      "INK TYPE": "PG-95",
      "INK COUNT": "0,8",
      "LF PROTECT TYPE": "LF-200",
      "LF PROTECT COUNT": "1,5",
      "RETADER KSM 076": "0,25",
      "RETADER KSM 051": "NO",
      "HARDENER H1": "0,1",
      "THINER COUNT": "2",
      "IMG": "/img/cover-upper-bk.png"
    },
    {
      "PRODUKSI": "PANEL FRONT WH",
      "NAME MATERIAL": "PC 2805",
      "WAREHOUSE CODE": "WH-0114",
      "INK TYPE": "SG-740",
      "INK COUNT": "1,2",
      "LF PROTECT TYPE": "NO",
      "LF PROTECT COUNT": "NO",
      "RETADER KSM 076": "NO",
      "RETADER KSM 051": "0,3",
      "HARDENER H1": "NO",
      "THINER COUNT": "1,5"
    }
  ]
}`

// NewTest returns an app for a testing environment
func NewTest() App {
	catalog, err := materials.LoadCatalog(strings.NewReader(testCatalogJSON))
	if err != nil {
		panic(errors.Wrap(err, "loading test catalog"))
	}

	return App{
		Clock:   clock.NewMock(),
		Catalog: catalog,
		Stream:  realtime.NewHub(),
		AppEnv:  "TEST",
		WebURL:  "http://127.0.0.1",
		Port:    "3000",
		DBPath:  ":memory:",
	}
}
