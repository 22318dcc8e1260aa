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

package materials

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// ErrNothingToCompute signals that no material is selected or the total
// production count is zero. The message is shown to the user as-is.
var ErrNothingToCompute = errors.New("Pilih material dan masukkan jumlah GOOD atau NG!")

// Line is one consumable quantity derived from the production total
type Line struct {
	Label    string  `json:"label"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Display renders the line quantity using the quantity formatting rule
func (l Line) Display() string {
	return fmt.Sprintf("%s: %s %s", l.Label, FormatQuantity(l.Quantity), l.Unit)
}

// FilmUsage is the protective film length. Millimeters and centimeters are
// each rounded from the raw product independently; at rounding boundaries
// the two can disagree by one. That is the established behavior.
type FilmUsage struct {
	Type        string `json:"type"`
	Millimeters int    `json:"millimeters"`
	Centimeters int    `json:"centimeters"`
}

// Result is the outcome of a consumption computation
type Result struct {
	Good  int        `json:"good"`
	NG    int        `json:"ng"`
	Total int        `json:"total"`
	Lines []Line     `json:"lines"`
	Film  *FilmUsage `json:"film,omitempty"`
}

// mustDecimal reads a consumable field that has already passed catalog
// validation. Sentinel fields read as zero.
func mustDecimal(field string) float64 {
	if !Applicable(field) {
		return 0
	}

	val, err := ParseDecimal(field)
	if err != nil {
		return 0
	}

	return val
}

// Compute derives consumable quantities for the given production counts.
// Ink and thinner lines appear only for positive per-unit counts; retarder
// and hardener lines appear whenever the field is applicable.
func Compute(rec *Record, good, ng int) (Result, error) {
	total := good + ng

	if rec == nil || total == 0 {
		return Result{}, ErrNothingToCompute
	}

	res := Result{Good: good, NG: ng, Total: total}
	ft := float64(total)

	if ink := mustDecimal(rec.InkCount); ink > 0 {
		res.Lines = append(res.Lines, Line{
			Label:    "Tinta " + rec.InkType,
			Quantity: ink * ft,
			Unit:     "g",
		})
	}

	if thinner := mustDecimal(rec.ThinnerCount); thinner > 0 {
		res.Lines = append(res.Lines, Line{
			Label:    "Thinner M3",
			Quantity: thinner * ft,
			Unit:     "ml",
		})
	}

	if Applicable(rec.LFProtectType) && Applicable(rec.LFProtectCount) {
		raw := mustDecimal(rec.LFProtectCount) * ft
		res.Film = &FilmUsage{
			Type:        rec.LFProtectType,
			Millimeters: int(math.Round(raw)),
			Centimeters: int(math.Round(raw / 10)),
		}
	}

	if Applicable(rec.RetarderKSM076) {
		res.Lines = append(res.Lines, Line{
			Label:    "Retader KSM 076",
			Quantity: mustDecimal(rec.RetarderKSM076) * ft,
			Unit:     "ml",
		})
	}

	if Applicable(rec.RetarderKSM051) {
		res.Lines = append(res.Lines, Line{
			Label:    "Retader KSM 051",
			Quantity: mustDecimal(rec.RetarderKSM051) * ft,
			Unit:     "ml",
		})
	}

	if Applicable(rec.HardenerH1) {
		res.Lines = append(res.Lines, Line{
			Label:    "Hardener H1",
			Quantity: mustDecimal(rec.HardenerH1) * ft,
			Unit:     "g",
		})
	}

	return res, nil
}

// FormatQuantity renders a quantity with no decimal places when it is a
// whole number, and exactly two decimal places otherwise
func FormatQuantity(q float64) string {
	if q == math.Trunc(q) {
		return strconv.FormatFloat(q, 'f', 0, 64)
	}

	return strconv.FormatFloat(q, 'f', 2, 64)
}
