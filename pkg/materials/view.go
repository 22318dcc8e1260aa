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

// Info is the detail panel content for a selected material. Fields that are
// not applicable for the material are left empty and must not be shown.
type Info struct {
	MaterialName   string `json:"material_name"`
	WarehouseCode  string `json:"warehouse_code"`
	InkType        string `json:"ink_type"`
	InkCount       string `json:"ink_count"`
	LFProtectType  string `json:"lf_protect_type,omitempty"`
	LFProtectCount string `json:"lf_protect_count,omitempty"`
	RetarderKSM076 string `json:"retarder_ksm_076,omitempty"`
	RetarderKSM051 string `json:"retarder_ksm_051,omitempty"`
	HardenerH1     string `json:"hardener_h1,omitempty"`
	ThinnerCount   string `json:"thinner_count,omitempty"`
	ImagePath      string `json:"image_path,omitempty"`
	ShowImage      bool   `json:"show_image"`
}

// NoSelection is the View position when no material is selected
const NoSelection = -1

// View is the calculator form state. It has two states: no-selection
// (no info, no image, empty result) and selected.
type View struct {
	catalog  *Catalog
	selected int
	good     string
	ng       string
}

// NewView returns a view over the given catalog in the no-selection state
func NewView(catalog *Catalog) *View {
	return &View{catalog: catalog, selected: NoSelection}
}

// buildInfo assembles the detail panel, hiding sentinel fields.
// The protective film pair is shown only when both type and count apply.
func buildInfo(rec *Record) *Info {
	info := Info{
		MaterialName:  rec.MaterialName,
		WarehouseCode: rec.WarehouseCode,
		InkType:       rec.InkType,
		InkCount:      rec.InkCount,
		ImagePath:     rec.Image,
		ShowImage:     rec.Image != "",
	}

	if Applicable(rec.LFProtectType) && Applicable(rec.LFProtectCount) {
		info.LFProtectType = rec.LFProtectType
		info.LFProtectCount = rec.LFProtectCount
	}
	if Applicable(rec.RetarderKSM076) {
		info.RetarderKSM076 = rec.RetarderKSM076
	}
	if Applicable(rec.RetarderKSM051) {
		info.RetarderKSM051 = rec.RetarderKSM051
	}
	if Applicable(rec.HardenerH1) {
		info.HardenerH1 = rec.HardenerH1
	}
	if Applicable(rec.ThinnerCount) {
		info.ThinnerCount = rec.ThinnerCount
	}

	return &info
}

// Select moves the view to the record at the given position and returns the
// detail panel content. An out-of-range position moves the view back to the
// no-selection state and returns nil.
func (v *View) Select(idx int) *Info {
	rec, ok := v.catalog.Get(idx)
	if !ok {
		v.selected = NoSelection
		return nil
	}

	v.selected = idx
	return buildInfo(rec)
}

// Selected returns the currently selected record, if any
func (v *View) Selected() (*Record, bool) {
	return v.catalog.Get(v.selected)
}

// SetCounts stores the raw GOOD and NG input field values
func (v *View) SetCounts(good, ng string) {
	v.good = good
	v.ng = ng
}

// Compute runs the calculator against the current selection and inputs
func (v *View) Compute() (Result, error) {
	rec, _ := v.catalog.Get(v.selected)

	return Compute(rec, ParseCount(v.good), ParseCount(v.ng))
}

// Reset clears the selection and all input fields back to the
// no-selection state
func (v *View) Reset() {
	v.selected = NoSelection
	v.good = ""
	v.ng = ""
}
