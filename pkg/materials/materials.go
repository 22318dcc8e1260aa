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

// Package materials defines the material reference dataset and the
// consumption calculator for production counts.
package materials

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Sentinel marks a consumable field as not applicable for a material.
// It is distinct from zero: a sentinel field produces no output line at all.
const Sentinel = "NO"

// Record is one row of the material reference dataset. Numeric fields are
// stored as strings using comma as the decimal separator, or Sentinel.
type Record struct {
	Production     string `json:"PRODUKSI"`
	MaterialName   string `json:"NAME MATERIAL"`
	WarehouseCode  string `json:"WAREHOUSE CODE"`
	InkType        string `json:"INK TYPE"`
	InkCount       string `json:"INK COUNT"`
	LFProtectType  string `json:"LF PROTECT TYPE"`
	LFProtectCount string `json:"LF PROTECT COUNT"`
	RetarderKSM076 string `json:"RETADER KSM 076"`
	RetarderKSM051 string `json:"RETADER KSM 051"`
	HardenerH1     string `json:"HARDENER H1"`
	ThinnerCount   string `json:"THINER COUNT"`
	Image          string `json:"IMG,omitempty"`
}

// Applicable checks if a consumable field carries a usable value
func Applicable(field string) bool {
	return field != Sentinel
}

// ParseDecimal parses a decimal number that uses comma as the decimal separator
func ParseDecimal(s string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")

	val, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing decimal '%s'", s)
	}

	return val, nil
}

// ParseCount parses a production count entered by the user.
// Anything that is not a valid integer counts as zero.
func ParseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}

	return n
}

// Catalog is the validated, in-memory material reference dataset
type Catalog struct {
	records []Record
}

// document is the shape of the dataset file: one top-level array under a fixed key
type document struct {
	Records []Record `json:"Sheet1"`
}

// consumableFields returns the fields that must hold either the sentinel
// or a parseable comma-decimal value
func (r Record) consumableFields() map[string]string {
	return map[string]string{
		"INK COUNT":        r.InkCount,
		"LF PROTECT COUNT": r.LFProtectCount,
		"RETADER KSM 076":  r.RetarderKSM076,
		"RETADER KSM 051":  r.RetarderKSM051,
		"HARDENER H1":      r.HardenerH1,
		"THINER COUNT":     r.ThinnerCount,
	}
}

func validateRecord(idx int, r Record) error {
	if r.Production == "" {
		return errors.Errorf("record %d: missing production name", idx)
	}

	for name, val := range r.consumableFields() {
		if !Applicable(val) {
			continue
		}
		if _, err := ParseDecimal(val); err != nil {
			return errors.Wrapf(err, "record %d (%s): field %s", idx, r.Production, name)
		}
	}

	return nil
}

// LoadCatalog parses and validates the material dataset. Records are
// validated once here so the calculator never has to re-check field shapes.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding material dataset")
	}

	for i, rec := range doc.Records {
		if err := validateRecord(i, rec); err != nil {
			return nil, errors.Wrap(err, "validating material dataset")
		}
	}

	return &Catalog{records: doc.Records}, nil
}

// Len returns the number of records in the catalog
func (c *Catalog) Len() int {
	return len(c.records)
}

// Records returns all records in the catalog
func (c *Catalog) Records() []Record {
	return c.records
}

// Get returns the record at the given position
func (c *Catalog) Get(idx int) (*Record, bool) {
	if idx < 0 || idx >= len(c.records) {
		return nil, false
	}

	rec := c.records[idx]
	return &rec, true
}
