// Package location holds the static province → district → office table that
// complaints are routed against, and the checks applied to submitted locations.
package location

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidLocation is the sentinel for every location failure.
var ErrInvalidLocation = errors.New("invalid location")

// Error describes why a province/district/office triple was rejected.
type Error struct {
	Missing  []string
	Province string
	District string
	Office   string
}

func (e *Error) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing fields: %s", strings.Join(e.Missing, ", "))
	}
	return "invalid province/district/office combination"
}

func (e *Error) Unwrap() error { return ErrInvalidLocation }

// Field names as they appear in request payloads.
const (
	FieldProvince = "province"
	FieldDistrict = "district"
	FieldOffice   = "office"
)

var Fields = []string{FieldProvince, FieldDistrict, FieldOffice}

// Table is an immutable lookup. The zero value is an empty table.
type Table struct {
	data map[string]map[string][]string
}

// New copies data into a new Table so later changes to data are not observed.
func New(data map[string]map[string][]string) *Table {
	t := &Table{data: make(map[string]map[string][]string, len(data))}
	for province, districts := range data {
		d := make(map[string][]string, len(districts))
		for district, offices := range districts {
			d[district] = append([]string(nil), offices...)
		}
		t.data[province] = d
	}
	return t
}

// Provinces returns province names in sorted order.
func (t *Table) Provinces() []string {
	out := make([]string, 0, len(t.data))
	for p := range t.data {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Districts returns the districts of province in sorted order, or nil when unknown.
func (t *Table) Districts(province string) []string {
	districts, ok := t.data[province]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(districts))
	for d := range districts {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Offices returns the offices of a district in table order.
func (t *Table) Offices(province, district string) []string {
	offices, ok := t.data[province][district]
	if !ok {
		return nil
	}
	return append([]string(nil), offices...)
}

// Validate reports whether the triple exists in the table.
func (t *Table) Validate(province, district, office string) bool {
	for _, o := range t.data[province][district] {
		if o == office {
			return true
		}
	}
	return false
}

// CheckCreate requires all three fields and a valid combination.
func (t *Table) CheckCreate(province, district, office string) error {
	if missing := missingFields(province, district, office); len(missing) > 0 {
		return &Error{Missing: missing}
	}
	if !t.Validate(province, district, office) {
		return &Error{Province: province, District: district, Office: office}
	}
	return nil
}

// CheckUpdate validates the location part of an update. supplied holds only the
// location keys present in the payload; when none is present there is nothing to check.
func (t *Table) CheckUpdate(supplied map[string]string) error {
	if len(supplied) == 0 {
		return nil
	}
	return t.CheckCreate(supplied[FieldProvince], supplied[FieldDistrict], supplied[FieldOffice])
}

// Snapshot returns a deep copy of the table, keyed province → district → offices.
func (t *Table) Snapshot() map[string]map[string][]string {
	out := make(map[string]map[string][]string, len(t.data))
	for p, districts := range t.data {
		d := make(map[string][]string, len(districts))
		for name, offices := range districts {
			d[name] = append([]string(nil), offices...)
		}
		out[p] = d
	}
	return out
}

func missingFields(province, district, office string) []string {
	var missing []string
	for i, v := range []string{province, district, office} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, Fields[i])
		}
	}
	return missing
}
