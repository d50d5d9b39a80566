// Package schema checks that a raw dataset carries the columns the pipeline
// reads before any conversion runs.
package schema

import "github.com/okian/runstats/internal/domain/model"

// Validate returns a *MissingColumnsError when any of model.RequiredColumns
// is absent from columns. Matching is exact and case-sensitive; extra
// columns are ignored.
func Validate(columns []string) error {
	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[c] = struct{}{}
	}

	var missing []string
	for _, required := range model.RequiredColumns {
		if _, ok := present[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Missing: missing}
	}
	return nil
}
