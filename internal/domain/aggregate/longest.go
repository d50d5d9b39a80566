package aggregate

import (
	"sort"

	"github.com/okian/runstats/internal/domain/model"
)

// Longest returns up to n records ordered by distance, longest first.
// Records of equal distance keep their input order.
func Longest(records []model.DerivedRecord, n int) []model.DerivedRecord {
	if n <= 0 || len(records) == 0 {
		return []model.DerivedRecord{}
	}
	sorted := append([]model.DerivedRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DistanceMi > sorted[j].DistanceMi
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
