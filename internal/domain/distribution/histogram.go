package distribution

import (
	"math"
	"strconv"

	"github.com/okian/runstats/internal/domain/model"
)

// Histogram bins the finite values into integer-width buckets. The lower
// edge is floor(min) and the upper edge floor(max)+1; each bucket is the
// half-open interval [lower, lower+width). Width is 1 unless that would
// produce more than maxBins buckets, in which case it is the smallest
// integer keeping the count within maxBins. Non-finite values are counted
// in undefined and never binned. With no finite values the bucket set is
// empty.
func Histogram(values []float64, maxBins int) (buckets []model.Bucket, undefined int) {
	if maxBins < 1 {
		maxBins = 1
	}

	first := true
	var lo, hi float64
	for _, v := range values {
		if !finite(v) {
			undefined++
			continue
		}
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if first {
		return []model.Bucket{}, undefined
	}

	lower := math.Floor(lo)
	upper := math.Floor(hi) + 1
	span := upper - lower
	if span < 1 {
		span = 1
	}
	width := 1.0
	n := 0
	switch {
	case math.IsInf(span, 0):
		// Edges too far apart to subdivide; one open-ended bucket.
		width = span
		n = 1
	case span > float64(maxBins):
		width = math.Ceil(span / float64(maxBins))
		n = int(math.Ceil(span / width))
	default:
		n = int(math.Ceil(span / width))
	}

	buckets = make([]model.Bucket, n)
	for i := range buckets {
		l := lower
		if i > 0 {
			l += float64(i) * width
		}
		u := l + width
		buckets[i] = model.Bucket{
			Label: formatEdge(l) + "-" + formatEdge(u),
			Range: &model.BucketRange{Lower: l, Upper: u},
		}
	}
	for _, v := range values {
		if !finite(v) {
			continue
		}
		idx := 0
		if n > 1 {
			idx = int((v - lower) / width)
		}
		if idx >= n {
			idx = n - 1
		}
		buckets[idx].Count++
	}
	return buckets, undefined
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func formatEdge(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
