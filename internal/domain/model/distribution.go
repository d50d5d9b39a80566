package model

// DistributionKind tells how the buckets of a Distribution were formed.
type DistributionKind string

// Distribution kinds.
const (
	KindNumeric              DistributionKind = "numeric"
	KindCategoricalOrdered   DistributionKind = "categorical_ordered"
	KindCategoricalUnordered DistributionKind = "categorical_unordered"
)

// BucketRange is the half-open interval [Lower, Upper) of a numeric bucket.
type BucketRange struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Bucket is a single (label, count) pair.
type Bucket struct {
	Label string       `json:"label"`
	Count int          `json:"count"`
	Range *BucketRange `json:"range,omitempty"`
}

// Distribution is a chart-ready sequence of buckets with axis labels.
type Distribution struct {
	Kind    DistributionKind `json:"kind"`
	Title   string           `json:"title"`
	XLabel  string           `json:"x_label"`
	YLabel  string           `json:"y_label"`
	Buckets []Bucket         `json:"buckets"`
	// Undefined counts values that could not be placed in a bucket
	// (non-finite pace).
	Undefined int `json:"undefined"`
}

// Total returns the sum of bucket counts, excluding Undefined.
func (d Distribution) Total() int {
	total := 0
	for _, b := range d.Buckets {
		total += b.Count
	}
	return total
}

// Count returns the count of the bucket with the given label.
func (d Distribution) Count(label string) int {
	for _, b := range d.Buckets {
		if b.Label == label {
			return b.Count
		}
	}
	return 0
}

// Labels returns bucket labels in order.
func (d Distribution) Labels() []string {
	labels := make([]string, len(d.Buckets))
	for i, b := range d.Buckets {
		labels[i] = b.Label
	}
	return labels
}
