package distribution

// DefaultMaxBins caps the number of buckets of a numeric histogram.
const DefaultMaxBins = 200

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithMaxBins sets the histogram bucket cap. Values below 1 are ignored.
func WithMaxBins(n int) Option {
	return func(b *Builder) {
		if n >= 1 {
			b.maxBins = n
		}
	}
}
