package derive

// DateMode selects how year and month are extracted from the date text.
type DateMode string

// Date modes.
const (
	// DateModeScan matches fixed year and month tokens as substrings.
	DateModeScan DateMode = "scan"
	// DateModeStructured parses known export layouts first and falls back
	// to the token scan.
	DateModeStructured DateMode = "structured"
)

// DefaultSupportedYears is the closed list of years recognized by the scan.
var DefaultSupportedYears = []int{2021, 2022, 2023, 2024, 2025}

// Option applies a configuration option to the Deriver.
type Option func(*Deriver)

// WithSupportedYears replaces the supported year list. The list is sorted
// ascending; an empty list is ignored.
func WithSupportedYears(years []int) Option {
	return func(d *Deriver) {
		if len(years) > 0 {
			d.years = sortedCopy(years)
		}
	}
}

// WithDateMode selects the date extraction mode. Unknown modes are ignored.
func WithDateMode(mode DateMode) Option {
	return func(d *Deriver) {
		switch mode {
		case DateModeScan, DateModeStructured:
			d.mode = mode
		}
	}
}
