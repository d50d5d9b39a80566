package model

// Distributions bundles the four chart inputs of a report.
type Distributions struct {
	Distance Distribution `json:"distance"`
	Pace     Distribution `json:"pace"`
	Month    Distribution `json:"month"`
	Bracket  Distribution `json:"bracket"`
}

// Report is the complete output of one pipeline invocation. Summary numbers
// are rounded to two decimals.
type Report struct {
	ID            string        `json:"id"`
	Rows          int           `json:"rows"`
	Dropped       int           `json:"dropped"`
	Overall       SummaryRow    `json:"overall"`
	Yearly        []YearSummary `json:"yearly"`
	Distributions Distributions `json:"distributions"`
	Describe      []ColumnStats `json:"describe"`
	Longest       Table         `json:"longest"`
	Table         Table         `json:"table"`
}
