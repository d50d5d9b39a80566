package model

// Month is a calendar month, 1 (Jan) through 12 (Dec). The zero value means
// no month was found.
type Month int

// MonthAbbreviations holds the twelve labels in calendar order.
var MonthAbbreviations = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// Valid reports whether m names a calendar month.
func (m Month) Valid() bool { return m >= 1 && m <= 12 }

// String returns the three-letter abbreviation, or "" for an absent month.
func (m Month) String() string {
	if !m.Valid() {
		return ""
	}
	return MonthAbbreviations[m-1]
}

// Distance bracket labels in presentation order.
const (
	BracketUnder2 = "<2"
	Bracket2To4   = "2-4"
	Bracket4To6   = "4-6"
	Bracket6To8   = "6-8"
	BracketOver8  = ">8"
)

// BracketLabels lists the distance brackets in ascending order.
var BracketLabels = []string{BracketUnder2, Bracket2To4, Bracket4To6, Bracket6To8, BracketOver8}
