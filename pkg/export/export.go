package export

// Report defines exportable evaluation-report content: a set of headline
// figures followed by a detail table.
type Report struct {
	Title   string
	Summary []SummaryLine
	Headers []string
	Rows    [][]string
}

// SummaryLine is a labelled headline figure.
type SummaryLine struct {
	Label string
	Value string
}
