package ledger

// WeekTotal is one reconciled weekly entry for a (tenant, subject) pair.
// WeekEnding is the canonical YYYY-MM-DD Friday date.
type WeekTotal struct {
	WeekEnding  string `json:"week_ending"`
	Count       int    `json:"count"`
	NoteSummary string `json:"note_summary,omitempty"`
}
