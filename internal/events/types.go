package events

import "github.com/aristath/lloyds-sim/internal/ids"

// Peril names a peril a risk can be covered against. Attritional is the
// one fixed value; catastrophe perils are whatever labels the config's
// event classes declare (e.g. "WindstormAtlantic").
type Peril string

// Attritional is the peril name for day-to-day, non-catastrophic losses.
const Attritional Peril = "Attritional"

// Risk is the immutable coverage declaration an insured presents to the
// market. Once declared it never changes shape for the life of a
// submission.
type Risk struct {
	SumInsured     uint64   `json:"sum_insured"`
	Territory      string   `json:"territory"`
	PerilsCovered  []Peril  `json:"perils_covered"`
}

// CoversCat reports whether the risk covers any non-attritional peril.
func (r Risk) CoversCat() bool {
	for _, p := range r.PerilsCovered {
		if p != Attritional {
			return true
		}
	}
	return false
}

// Covers reports whether the risk covers the given peril.
func (r Risk) Covers(p Peril) bool {
	for _, q := range r.PerilsCovered {
		if q == p {
			return true
		}
	}
	return false
}

// DeclineReason explains why an insurer declined a LeadQuoteRequested.
type DeclineReason string

const (
	Insolvent               DeclineReason = "Insolvent"
	MaxLineSizeExceeded     DeclineReason = "MaxLineSizeExceeded"
	MaxCatAggregateBreached DeclineReason = "MaxCatAggregateBreached"
	// InRunoff is emitted when a submission is routed to an insurer that
	// has voluntarily stopped writing new business (see the year-end
	// runoff supplement).
	InRunoff DeclineReason = "InRunoff"
)

// PendingSubmission describes the in-flight state of a submission
// between LeadQuoteRequested and its resolution. The broker keeps its
// own unexported pending-submission record and does not use this type.
type PendingSubmission struct {
	InsuredId ids.InsuredId
	InsurerId ids.InsurerId
	Risk      Risk
	RequestDay uint64
	Tried     map[ids.InsurerId]bool
}
