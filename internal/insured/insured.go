// Package insured models the property owners seeking coverage: their
// risk declaration and their one decision, whether to accept a quote.
package insured

import (
	"github.com/aristath/lloyds-sim/internal/events"
	"github.com/aristath/lloyds-sim/internal/ids"
)

// Insured is a single property owner's coverage declaration. It carries
// no mutable state beyond analytics counters — the decision logic is a
// pure function of the quote presented.
type Insured struct {
	ID             ids.InsuredId
	Risk           events.Risk
	MaxRateOnLine  float64

	// QuotesSeen/QuotesAccepted are running totals kept for analytics
	// only; they never feed back into pricing or decisioning.
	QuotesSeen     uint64
	QuotesAccepted uint64
}

// New constructs an Insured with its immutable risk declaration.
func New(id ids.InsuredId, risk events.Risk, maxRateOnLine float64) *Insured {
	return &Insured{ID: id, Risk: risk, MaxRateOnLine: maxRateOnLine}
}

// OnQuotePresented decides whether to accept a quoted premium: rejected
// when the rate on line (premium / sum insured) exceeds the insured's
// tolerance.
func (i *Insured) OnQuotePresented(subID ids.SubmissionId, insurerID ids.InsurerId, premium uint64) events.Event {
	i.QuotesSeen++
	rateOnLine := float64(premium) / float64(i.Risk.SumInsured)
	if rateOnLine > i.MaxRateOnLine {
		return events.QuoteRejected{SubmissionId: subID, InsuredId: i.ID, InsurerId: insurerID}
	}
	i.QuotesAccepted++
	return events.QuoteAccepted{SubmissionId: subID, InsuredId: i.ID, InsurerId: insurerID, Premium: premium}
}
