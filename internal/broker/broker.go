// Package broker routes coverage requests to insurers, carries the
// quoting chain between insurer and insured, and tracks the relationship
// scores that decide which insurers get solicited first.
package broker

import (
	"sort"

	"github.com/aristath/lloyds-sim/internal/events"
	"github.com/aristath/lloyds-sim/internal/ids"
)

type pendingSubmission struct {
	insuredID   ids.InsuredId
	risk        events.Risk
	tried       map[ids.InsurerId]bool
	declines    int
	outstanding int
}

// Broker is the single intermediary between insureds and the insurer
// panel. It holds no capital and makes no pricing decisions; it only
// selects whom to ask and relays their answers.
type Broker struct {
	insurerIDs       []ids.InsurerId
	scores           map[ids.InsurerId]int
	quotesPerSubmission int
	nextSubmissionID ids.SubmissionId
	pending          map[ids.SubmissionId]*pendingSubmission
}

// New constructs a Broker over the given insurer panel. quotesPerSubmission
// is the top-N solicited concurrently per submission (spec.md §4.5); 0 or
// negative defaults to 1.
func New(insurerIDs []ids.InsurerId, quotesPerSubmission int) *Broker {
	if quotesPerSubmission <= 0 {
		quotesPerSubmission = 1
	}
	scores := make(map[ids.InsurerId]int, len(insurerIDs))
	for _, id := range insurerIDs {
		scores[id] = 0
	}
	return &Broker{
		insurerIDs:          insurerIDs,
		scores:              scores,
		quotesPerSubmission: quotesPerSubmission,
		pending:             make(map[ids.SubmissionId]*pendingSubmission),
	}
}

// AddInsurer registers a newly entered (or re-entered) insurer in the
// panel with a neutral starting relationship score.
func (b *Broker) AddInsurer(id ids.InsurerId) {
	for _, existing := range b.insurerIDs {
		if existing == id {
			return
		}
	}
	b.insurerIDs = append(b.insurerIDs, id)
	if _, ok := b.scores[id]; !ok {
		b.scores[id] = 0
	}
}

// topUntried returns up to n insurer ids, excluding those already marked
// in tried, ranked by relationship score descending and ties broken by
// ascending id (spec.md §4.5).
func (b *Broker) topUntried(tried map[ids.InsurerId]bool, n int) []ids.InsurerId {
	candidates := make([]ids.InsurerId, 0, len(b.insurerIDs))
	for _, id := range b.insurerIDs {
		if tried != nil && tried[id] {
			continue
		}
		candidates = append(candidates, id)
	}
	sort.Slice(candidates, func(i, j int) bool {
		si, sj := b.scores[candidates[i]], b.scores[candidates[j]]
		if si != sj {
			return si > sj
		}
		return candidates[i] < candidates[j]
	})
	if n < len(candidates) {
		candidates = candidates[:n]
	}
	return candidates
}

// OnCoverageRequested selects the top-N insurers by relationship score,
// opens a submission, and solicits all N concurrently.
func (b *Broker) OnCoverageRequested(day uint64, insuredID ids.InsuredId, risk events.Risk) []events.Scheduled {
	candidates := b.topUntried(nil, b.quotesPerSubmission)
	if len(candidates) == 0 {
		return nil
	}
	subID := b.nextSubmissionID
	b.nextSubmissionID++
	tried := make(map[ids.InsurerId]bool, len(candidates))
	for _, id := range candidates {
		tried[id] = true
	}
	b.pending[subID] = &pendingSubmission{
		insuredID:   insuredID,
		risk:        risk,
		tried:       tried,
		outstanding: len(candidates),
	}
	out := make([]events.Scheduled, 0, len(candidates))
	for _, insurerID := range candidates {
		out = append(out, events.Scheduled{
			Day:   day + 1,
			Event: events.LeadQuoteRequested{SubmissionId: subID, InsuredId: insuredID, InsurerId: insurerID, Risk: risk},
		})
	}
	return out
}

// OnLeadQuoteIssued wins the submission for insurerID: any other
// concurrently solicited insurer's later decline is discarded because
// the pending entry is removed here.
func (b *Broker) OnLeadQuoteIssued(day uint64, subID ids.SubmissionId, insuredID ids.InsuredId, insurerID ids.InsurerId, premium uint64) []events.Scheduled {
	if _, ok := b.pending[subID]; !ok {
		return nil
	}
	delete(b.pending, subID)
	return []events.Scheduled{{
		Day:   day + 1,
		Event: events.QuotePresented{SubmissionId: subID, InsuredId: insuredID, InsurerId: insurerID, Premium: premium},
	}}
}

// OnLeadQuoteDeclined records a decline against the submission. Once
// every currently-solicited insurer for this round has declined, the
// broker retries against the next-best untried insurer, or drops the
// submission when the panel is exhausted.
func (b *Broker) OnLeadQuoteDeclined(day uint64, subID ids.SubmissionId, insuredID ids.InsuredId) []events.Scheduled {
	ps, ok := b.pending[subID]
	if !ok {
		return nil
	}
	ps.declines++
	if ps.declines < ps.outstanding {
		return nil
	}
	next := b.topUntried(ps.tried, 1)
	if len(next) == 0 {
		delete(b.pending, subID)
		return []events.Scheduled{{
			Day:   day + 1,
			Event: events.SubmissionDropped{SubmissionId: subID, InsuredId: insuredID},
		}}
	}
	insurerID := next[0]
	ps.tried[insurerID] = true
	ps.declines = 0
	ps.outstanding = 1
	return []events.Scheduled{{
		Day:   day + 1,
		Event: events.LeadQuoteRequested{SubmissionId: subID, InsuredId: insuredID, InsurerId: insurerID, Risk: ps.risk},
	}}
}

// OnPolicyBound rewards the winning insurer's relationship score.
func (b *Broker) OnPolicyBound(insurerID ids.InsurerId) {
	b.scores[insurerID]++
}

// OnYearEnd multiplicatively decays every relationship score, so a lapse
// in business is forgotten rather than held forever.
func (b *Broker) OnYearEnd() {
	for id, score := range b.scores {
		b.scores[id] = int(float64(score) * 0.9)
	}
}

// Score returns an insurer's current relationship score, for tests and
// inspection tooling.
func (b *Broker) Score(id ids.InsurerId) int { return b.scores[id] }
