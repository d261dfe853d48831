// Package market owns policy lifecycle and loss routing: the
// peril/territory inverted index that lets a single catastrophe event
// find every policy it touches, and the per-insured index attritional
// losses use instead.
package market

import (
	"math"

	"github.com/aristath/lloyds-sim/internal/events"
	"github.com/aristath/lloyds-sim/internal/ids"
)

// BoundPolicy is a policy once its quote has been accepted. Its day
// fields are fixed for life: bound_day = quote_accepted_day + 1,
// expiry_day = quote_accepted_day + 361 (spec.md §3).
type BoundPolicy struct {
	PolicyId         ids.PolicyId
	SubmissionId     ids.SubmissionId
	InsuredId        ids.InsuredId
	InsurerId        ids.InsurerId
	Risk             events.Risk
	QuoteAcceptedDay uint64
	BoundDay         uint64
	ExpiryDay        uint64
	Active           bool
}

type territoryPeril struct {
	territory string
	peril     events.Peril
}

// Market is the single owner of all policy state for the run.
type Market struct {
	policies         map[ids.PolicyId]*BoundPolicy
	catIndex         map[territoryPeril][]ids.PolicyId
	insuredPolicies  map[ids.InsuredId][]ids.PolicyId
	nextPolicyID     ids.PolicyId
}

// New returns an empty market.
func New() *Market {
	return &Market{
		policies:        make(map[ids.PolicyId]*BoundPolicy),
		catIndex:        make(map[territoryPeril][]ids.PolicyId),
		insuredPolicies: make(map[ids.InsuredId][]ids.PolicyId),
	}
}

// OnQuoteAccepted creates the bound policy record and schedules the
// PolicyBound/PolicyExpired pair. PolicyBound's total_cat_exposure is
// emitted as 0; the kernel back-fills it after the insurer applies its
// cat-aggregate update (spec.md §4.7, §4.8).
func (m *Market) OnQuoteAccepted(day uint64, subID ids.SubmissionId, insuredID ids.InsuredId, insurerID ids.InsurerId, risk events.Risk, premium uint64) (ids.PolicyId, []events.Scheduled) {
	policyID := m.nextPolicyID
	m.nextPolicyID++
	boundDay := day + 1
	expiryDay := day + 361
	bp := &BoundPolicy{
		PolicyId:         policyID,
		SubmissionId:     subID,
		InsuredId:        insuredID,
		InsurerId:        insurerID,
		Risk:             risk,
		QuoteAcceptedDay: day,
		BoundDay:         boundDay,
		ExpiryDay:        expiryDay,
	}
	m.policies[policyID] = bp
	m.insuredPolicies[insuredID] = append(m.insuredPolicies[insuredID], policyID)
	for _, p := range risk.PerilsCovered {
		if p == events.Attritional {
			continue
		}
		key := territoryPeril{territory: risk.Territory, peril: p}
		m.catIndex[key] = append(m.catIndex[key], policyID)
	}
	scheduled := []events.Scheduled{
		{Day: boundDay, Event: events.PolicyBound{
			PolicyId: policyID, SubmissionId: subID, InsuredId: insuredID, InsurerId: insurerID,
			Premium: premium, SumInsured: risk.SumInsured, TotalCatExposure: 0,
		}},
		{Day: expiryDay, Event: events.PolicyExpired{PolicyId: policyID}},
	}
	return policyID, scheduled
}

// OnPolicyBound activates a policy.
func (m *Market) OnPolicyBound(policyID ids.PolicyId) {
	if bp, ok := m.policies[policyID]; ok {
		bp.Active = true
	}
}

// OnPolicyExpired removes the policy's cat index entries and its record.
// The insured's policy list keeps the id; later lookups skip it because
// the record is gone.
func (m *Market) OnPolicyExpired(policyID ids.PolicyId) {
	bp, ok := m.policies[policyID]
	if !ok {
		return
	}
	for _, p := range bp.Risk.PerilsCovered {
		if p == events.Attritional {
			continue
		}
		key := territoryPeril{territory: bp.Risk.Territory, peril: p}
		m.catIndex[key] = removePolicyID(m.catIndex[key], policyID)
	}
	delete(m.policies, policyID)
}

func removePolicyID(list []ids.PolicyId, target ids.PolicyId) []ids.PolicyId {
	out := list[:0]
	for _, id := range list {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// Policy returns the bound policy record for inspection (tests, back-fill lookups).
func (m *Market) Policy(policyID ids.PolicyId) (BoundPolicy, bool) {
	bp, ok := m.policies[policyID]
	if !ok {
		return BoundPolicy{}, false
	}
	return *bp, true
}

// OnLossEvent broadcasts one already-sampled damage fraction to every
// active policy indexed under (territory, peril) — one sample per
// physical event, shared across affected policies, models correlation.
func (m *Market) OnLossEvent(day uint64, peril events.Peril, territory string, damageFraction float64) []events.Scheduled {
	key := territoryPeril{territory: territory, peril: peril}
	var out []events.Scheduled
	for _, pid := range m.catIndex[key] {
		bp, ok := m.policies[pid]
		if !ok || !bp.Active {
			continue
		}
		gul := uint64(math.Round(damageFraction * float64(bp.Risk.SumInsured)))
		out = append(out, events.Scheduled{Day: day, Event: events.AssetDamage{
			InsuredId: bp.InsuredId, Peril: peril, GroundUpLoss: gul,
		}})
	}
	return out
}

// OnAssetDamage routes ground-up loss to every active policy the insured
// holds that covers the peril. An insured with no matching active policy
// produces no ClaimSettled — that is the intended semantic (spec.md §7):
// attritional AssetDamage fires for all registered insureds regardless of
// policy status.
func (m *Market) OnAssetDamage(day uint64, insuredID ids.InsuredId, gul uint64, peril events.Peril) []events.Scheduled {
	var out []events.Scheduled
	for _, pid := range m.insuredPolicies[insuredID] {
		bp, ok := m.policies[pid]
		if !ok || !bp.Active || !bp.Risk.Covers(peril) {
			continue
		}
		out = append(out, events.Scheduled{Day: day, Event: events.ClaimSettled{
			PolicyId: pid, InsurerId: bp.InsurerId, Amount: gul, Peril: peril, RemainingCapital: 0,
		}})
	}
	return out
}
