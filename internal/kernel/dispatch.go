package kernel

import (
	"github.com/aristath/lloyds-sim/internal/events"
	"github.com/aristath/lloyds-sim/internal/ids"
	"github.com/aristath/lloyds-sim/internal/perils"
	"github.com/aristath/lloyds-sim/internal/simtime"
)

// dispatch is the single switch table spec.md §4.8 describes: one case
// per event variant that is ever scheduled, each producing zero or more
// follow-up events. No variant is handled anywhere else. The bookkeeping
// variants (InsurerInsolvent, InsurerEntered, InsurerExited,
// InsurerReEntered) are appended to the log directly and have no case.
func (k *Kernel) dispatch(day uint64, ev events.Event) {
	switch v := ev.(type) {
	case events.SimulationStart:
		k.queue.Schedule(day, events.YearStart{Year: 1})
	case events.YearStart:
		k.onYearStart(day, v)
	case events.CoverageRequested:
		k.onCoverageRequested(day, v)
	case events.LeadQuoteRequested:
		k.onLeadQuoteRequested(day, v)
	case events.LeadQuoteIssued:
		k.schedule(k.broker.OnLeadQuoteIssued(day, v.SubmissionId, v.InsuredId, v.InsurerId, v.Premium))
	case events.LeadQuoteDeclined:
		k.schedule(k.broker.OnLeadQuoteDeclined(day, v.SubmissionId, v.InsuredId))
	case events.QuotePresented:
		k.onQuotePresented(day, v)
	case events.QuoteAccepted:
		k.onQuoteAccepted(day, v)
	case events.QuoteRejected:
		k.scheduleRenewal(day, v.InsuredId)
	case events.SubmissionDropped:
		k.droppedCount++
		k.scheduleRenewal(day, v.InsuredId)
	case events.PolicyBound:
		k.onPolicyBound(day, v)
	case events.PolicyExpired:
		k.onPolicyExpired(v)
	case events.LossEvent:
		k.onLossEvent(day, v)
	case events.AssetDamage:
		k.schedule(k.market.OnAssetDamage(day, v.InsuredId, v.GroundUpLoss, v.Peril))
	case events.ClaimSettled:
		k.onClaimSettled(day, v)
	case events.YearEnd:
		k.onYearEnd(day, v)
	}
}

func (k *Kernel) onYearStart(day uint64, v events.YearStart) {
	year := simtime.Year(v.Year)
	if year == 1 {
		yearStart := simtime.YearStart(year)
		// Requests are spread evenly over the first 180 days in insured
		// order; the first insured always asks on the year's first day.
		for i, insuredID := range k.insuredOrder {
			reqDay := yearStart.Offset(uint64(i * 180 / len(k.insuredOrder)))
			k.queue.Schedule(uint64(reqDay), events.CoverageRequested{
				InsuredId: insuredID,
				Risk:      k.insureds[insuredID].Risk,
			})
		}
	}
	if !k.cfg.DisableCats {
		for _, class := range k.catClasses {
			for _, sl := range perils.ScheduleCatEvents(class, year, k.territories, k.rng, &k.nextEventID) {
				k.queue.Schedule(uint64(sl.Day), sl.Event)
			}
		}
	}
	k.queue.Schedule(uint64(simtime.YearEnd(year)), events.YearEnd{Year: uint32(year)})
}

func (k *Kernel) onCoverageRequested(day uint64, v events.CoverageRequested) {
	year := simtime.YearOf(simtime.Day(day))
	if k.attritionalScheduledYear[v.InsuredId] != year {
		k.attritionalScheduledYear[v.InsuredId] = year
		yearEnd := simtime.YearEnd(year)
		for _, d := range perils.ScheduleAttritional(k.attritional, v.InsuredId, v.Risk.SumInsured, simtime.Day(day), yearEnd, k.rng) {
			k.queue.Schedule(uint64(d.Day), d.Event)
		}
	}
	k.schedule(k.broker.OnCoverageRequested(day, v.InsuredId, v.Risk))
}

func (k *Kernel) onLeadQuoteRequested(day uint64, v events.LeadQuoteRequested) {
	ins, ok := k.insurers[v.InsurerId]
	if !ok {
		return
	}
	k.schedule(ins.OnLeadQuoteRequested(day, v.SubmissionId, v.InsuredId, v.Risk, k.marketAPTPFactor))
}

func (k *Kernel) onQuotePresented(day uint64, v events.QuotePresented) {
	ins, ok := k.insureds[v.InsuredId]
	if !ok {
		return
	}
	k.queue.Schedule(day, ins.OnQuotePresented(v.SubmissionId, v.InsurerId, v.Premium))
}

// scheduleRenewal re-enters the insured's risk into the market at
// day+358 after a rejected quote or a dropped submission (spec.md §4.8).
func (k *Kernel) scheduleRenewal(day uint64, insuredID ids.InsuredId) {
	ins, ok := k.insureds[insuredID]
	if !ok {
		return
	}
	k.queue.Schedule(day+358, events.CoverageRequested{InsuredId: insuredID, Risk: ins.Risk})
}

func (k *Kernel) onQuoteAccepted(day uint64, v events.QuoteAccepted) {
	ins, ok := k.insureds[v.InsuredId]
	if !ok {
		return
	}
	_, scheduled := k.market.OnQuoteAccepted(day, v.SubmissionId, v.InsuredId, v.InsurerId, ins.Risk, v.Premium)
	k.schedule(scheduled)
	// renewal at day+361-3=day+358 so the new PolicyBound (day+3) lands
	// exactly on this policy's expiry day (day+361).
	k.queue.Schedule(day+358, events.CoverageRequested{InsuredId: v.InsuredId, Risk: ins.Risk})
}

func (k *Kernel) onPolicyBound(day uint64, v events.PolicyBound) {
	k.market.OnPolicyBound(v.PolicyId)
	bp, _ := k.market.Policy(v.PolicyId)
	ins, ok := k.insurers[v.InsurerId]
	if !ok {
		return
	}
	ins.OnPolicyBound(v.PolicyId, v.SumInsured, v.Premium, bp.Risk)
	k.broker.OnPolicyBound(v.InsurerId)
	k.marketYTDPremium += v.Premium

	entry := k.log.LastMut()
	if pb, ok := entry.Event.(events.PolicyBound); ok {
		pb.TotalCatExposure = ins.CatAggregate
		entry.Event = pb
	}
}

func (k *Kernel) onPolicyExpired(v events.PolicyExpired) {
	bp, ok := k.market.Policy(v.PolicyId)
	if !ok {
		return
	}
	if ins, ok := k.insurers[bp.InsurerId]; ok {
		ins.OnPolicyExpired(v.PolicyId)
	}
	k.market.OnPolicyExpired(v.PolicyId)
}

func (k *Kernel) onLossEvent(day uint64, v events.LossEvent) {
	class, ok := k.catClassFor(v.Peril)
	if !ok {
		return
	}
	df := perils.SampleEventDamage(class, k.rng)
	k.schedule(k.market.OnLossEvent(day, v.Peril, v.Territory, df))
}

func (k *Kernel) onClaimSettled(day uint64, v events.ClaimSettled) {
	ins, ok := k.insurers[v.InsurerId]
	if !ok {
		return
	}
	remaining, becameInsolvent := ins.OnClaimSettled(v.Amount, v.Peril)
	k.marketYTDClaims += v.Amount

	entry := k.log.LastMut()
	if cs, ok := entry.Event.(events.ClaimSettled); ok {
		cs.RemainingCapital = remaining
		entry.Event = cs
	}
	if becameInsolvent {
		k.log.Push(day, events.InsurerInsolvent{InsurerId: v.InsurerId})
	}
}
