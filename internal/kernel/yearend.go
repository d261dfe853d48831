package kernel

import (
	"github.com/aristath/lloyds-sim/internal/events"
	"github.com/aristath/lloyds-sim/internal/ids"
	"github.com/aristath/lloyds-sim/pkg/formulas"
)

func (k *Kernel) onYearEnd(day uint64, v events.YearEnd) {
	k.broker.OnYearEnd()

	for _, id := range k.insurerOrder {
		ins := k.insurers[id]
		wasInsolvent := ins.Insolvent
		wasInRunoff := ins.InRunoff
		result := ins.OnYearEnd(k.minSumInsured)
		if result.WentInsolvent && !wasInsolvent {
			k.log.Push(day, events.InsurerInsolvent{InsurerId: id})
		}
		if result.EnteredRunoff && !wasInRunoff {
			k.runoffSince[id] = day
			k.log.Push(day, events.InsurerExited{InsurerId: id})
		}
	}

	k.updateMarketAPTPFactor()

	if v.Year > k.cfg.WarmupYears && k.marketAPTPFactor > dynamicEntryThreshold && k.entryCooldownElapsed(v.Year) {
		k.fireMarketEntryEvent(day, v.Year)
	}

	if v.Year < k.totalYears {
		k.queue.Schedule(day, events.YearStart{Year: v.Year + 1})
	}
}

// updateMarketAPTPFactor recomputes the published AP/TP factor from the
// rolling 3-year market loss-ratio buffer (spec.md §4.8). The expense
// ratio used for the market-wide combined ratio is the mean across the
// configured insurers (cfg.Insurers); dynamically entered insurers are
// not included — the formula itself is specified per-insurer in
// spec.md §4.6 but the AP/TP signal is explicitly market-wide.
func (k *Kernel) updateMarketAPTPFactor() {
	yearLR := 0.0
	if k.marketYTDPremium > 0 {
		yearLR = float64(k.marketYTDClaims) / float64(k.marketYTDPremium)
	}
	k.marketLossRatioRing = append(k.marketLossRatioRing, yearLR)
	if len(k.marketLossRatioRing) > 3 {
		k.marketLossRatioRing = k.marketLossRatioRing[len(k.marketLossRatioRing)-3:]
	}
	if len(k.marketLossRatioRing) >= 2 {
		avgLR := formulas.Mean(k.marketLossRatioRing)
		avgCR := avgLR + k.averageExpenseRatio()
		crSignal := formulas.Clamp(avgCR-1, -0.5, 0.8)
		capacityUplift := 0.0
		if k.droppedCount > 10 {
			capacityUplift = 0.05
		}
		k.marketAPTPFactor = 1 + crSignal + capacityUplift
	} else {
		k.marketAPTPFactor = 1.0
	}
	k.marketYTDPremium, k.marketYTDClaims, k.droppedCount = 0, 0, 0
}

func (k *Kernel) averageExpenseRatio() float64 {
	if len(k.cfg.Insurers) == 0 {
		return 0
	}
	ratios := make([]float64, len(k.cfg.Insurers))
	for i, ic := range k.cfg.Insurers {
		ratios[i] = ic.ExpenseRatio
	}
	return formulas.Mean(ratios)
}

func (k *Kernel) entryCooldownElapsed(year uint32) bool {
	return k.lastEntryYear < 0 || int64(year)-k.lastEntryYear > 1
}

// fireMarketEntryEvent performs at most one market event per eligible
// year: a runoff re-entry if one exists (the longest-runoff insurer
// wins), otherwise a fresh dynamic entry cloned from the first insurer's
// config (spec.md §4.8; SPEC_FULL.md's runoff supplement).
func (k *Kernel) fireMarketEntryEvent(day uint64, year uint32) {
	if id, ok := k.longestInRunoff(); ok {
		k.insurers[id].ReEnter()
		delete(k.runoffSince, id)
		k.log.Push(day, events.InsurerReEntered{InsurerId: id})
		k.lastEntryYear = int64(year)
		return
	}
	if len(k.insurerOrder) == 0 {
		return
	}
	base := k.insurers[k.insurerOrder[0]]
	newID := k.nextInsurerID
	k.nextInsurerID++
	clone := base.Clone(newID)
	k.insurers[newID] = clone
	k.insurerOrder = append(k.insurerOrder, newID)
	k.broker.AddInsurer(newID)
	k.log.Push(day, events.InsurerEntered{InsurerId: newID, InitialCapital: clone.InitialCapital})
	k.lastEntryYear = int64(year)
}

// longestInRunoff returns the insurer that has been in runoff the
// longest, ties broken by insurer id ascending. Iteration walks
// insurerOrder rather than the runoffSince map directly so the result
// does not depend on Go's randomized map iteration order — required
// for the determinism guarantee of spec.md §5.
func (k *Kernel) longestInRunoff() (ids.InsurerId, bool) {
	var best ids.InsurerId
	var bestDay uint64
	found := false
	for _, id := range k.insurerOrder {
		since, ok := k.runoffSince[id]
		if !ok {
			continue
		}
		if !found || since < bestDay {
			best, bestDay, found = id, since, true
		}
	}
	return best, found
}
