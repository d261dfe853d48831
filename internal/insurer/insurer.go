// Package insurer implements the blended actuarial+underwriter pricing
// model, the exposure-limit checks applied to every lead submission, and
// the year-end EWMA experience update each insurer runs independently.
package insurer

import (
	"math"

	"github.com/aristath/lloyds-sim/internal/events"
	"github.com/aristath/lloyds-sim/internal/ids"
	"github.com/aristath/lloyds-sim/pkg/formulas"
)

// Config is the static, immutable-after-construction parameterization of
// one insurer, taken directly from the per-insurer section of spec.md §6.
type Config struct {
	ID                        ids.InsurerId
	InitialCapital            int64
	AttritionalELF            float64
	CatELF                    float64
	TargetLossRatio           float64
	EWMACredibility           float64
	ExpenseRatio              float64
	ProfitLoading             float64
	NetLineCapacity           *float64
	SolvencyCapitalFraction   *float64
	PMLDamageFractionOverride *float64
	DepletionSensitivity      float64

	// RunoffCRThreshold/RunoffYearsToTrigger gate the voluntary-runoff
	// supplement (see SPEC_FULL.md); zero on either disables it.
	RunoffCRThreshold     float64
	RunoffYearsToTrigger  uint32
}

// Insurer is the mutable per-run state for one underwriting entity.
type Insurer struct {
	Config

	Capital   int64
	Insolvent bool
	InRunoff  bool

	attritionalELF float64 // updates each YearEnd; Config.CatELF never does

	ytdPremium           uint64
	ytdTotalClaims       uint64
	ytdAttritionalClaims uint64
	ytdExposure          uint64

	CatAggregate          uint64
	catPolicyContribution map[ids.PolicyId]uint64

	ownLossRatios []float64
	ownYears      uint32

	// pmlDamageFraction200 is the per-territory-adjusted PML-200 used as
	// the cat-aggregate capacity denominator.
	pmlDamageFraction200 float64

	runoffConsecutiveYears uint32
}

// New constructs an insurer at full capital with no claims history.
// pml200 is the market-wide PML-200 (perils.PML200 over the configured
// cat event classes); numTerritories divides it so geographic
// diversification correctly expands cat capacity.
func New(cfg Config, pml200 float64, numTerritories int) *Insurer {
	pml := pml200
	if cfg.PMLDamageFractionOverride != nil {
		pml = *cfg.PMLDamageFractionOverride
	}
	if numTerritories > 0 {
		pml /= float64(numTerritories)
	}
	return &Insurer{
		Config:                cfg,
		Capital:               cfg.InitialCapital,
		attritionalELF:        cfg.AttritionalELF,
		catPolicyContribution: make(map[ids.PolicyId]uint64),
		pmlDamageFraction200:  pml,
	}
}

// Clone returns a fresh Insurer sharing this one's config (capital, ELFs,
// loadings, caps, depletion sensitivity) but a new id and no claims
// history, for dynamic entry (spec.md §4.8).
func (ins *Insurer) Clone(newID ids.InsurerId) *Insurer {
	cfg := ins.Config
	cfg.ID = newID
	return New(cfg, 0, 1).withPML(ins.pmlDamageFraction200)
}

func (ins *Insurer) withPML(pml float64) *Insurer {
	ins.pmlDamageFraction200 = pml
	return ins
}

// ActuarialPrice is the expected-loss-based price floor (ATP).
func (ins *Insurer) ActuarialPrice(risk events.Risk) uint64 {
	atp := (ins.attritionalELF + ins.CatELF) * float64(risk.SumInsured) / ins.TargetLossRatio
	return uint64(math.Round(atp))
}

// technicalPrice applies profit loading to the actuarial price.
func (ins *Insurer) technicalPrice(atp uint64) uint64 {
	return uint64(math.Round(float64(atp) * (1 + ins.ProfitLoading)))
}

// credibility weights how much of the blend comes from own experience
// versus the market-wide AP/TP signal.
func (ins *Insurer) credibility() float64 {
	return math.Min(float64(ins.ownYears)/5, 1)
}

func (ins *Insurer) capDepletionAdj() float64 {
	depletion := math.Max(0, 1-float64(ins.Capital)/float64(ins.InitialCapital))
	return formulas.Clamp(depletion*ins.DepletionSensitivity, 0, 0.30)
}

func (ins *Insurer) ownCRSignal() float64 {
	if len(ins.ownLossRatios) == 0 {
		return 0
	}
	avg := formulas.Mean(ins.ownLossRatios)
	return formulas.Clamp(avg+ins.ExpenseRatio-1, -0.25, 0.40)
}

func (ins *Insurer) ownFactor() float64 {
	return formulas.Clamp(1+ins.ownCRSignal()+ins.capDepletionAdj(), 0.90, 1.40)
}

// blendedFactor combines own experience and the market-wide AP/TP signal,
// weighted by credibility.
func (ins *Insurer) blendedFactor(marketAPTPFactor float64) float64 {
	cred := ins.credibility()
	return cred*ins.ownFactor() + (1-cred)*marketAPTPFactor
}

func declined(day uint64, subID ids.SubmissionId, insuredID ids.InsuredId, insurerID ids.InsurerId, reason events.DeclineReason) []events.Scheduled {
	return []events.Scheduled{{Day: day, Event: events.LeadQuoteDeclined{
		SubmissionId: subID, InsuredId: insuredID, InsurerId: insurerID, Reason: reason,
	}}}
}

// OnLeadQuoteRequested prices the risk or declines it. Checks run in the
// order spec.md §4.6 fixes: runoff, then insolvency, then line size, then
// cat aggregate.
func (ins *Insurer) OnLeadQuoteRequested(day uint64, subID ids.SubmissionId, insuredID ids.InsuredId, risk events.Risk, marketAPTPFactor float64) []events.Scheduled {
	if ins.InRunoff {
		return declined(day, subID, insuredID, ins.ID, events.InRunoff)
	}
	if ins.Insolvent {
		return declined(day, subID, insuredID, ins.ID, events.Insolvent)
	}
	if ins.NetLineCapacity != nil {
		capacity := *ins.NetLineCapacity * math.Max(0, float64(ins.Capital))
		if float64(risk.SumInsured) > capacity {
			return declined(day, subID, insuredID, ins.ID, events.MaxLineSizeExceeded)
		}
	}
	if ins.SolvencyCapitalFraction != nil && risk.CoversCat() && ins.pmlDamageFraction200 > 0 {
		limit := *ins.SolvencyCapitalFraction * math.Max(0, float64(ins.Capital)) / ins.pmlDamageFraction200
		if float64(ins.CatAggregate+risk.SumInsured) > limit {
			return declined(day, subID, insuredID, ins.ID, events.MaxCatAggregateBreached)
		}
	}
	atp := ins.ActuarialPrice(risk)
	tp := ins.technicalPrice(atp)
	premium := uint64(math.Round(float64(tp) * ins.blendedFactor(marketAPTPFactor)))
	return []events.Scheduled{{Day: day, Event: events.LeadQuoteIssued{
		SubmissionId:       subID,
		InsuredId:          insuredID,
		InsurerId:          ins.ID,
		ATP:                atp,
		Premium:            premium,
		CatExposureAtQuote: ins.CatAggregate,
	}}}
}

// OnPolicyBound credits net premium to capital and records cat exposure.
func (ins *Insurer) OnPolicyBound(policyID ids.PolicyId, sumInsured, premium uint64, risk events.Risk) {
	net := uint64(math.Round(float64(premium) * (1 - ins.ExpenseRatio)))
	ins.Capital += int64(net)
	ins.ytdExposure += sumInsured
	ins.ytdPremium += premium
	if risk.CoversCat() {
		ins.CatAggregate += sumInsured
		ins.catPolicyContribution[policyID] = sumInsured
	}
}

// OnPolicyExpired releases the policy's cat-aggregate contribution.
func (ins *Insurer) OnPolicyExpired(policyID ids.PolicyId) {
	contribution, ok := ins.catPolicyContribution[policyID]
	if !ok {
		return
	}
	if contribution > ins.CatAggregate {
		ins.CatAggregate = 0
	} else {
		ins.CatAggregate -= contribution
	}
	delete(ins.catPolicyContribution, policyID)
}

// OnClaimSettled deducts the claim from capital (floored at 0), updates
// the YTD accumulators, and reports whether this claim just drove the
// insurer to insolvency.
func (ins *Insurer) OnClaimSettled(amount uint64, peril events.Peril) (remainingCapital int64, becameInsolvent bool) {
	deduct := amount
	if ins.Capital >= 0 && deduct > uint64(ins.Capital) {
		deduct = uint64(ins.Capital)
	}
	ins.Capital -= int64(deduct)
	if ins.Capital < 0 {
		ins.Capital = 0
	}
	ins.ytdTotalClaims += amount
	if peril == events.Attritional {
		ins.ytdAttritionalClaims += amount
	}
	if ins.Capital == 0 && !ins.Insolvent {
		ins.Insolvent = true
		becameInsolvent = true
	}
	return ins.Capital, becameInsolvent
}

// YearEndResult reports what OnYearEnd decided, for the kernel to turn
// into events.
type YearEndResult struct {
	WentInsolvent bool
	EnteredRunoff bool
}

// OnYearEnd rolls the EWMA, appends this year's loss ratio to the
// rolling-3 ring, runs the zombie check, and — if configured — the
// voluntary-runoff check.
func (ins *Insurer) OnYearEnd(minSumInsured uint64) YearEndResult {
	if ins.ytdExposure > 0 {
		observed := float64(ins.ytdAttritionalClaims) / float64(ins.ytdExposure)
		ins.attritionalELF = formulas.EWMA(ins.EWMACredibility, observed, ins.attritionalELF)
	}
	if ins.ytdPremium > 0 {
		lr := float64(ins.ytdTotalClaims) / float64(ins.ytdPremium)
		ins.ownLossRatios = append(ins.ownLossRatios, lr)
		if len(ins.ownLossRatios) > 3 {
			ins.ownLossRatios = ins.ownLossRatios[len(ins.ownLossRatios)-3:]
		}
	}
	ins.ownYears++
	ins.ytdPremium, ins.ytdTotalClaims, ins.ytdAttritionalClaims, ins.ytdExposure = 0, 0, 0, 0

	result := YearEndResult{}
	if !ins.Insolvent && ins.NetLineCapacity != nil {
		capacity := *ins.NetLineCapacity * math.Max(0, float64(ins.Capital))
		if capacity < float64(minSumInsured) {
			ins.Insolvent = true
			result.WentInsolvent = true
		}
	}

	if !ins.Insolvent && !ins.InRunoff && ins.RunoffCRThreshold > 0 && ins.RunoffYearsToTrigger > 0 {
		if len(ins.ownLossRatios) > 0 {
			avgCR := formulas.Mean(ins.ownLossRatios) + ins.ExpenseRatio
			if avgCR > ins.RunoffCRThreshold {
				ins.runoffConsecutiveYears++
			} else {
				ins.runoffConsecutiveYears = 0
			}
			if ins.runoffConsecutiveYears >= ins.RunoffYearsToTrigger {
				ins.InRunoff = true
				result.EnteredRunoff = true
			}
		}
	}
	return result
}

// ReEnter reverses voluntary runoff without touching capital, ELF state,
// or own-years credibility — the reference model treats runoff as a
// business decision, not a capital event.
func (ins *Insurer) ReEnter() {
	ins.InRunoff = false
	ins.runoffConsecutiveYears = 0
}

// OwnYears exposes the credibility counter for the kernel's entry/re-entry bookkeeping.
func (ins *Insurer) OwnYears() uint32 { return ins.ownYears }
