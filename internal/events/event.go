package events

import "github.com/aristath/lloyds-sim/internal/ids"

// Kind identifies which of the closed set of event variants a value is.
// The set is closed deliberately: the dispatch table in internal/kernel
// is a single type switch over these variants instead of relying on
// open polymorphism.
type Kind string

const (
	KindSimulationStart  Kind = "SimulationStart"
	KindYearStart        Kind = "YearStart"
	KindYearEnd          Kind = "YearEnd"
	KindCoverageRequested Kind = "CoverageRequested"
	KindLeadQuoteRequested Kind = "LeadQuoteRequested"
	KindLeadQuoteIssued  Kind = "LeadQuoteIssued"
	KindLeadQuoteDeclined Kind = "LeadQuoteDeclined"
	KindQuotePresented   Kind = "QuotePresented"
	KindQuoteAccepted    Kind = "QuoteAccepted"
	KindQuoteRejected    Kind = "QuoteRejected"
	KindSubmissionDropped Kind = "SubmissionDropped"
	KindPolicyBound      Kind = "PolicyBound"
	KindPolicyExpired    Kind = "PolicyExpired"
	KindLossEvent        Kind = "LossEvent"
	KindAssetDamage      Kind = "AssetDamage"
	KindClaimSettled     Kind = "ClaimSettled"
	KindInsurerInsolvent Kind = "InsurerInsolvent"
	KindInsurerEntered   Kind = "InsurerEntered"
	// KindInsurerExited and KindInsurerReEntered back the voluntary
	// runoff supplement from original_source/src/events.rs; they are
	// only ever emitted when runoff is configured.
	KindInsurerExited    Kind = "InsurerExited"
	KindInsurerReEntered Kind = "InsurerReEntered"
)

// Event is the closed set of things that can happen in the market. Every
// variant below is an Event. The compiler does not check that the
// dispatch table has a case for each one; a variant without a case is
// ignored when dispatched.
type Event interface {
	Kind() Kind
}

type SimulationStart struct {
	YearStart     uint32 `json:"year_start"`
	WarmupYears   uint32 `json:"warmup_years"`
	AnalysisYears uint32 `json:"analysis_years"`
	RunID         string `json:"run_id,omitempty"`
}

func (SimulationStart) Kind() Kind { return KindSimulationStart }

type YearStart struct {
	Year uint32 `json:"year"`
}

func (YearStart) Kind() Kind { return KindYearStart }

type YearEnd struct {
	Year uint32 `json:"year"`
}

func (YearEnd) Kind() Kind { return KindYearEnd }

type CoverageRequested struct {
	InsuredId ids.InsuredId `json:"insured_id"`
	Risk      Risk          `json:"risk"`
}

func (CoverageRequested) Kind() Kind { return KindCoverageRequested }

type LeadQuoteRequested struct {
	SubmissionId ids.SubmissionId `json:"submission_id"`
	InsuredId    ids.InsuredId    `json:"insured_id"`
	InsurerId    ids.InsurerId    `json:"insurer_id"`
	Risk         Risk             `json:"risk"`
}

func (LeadQuoteRequested) Kind() Kind { return KindLeadQuoteRequested }

type LeadQuoteIssued struct {
	SubmissionId        ids.SubmissionId `json:"submission_id"`
	InsuredId           ids.InsuredId    `json:"insured_id"`
	InsurerId           ids.InsurerId    `json:"insurer_id"`
	ATP                 uint64           `json:"atp"`
	Premium             uint64           `json:"premium"`
	CatExposureAtQuote  uint64           `json:"cat_exposure_at_quote"`
}

func (LeadQuoteIssued) Kind() Kind { return KindLeadQuoteIssued }

type LeadQuoteDeclined struct {
	SubmissionId ids.SubmissionId `json:"submission_id"`
	InsuredId    ids.InsuredId    `json:"insured_id"`
	InsurerId    ids.InsurerId    `json:"insurer_id"`
	Reason       DeclineReason    `json:"reason"`
}

func (LeadQuoteDeclined) Kind() Kind { return KindLeadQuoteDeclined }

type QuotePresented struct {
	SubmissionId ids.SubmissionId `json:"submission_id"`
	InsuredId    ids.InsuredId    `json:"insured_id"`
	InsurerId    ids.InsurerId    `json:"insurer_id"`
	Premium      uint64           `json:"premium"`
}

func (QuotePresented) Kind() Kind { return KindQuotePresented }

type QuoteAccepted struct {
	SubmissionId ids.SubmissionId `json:"submission_id"`
	InsuredId    ids.InsuredId    `json:"insured_id"`
	InsurerId    ids.InsurerId    `json:"insurer_id"`
	Premium      uint64           `json:"premium"`
}

func (QuoteAccepted) Kind() Kind { return KindQuoteAccepted }

type QuoteRejected struct {
	SubmissionId ids.SubmissionId `json:"submission_id"`
	InsuredId    ids.InsuredId    `json:"insured_id"`
	InsurerId    ids.InsurerId    `json:"insurer_id"`
}

func (QuoteRejected) Kind() Kind { return KindQuoteRejected }

type SubmissionDropped struct {
	SubmissionId ids.SubmissionId `json:"submission_id"`
	InsuredId    ids.InsuredId    `json:"insured_id"`
}

func (SubmissionDropped) Kind() Kind { return KindSubmissionDropped }

type PolicyBound struct {
	PolicyId         ids.PolicyId     `json:"policy_id"`
	SubmissionId     ids.SubmissionId `json:"submission_id"`
	InsuredId        ids.InsuredId    `json:"insured_id"`
	InsurerId        ids.InsurerId    `json:"insurer_id"`
	Premium          uint64           `json:"premium"`
	SumInsured       uint64           `json:"sum_insured"`
	TotalCatExposure uint64           `json:"total_cat_exposure"`
}

func (PolicyBound) Kind() Kind { return KindPolicyBound }

type PolicyExpired struct {
	PolicyId ids.PolicyId `json:"policy_id"`
}

func (PolicyExpired) Kind() Kind { return KindPolicyExpired }

type LossEvent struct {
	EventId   ids.EventId `json:"event_id"`
	Peril     Peril       `json:"peril"`
	Territory string      `json:"territory"`
}

func (LossEvent) Kind() Kind { return KindLossEvent }

type AssetDamage struct {
	InsuredId     ids.InsuredId `json:"insured_id"`
	Peril         Peril         `json:"peril"`
	GroundUpLoss  uint64        `json:"ground_up_loss"`
}

func (AssetDamage) Kind() Kind { return KindAssetDamage }

type ClaimSettled struct {
	PolicyId         ids.PolicyId  `json:"policy_id"`
	InsurerId        ids.InsurerId `json:"insurer_id"`
	Amount           uint64        `json:"amount"`
	Peril            Peril         `json:"peril"`
	RemainingCapital int64         `json:"remaining_capital"`
}

func (ClaimSettled) Kind() Kind { return KindClaimSettled }

type InsurerInsolvent struct {
	InsurerId ids.InsurerId `json:"insurer_id"`
}

func (InsurerInsolvent) Kind() Kind { return KindInsurerInsolvent }

type InsurerEntered struct {
	InsurerId      ids.InsurerId `json:"insurer_id"`
	InitialCapital int64         `json:"initial_capital"`
}

func (InsurerEntered) Kind() Kind { return KindInsurerEntered }

type InsurerExited struct {
	InsurerId ids.InsurerId `json:"insurer_id"`
}

func (InsurerExited) Kind() Kind { return KindInsurerExited }

type InsurerReEntered struct {
	InsurerId ids.InsurerId `json:"insurer_id"`
}

func (InsurerReEntered) Kind() Kind { return KindInsurerReEntered }
