package events

// factories maps each closed-set Kind to a constructor for its zero
// value, used by Entry.UnmarshalJSON to decode an arbitrary NDJSON line
// without a giant hand-written switch at every call site.
var factories = map[Kind]func() Event{
	KindSimulationStart:   func() Event { return &SimulationStart{} },
	KindYearStart:         func() Event { return &YearStart{} },
	KindYearEnd:           func() Event { return &YearEnd{} },
	KindCoverageRequested: func() Event { return &CoverageRequested{} },
	KindLeadQuoteRequested: func() Event { return &LeadQuoteRequested{} },
	KindLeadQuoteIssued:   func() Event { return &LeadQuoteIssued{} },
	KindLeadQuoteDeclined: func() Event { return &LeadQuoteDeclined{} },
	KindQuotePresented:    func() Event { return &QuotePresented{} },
	KindQuoteAccepted:     func() Event { return &QuoteAccepted{} },
	KindQuoteRejected:     func() Event { return &QuoteRejected{} },
	KindSubmissionDropped: func() Event { return &SubmissionDropped{} },
	KindPolicyBound:       func() Event { return &PolicyBound{} },
	KindPolicyExpired:     func() Event { return &PolicyExpired{} },
	KindLossEvent:         func() Event { return &LossEvent{} },
	KindAssetDamage:       func() Event { return &AssetDamage{} },
	KindClaimSettled:      func() Event { return &ClaimSettled{} },
	KindInsurerInsolvent:  func() Event { return &InsurerInsolvent{} },
	KindInsurerEntered:    func() Event { return &InsurerEntered{} },
	KindInsurerExited:     func() Event { return &InsurerExited{} },
	KindInsurerReEntered:  func() Event { return &InsurerReEntered{} },
}
