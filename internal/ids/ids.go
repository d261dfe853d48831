// Package ids defines the opaque, disjoint identifier namespaces used
// across the market so an insurer id can never be passed where a policy
// id is expected.
package ids

import "fmt"

// InsurerId identifies an insurer for the lifetime of a run.
type InsurerId uint64

func (i InsurerId) String() string { return fmt.Sprintf("insurer#%d", uint64(i)) }

// InsuredId identifies an insured (a property owner) for the lifetime of a run.
type InsuredId uint64

func (i InsuredId) String() string { return fmt.Sprintf("insured#%d", uint64(i)) }

// SubmissionId identifies a single in-flight quoting attempt.
type SubmissionId uint64

func (i SubmissionId) String() string { return fmt.Sprintf("submission#%d", uint64(i)) }

// PolicyId identifies a bound policy.
type PolicyId uint64

func (i PolicyId) String() string { return fmt.Sprintf("policy#%d", uint64(i)) }

// EventId identifies a single peril occurrence (cat LossEvent).
type EventId uint64
