package ids

import "testing"

func TestStringMethodsAreDistinctNamespaces(t *testing.T) {
	insurer := InsurerId(7)
	insured := InsuredId(7)
	sub := SubmissionId(7)
	policy := PolicyId(7)

	strs := map[string]bool{
		insurer.String(): true,
		insured.String(): true,
		sub.String():     true,
		policy.String():  true,
	}
	if len(strs) != 4 {
		t.Errorf("expected 4 distinct String() renderings for the same numeric value across id types, got %d: %v", len(strs), strs)
	}
	if insurer.String() != "insurer#7" {
		t.Errorf("InsurerId.String() = %q, want insurer#7", insurer.String())
	}
}
