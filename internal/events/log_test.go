package events

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/aristath/lloyds-sim/internal/ids"
)

func TestEntryMarshalUnmarshalRoundTrip(t *testing.T) {
	entry := Entry{
		Day: 42,
		Event: PolicyBound{
			PolicyId:         ids.PolicyId(1),
			SubmissionId:     ids.SubmissionId(2),
			InsuredId:        ids.InsuredId(3),
			InsurerId:        ids.InsurerId(4),
			Premium:          1000,
			SumInsured:       100000,
			TotalCatExposure: 5000,
		},
	}

	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Entry
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Day != entry.Day {
		t.Errorf("Day = %d, want %d", got.Day, entry.Day)
	}
	pb, ok := got.Event.(*PolicyBound)
	if !ok {
		t.Fatalf("Event type = %T, want *PolicyBound", got.Event)
	}
	if *pb != entry.Event.(PolicyBound) {
		t.Errorf("round-tripped event = %+v, want %+v", *pb, entry.Event)
	}
}

func TestEntryMarshalWireShape(t *testing.T) {
	entry := Entry{Day: 7, Event: YearStart{Year: 3}}
	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatalf("Unmarshal generic: %v", err)
	}
	if _, ok := generic["day"]; !ok {
		t.Error("wire format missing top-level \"day\" key")
	}
	var eventObj map[string]json.RawMessage
	if err := json.Unmarshal(generic["event"], &eventObj); err != nil {
		t.Fatalf("Unmarshal event: %v", err)
	}
	if _, ok := eventObj["YearStart"]; !ok {
		t.Errorf("event object missing Kind key, got %v", eventObj)
	}
}

func TestUnmarshalUnknownKindWrapsErrSerde(t *testing.T) {
	var e Entry
	err := json.Unmarshal([]byte(`{"day":1,"event":{"NotARealKind":{}}}`), &e)
	if err == nil {
		t.Fatal("expected error for unrecognized kind")
	}
	if !errors.Is(err, ErrSerde) {
		t.Errorf("error = %v, want wrapping ErrSerde", err)
	}
}

func TestUnmarshalMalformedJSONWrapsErrSerde(t *testing.T) {
	var e Entry
	// Called directly: json.Unmarshal would reject the syntax itself
	// before UnmarshalJSON runs.
	err := e.UnmarshalJSON([]byte(`not json`))
	if !errors.Is(err, ErrSerde) {
		t.Errorf("error = %v, want wrapping ErrSerde", err)
	}
}

func TestUnmarshalMultiKeyEventObjectErrors(t *testing.T) {
	var e Entry
	err := json.Unmarshal([]byte(`{"day":1,"event":{"YearStart":{},"YearEnd":{}}}`), &e)
	if !errors.Is(err, ErrSerde) {
		t.Errorf("error = %v, want wrapping ErrSerde for multi-key event object", err)
	}
}

func TestLogPushAndLastMut(t *testing.T) {
	var l Log
	if l.LastMut() != nil {
		t.Fatal("LastMut on empty log must return nil")
	}
	l.Push(1, YearStart{Year: 1})
	idx := l.Push(2, ClaimSettled{Amount: 10, RemainingCapital: 0})
	if idx != 1 {
		t.Errorf("Push returned index %d, want 1", idx)
	}
	entry := l.LastMut()
	cs := entry.Event.(ClaimSettled)
	cs.RemainingCapital = 999
	entry.Event = cs

	got := l.At(1).Event.(ClaimSettled)
	if got.RemainingCapital != 999 {
		t.Errorf("LastMut back-fill didn't persist: RemainingCapital = %d, want 999", got.RemainingCapital)
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
	if l.IsEmpty() {
		t.Error("IsEmpty() = true for non-empty log")
	}
}

func TestLogIsEmpty(t *testing.T) {
	var l Log
	if !l.IsEmpty() {
		t.Error("IsEmpty() = false for fresh log")
	}
}
