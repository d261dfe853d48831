package simtime

import "testing"

func TestYearOf(t *testing.T) {
	tests := []struct {
		day  Day
		want Year
	}{
		{0, 1},
		{359, 1},
		{360, 2},
		{719, 2},
		{720, 3},
	}
	for _, tt := range tests {
		if got := YearOf(tt.day); got != tt.want {
			t.Errorf("YearOf(%d) = %d, want %d", tt.day, got, tt.want)
		}
	}
}

func TestYearStartAndEnd(t *testing.T) {
	if got := YearStart(1); got != 0 {
		t.Errorf("YearStart(1) = %d, want 0", got)
	}
	if got := YearEnd(1); got != 359 {
		t.Errorf("YearEnd(1) = %d, want 359", got)
	}
	if got := YearStart(2); got != 360 {
		t.Errorf("YearStart(2) = %d, want 360", got)
	}
	if got := YearEnd(2); got != 719 {
		t.Errorf("YearEnd(2) = %d, want 719", got)
	}
}

func TestWithinYear(t *testing.T) {
	if got := WithinYear(0); got != 0 {
		t.Errorf("WithinYear(0) = %d, want 0", got)
	}
	if got := WithinYear(360); got != 0 {
		t.Errorf("WithinYear(360) = %d, want 0", got)
	}
	if got := WithinYear(400); got != 40 {
		t.Errorf("WithinYear(400) = %d, want 40", got)
	}
}

func TestOffset(t *testing.T) {
	d := Day(10)
	if got := d.Offset(5); got != 15 {
		t.Errorf("Offset(5) = %d, want 15", got)
	}
}
