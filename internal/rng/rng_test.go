package rng

import "testing"

func TestSameSeedProducesSameStream(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 1000; i++ {
		x, y := a.Uint64(), b.Uint64()
		if x != y {
			t.Fatalf("draw %d diverged: %d != %d", i, x, y)
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)
	same := true
	for i := 0; i < 16; i++ {
		if a.Uint64() != b.Uint64() {
			same = false
			break
		}
	}
	if same {
		t.Fatal("distinct seeds produced identical streams for 16 draws")
	}
}

func TestSeedRekeys(t *testing.T) {
	a := New(5)
	first := a.Uint64()
	a.Seed(5)
	if got := a.Uint64(); got != first {
		t.Errorf("Seed(5) after New(5) did not reproduce the first draw: got %d want %d", got, first)
	}
}

func TestFloat64Bounds(t *testing.T) {
	s := New(99)
	for i := 0; i < 10000; i++ {
		f := s.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("Float64() = %v, want in [0,1)", f)
		}
	}
}

func TestIntnBounds(t *testing.T) {
	s := New(7)
	for i := 0; i < 10000; i++ {
		n := s.Intn(5)
		if n < 0 || n >= 5 {
			t.Fatalf("Intn(5) = %d, want in [0,5)", n)
		}
	}
}

func TestIntnPanicsOnNonPositive(t *testing.T) {
	s := New(1)
	defer func() {
		if recover() == nil {
			t.Fatal("Intn(0) did not panic")
		}
	}()
	s.Intn(0)
}

func TestRandUsesSameStream(t *testing.T) {
	s := New(3)
	r := s.Rand()
	// Rand() wraps the same Source, so NormFloat64 must be deterministic
	// across two runs seeded identically.
	a := r.NormFloat64()
	s2 := New(3)
	b := s2.Rand().NormFloat64()
	if a != b {
		t.Errorf("Rand() draws diverged for identical seeds: %v != %v", a, b)
	}
}
