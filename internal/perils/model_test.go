package perils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/lloyds-sim/internal/ids"
	"github.com/aristath/lloyds-sim/internal/rng"
	"github.com/aristath/lloyds-sim/internal/simtime"
)

func TestDamageFractionModel_LogNormalCapsAtOne(t *testing.T) {
	src := rng.New(1)
	m := DamageFractionModel{IsLogNormal: true, Mu: 10, Sigma: 5} // absurdly fat tail
	for i := 0; i < 200; i++ {
		f := m.Sample(src)
		assert.GreaterOrEqual(t, f, 0.0)
		assert.LessOrEqual(t, f, 1.0)
	}
}

func TestDamageFractionModel_ParetoRespectsExplicitCap(t *testing.T) {
	src := rng.New(2)
	m := DamageFractionModel{Scale: 0.05, Shape: 1.2, Cap: 0.4}
	for i := 0; i < 200; i++ {
		f := m.Sample(src)
		assert.LessOrEqual(t, f, 0.4)
	}
}

func TestDamageFractionModel_ParetoDefaultCapIsOne(t *testing.T) {
	src := rng.New(3)
	m := DamageFractionModel{Scale: 0.05, Shape: 1.2}
	for i := 0; i < 500; i++ {
		f := m.Sample(src)
		assert.LessOrEqual(t, f, 1.0)
	}
}

func TestScheduleCatEvents_NoTerritoriesOrZeroFrequencyYieldsNone(t *testing.T) {
	src := rng.New(1)
	var nextID ids.EventId
	c := CatEventClass{AnnualFrequency: 2.0}
	assert.Empty(t, ScheduleCatEvents(c, 1, nil, src, &nextID))

	c2 := CatEventClass{AnnualFrequency: 0}
	assert.Empty(t, ScheduleCatEvents(c2, 1, []string{"T1"}, src, &nextID))
}

func TestScheduleCatEvents_PlacesWithinYearAndAdvancesEventID(t *testing.T) {
	src := rng.New(42)
	var nextID ids.EventId
	c := CatEventClass{Label: "Wind", Peril: "Wind", AnnualFrequency: 3.0, ParetoScale: 0.05, ParetoShape: 1.5, MaxDamageFraction: 0.8}
	territories := []string{"T1", "T2"}
	yearStart := simtime.YearStart(2)

	losses := ScheduleCatEvents(c, 2, territories, src, &nextID)
	for i, sl := range losses {
		assert.Greater(t, sl.Day, yearStart)
		assert.Less(t, sl.Day, yearStart.Offset(simtime.DaysPerYear))
		assert.Equal(t, ids.EventId(i), sl.Event.EventId)
		assert.Contains(t, territories, sl.Event.Territory)
		assert.Equal(t, c.Peril, sl.Event.Peril)
	}
	assert.EqualValues(t, len(losses), nextID)
}

func TestSampleEventDamage_WithinClassCap(t *testing.T) {
	src := rng.New(7)
	c := CatEventClass{ParetoScale: 0.05, ParetoShape: 1.5, MaxDamageFraction: 0.6}
	for i := 0; i < 100; i++ {
		f := SampleEventDamage(c, src)
		assert.LessOrEqual(t, f, 0.6)
		assert.GreaterOrEqual(t, f, 0.0)
	}
}

func TestScheduleAttritional_DropsZeroGroundUpLoss(t *testing.T) {
	src := rng.New(5)
	cfg := AttritionalConfig{AnnualRate: 4.0, Mu: -10, Sigma: 0.1} // tiny fractions, rounds to 0 on a small sum insured
	out := ScheduleAttritional(cfg, 1, 100, 0, simtime.Day(360), src)
	for _, sd := range out {
		assert.Greater(t, sd.Event.GroundUpLoss, uint64(0))
	}
}

func TestScheduleAttritional_NoRateOrNoSpanYieldsNone(t *testing.T) {
	src := rng.New(1)
	cfg := AttritionalConfig{AnnualRate: 0}
	assert.Empty(t, ScheduleAttritional(cfg, 1, 1_000_000, 0, simtime.Day(360), src))

	cfg2 := AttritionalConfig{AnnualRate: 2.0}
	assert.Empty(t, ScheduleAttritional(cfg2, 1, 1_000_000, 360, simtime.Day(300), src))
}

func TestScheduleAttritional_DaysFallWithinSpan(t *testing.T) {
	src := rng.New(9)
	cfg := AttritionalConfig{AnnualRate: 5.0, Mu: -3, Sigma: 0.5}
	from := simtime.Day(10)
	to := simtime.Day(370)
	out := ScheduleAttritional(cfg, 1, 1_000_000, from, to, src)
	for _, sd := range out {
		assert.Greater(t, sd.Day, from)
		assert.LessOrEqual(t, sd.Day, to)
		assert.Equal(t, ids.InsuredId(1), sd.Event.InsuredId)
	}
}

func TestPML200_MaxOverClassesAndSkipsNonPositiveShape(t *testing.T) {
	classes := []CatEventClass{
		{ParetoScale: 0.05, ParetoShape: 1.5, AnnualFrequency: 0.2},
		{ParetoScale: 0.10, ParetoShape: 2.0, AnnualFrequency: 0.05},
		{ParetoScale: 0.20, ParetoShape: 0, AnnualFrequency: 1.0}, // skipped: invalid shape
	}
	got := PML200(classes)
	require.Greater(t, got, 0.0)

	var want float64
	for _, c := range classes[:2] {
		v := c.ParetoScale * math.Pow(200*c.AnnualFrequency, 1/c.ParetoShape)
		if v > want {
			want = v
		}
	}
	assert.InDelta(t, want, got, 1e-9)
}

func TestPML200_EmptyClassesIsZero(t *testing.T) {
	assert.Equal(t, 0.0, PML200(nil))
}
