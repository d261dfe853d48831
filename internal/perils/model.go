// Package perils implements the stochastic damage-fraction and
// event-count models the market draws on: LogNormal/Pareto damage
// fractions and Poisson event scheduling, both seeded from the single
// run-wide RNG.
package perils

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aristath/lloyds-sim/internal/events"
	"github.com/aristath/lloyds-sim/internal/ids"
	"github.com/aristath/lloyds-sim/internal/rng"
	"github.com/aristath/lloyds-sim/internal/simtime"
)

// DamageFractionModel draws a fraction of sum-insured lost to a single
// occurrence of a peril. It has exactly two shapes, matching spec.md
// §4.3: LogNormal for attritional losses, Pareto (capped) for
// catastrophe losses.
type DamageFractionModel struct {
	// LogNormal parameters. IsLogNormal false (the zero value) means
	// "use Pareto".
	IsLogNormal bool
	Mu, Sigma   float64

	// Pareto parameters.
	Scale, Shape, Cap float64
}

// Sample draws one damage fraction, truncated to its model's cap.
func (m DamageFractionModel) Sample(src *rng.Source) float64 {
	if m.IsLogNormal {
		d := distuv.LogNormal{Mu: m.Mu, Sigma: m.Sigma, Src: src}
		return math.Min(d.Rand(), 1.0)
	}
	d := distuv.Pareto{Xm: m.Scale, Alpha: m.Shape, Src: src}
	cap := m.Cap
	if cap <= 0 {
		cap = 1.0
	}
	return math.Min(d.Rand(), cap)
}

// CatEventClass is one configured category of catastrophe peril, e.g.
// Atlantic windstorm, each with its own frequency and damage-fraction
// shape.
type CatEventClass struct {
	Label             string
	Peril             events.Peril
	AnnualFrequency   float64
	ParetoScale       float64
	ParetoShape       float64
	MaxDamageFraction float64
}

func (c CatEventClass) model() DamageFractionModel {
	return DamageFractionModel{Scale: c.ParetoScale, Shape: c.ParetoShape, Cap: c.MaxDamageFraction}
}

// ScheduledLoss pairs a day with the LossEvent that fires on it.
type ScheduledLoss struct {
	Day   simtime.Day
	Event events.LossEvent
}

// ScheduleCatEvents draws a Poisson count of cat events for class c
// within year, placing each uniformly on one of days 1..359 of the year
// (every day but the first, the last included) and assigning it a
// uniform territory. nextID is advanced
// in-place (mirrors the source's next_id counter).
func ScheduleCatEvents(c CatEventClass, year simtime.Year, territories []string, src *rng.Source, nextID *ids.EventId) []ScheduledLoss {
	if len(territories) == 0 || c.AnnualFrequency <= 0 {
		return nil
	}
	pois := distuv.Poisson{Lambda: c.AnnualFrequency, Src: src}
	n := int(pois.Rand())
	yearStart := simtime.YearStart(year)
	out := make([]ScheduledLoss, 0, n)
	for i := 0; i < n; i++ {
		day := yearStart.Offset(1 + uint64(src.Intn(simtime.DaysPerYear-1)))
		territory := territories[src.Intn(len(territories))]
		eventID := *nextID
		*nextID++
		out = append(out, ScheduledLoss{
			Day: day,
			Event: events.LossEvent{
				EventId:   eventID,
				Peril:     c.Peril,
				Territory: territory,
			},
		})
	}
	return out
}

// SampleEventDamage draws the single damage fraction shared by every
// policy affected by a cat LossEvent, per spec.md §4.7: one sample per
// physical event, broadcast to every matching policy.
func SampleEventDamage(c CatEventClass, src *rng.Source) float64 {
	return c.model().Sample(src)
}

// AttritionalConfig parameterizes per-insured day-to-day losses.
type AttritionalConfig struct {
	AnnualRate  float64
	Mu, Sigma   float64
}

func (a AttritionalConfig) model() DamageFractionModel {
	return DamageFractionModel{IsLogNormal: true, Mu: a.Mu, Sigma: a.Sigma}
}

// ScheduledDamage pairs a day with the AssetDamage that fires on it.
type ScheduledDamage struct {
	Day   simtime.Day
	Event events.AssetDamage
}

// ScheduleAttritional draws a Poisson count of attritional losses for
// insuredID occurring strictly after fromDay through the end of the
// insured's coverage year, dropping any that round to zero ground-up
// loss.
func ScheduleAttritional(cfg AttritionalConfig, insuredID ids.InsuredId, sumInsured uint64, fromDay simtime.Day, yearEnd simtime.Day, src *rng.Source) []ScheduledDamage {
	if cfg.AnnualRate <= 0 || yearEnd <= fromDay {
		return nil
	}
	pois := distuv.Poisson{Lambda: cfg.AnnualRate, Src: src}
	n := int(pois.Rand())
	span := uint64(yearEnd - fromDay)
	model := cfg.model()
	out := make([]ScheduledDamage, 0, n)
	for i := 0; i < n; i++ {
		day := fromDay.Offset(1 + uint64(src.Intn(int(span))))
		df := model.Sample(src)
		gul := uint64(math.Round(df * float64(sumInsured)))
		if gul == 0 {
			continue
		}
		out = append(out, ScheduledDamage{
			Day: day,
			Event: events.AssetDamage{
				InsuredId:    insuredID,
				Peril:        events.Attritional,
				GroundUpLoss: gul,
			},
		})
	}
	return out
}

// PML200 computes the 1-in-200 damage fraction across a set of cat event
// classes: max over classes of scale * (200 * lambda)^(1/shape). Used as
// the per-event cat capacity denominator (spec.md §4.8).
func PML200(classes []CatEventClass) float64 {
	var pml float64
	for _, c := range classes {
		if c.ParetoShape <= 0 {
			continue
		}
		v := c.ParetoScale * math.Pow(200*c.AnnualFrequency, 1/c.ParetoShape)
		if v > pml {
			pml = v
		}
	}
	return pml
}
