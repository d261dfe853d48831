// Package kernel wires the broker, market, and insurer panel into the
// discrete-event scheduler: it owns the min-heap queue and the append-
// only log, drives the dispatch table of spec.md §4.8, and runs the
// year-end market feedback loop (EWMA publication, AP/TP factor, dynamic
// entry, and the voluntary-runoff supplement).
package kernel

import (
	"math"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/lloyds-sim/internal/broker"
	"github.com/aristath/lloyds-sim/internal/config"
	"github.com/aristath/lloyds-sim/internal/events"
	"github.com/aristath/lloyds-sim/internal/ids"
	"github.com/aristath/lloyds-sim/internal/insured"
	"github.com/aristath/lloyds-sim/internal/insurer"
	"github.com/aristath/lloyds-sim/internal/market"
	"github.com/aristath/lloyds-sim/internal/perils"
	"github.com/aristath/lloyds-sim/internal/rng"
	"github.com/aristath/lloyds-sim/internal/simtime"
)

// dynamicEntryThreshold is the AP/TP factor that triggers dynamic entry
// or runoff re-entry (spec.md §4.8).
const dynamicEntryThreshold = 1.10

// Kernel is the single-owner simulation state for one run. Nothing
// outside this package mutates the market, broker, or insurer panel;
// every handler is invoked with them mutably borrowed only for the
// duration of the call (spec.md §9).
type Kernel struct {
	cfg    *config.Config
	logger zerolog.Logger

	log        *events.Log
	queue      *events.Queue
	rng        *rng.Source
	horizon    uint64
	totalYears uint32

	insurers     map[ids.InsurerId]*insurer.Insurer
	insurerOrder []ids.InsurerId
	nextInsurerID ids.InsurerId

	broker *broker.Broker
	market *market.Market

	insureds     map[ids.InsuredId]*insured.Insured
	insuredOrder []ids.InsuredId

	catClasses  []perils.CatEventClass
	attritional perils.AttritionalConfig
	territories []string

	nextEventID ids.EventId

	attritionalScheduledYear map[ids.InsuredId]simtime.Year

	marketLossRatioRing []float64
	marketAPTPFactor    float64
	lastEntryYear       int64
	marketYTDPremium    uint64
	marketYTDClaims     uint64
	droppedCount        uint64

	runoffSince  map[ids.InsurerId]uint64
	minSumInsured uint64

	runID string
}

// New constructs a Kernel from a validated Config. Construction never
// fails on its own — Config.Validate already rejected anything the
// kernel can't run — and performs no I/O.
func New(cfg *config.Config, logger zerolog.Logger) *Kernel {
	catClasses := make([]perils.CatEventClass, 0, len(cfg.Catastrophe.EventClasses))
	if !cfg.DisableCats {
		for _, ec := range cfg.Catastrophe.EventClasses {
			catClasses = append(catClasses, perils.CatEventClass{
				Label:             ec.Label,
				Peril:             events.Peril(ec.Label),
				AnnualFrequency:   ec.AnnualFrequency,
				ParetoScale:       ec.ParetoScale,
				ParetoShape:       ec.ParetoShape,
				MaxDamageFraction: ec.MaxDamageFraction,
			})
		}
	}
	pml200 := perils.PML200(catClasses)
	numTerritories := len(cfg.Catastrophe.Territories)
	if numTerritories == 0 {
		numTerritories = 1
	}

	insurers := make(map[ids.InsurerId]*insurer.Insurer, len(cfg.Insurers))
	insurerOrder := make([]ids.InsurerId, 0, len(cfg.Insurers))
	var maxInsurerID uint64
	for _, ic := range cfg.Insurers {
		id := ids.InsurerId(ic.ID)
		insurers[id] = insurer.New(insurer.Config{
			ID:                        id,
			InitialCapital:            ic.InitialCapital,
			AttritionalELF:            ic.AttritionalELF,
			CatELF:                    ic.CatELF,
			TargetLossRatio:           ic.TargetLossRatio,
			EWMACredibility:           ic.EWMACredibility,
			ExpenseRatio:              ic.ExpenseRatio,
			ProfitLoading:             ic.ProfitLoading,
			NetLineCapacity:           ic.NetLineCapacity,
			SolvencyCapitalFraction:   ic.SolvencyCapitalFraction,
			PMLDamageFractionOverride: ic.PMLDamageFractionOverride,
			DepletionSensitivity:      ic.DepletionSensitivity,
			RunoffCRThreshold:         ic.RunoffCRThreshold,
			RunoffYearsToTrigger:      ic.RunoffYearsToTrigger,
		}, pml200, numTerritories)
		insurerOrder = append(insurerOrder, id)
		if ic.ID > maxInsurerID {
			maxInsurerID = ic.ID
		}
	}

	insurerIDs := append([]ids.InsurerId(nil), insurerOrder...)
	b := broker.New(insurerIDs, cfg.QuotesPerSubmission)

	territories := cfg.Catastrophe.Territories
	if len(territories) == 0 {
		territories = []string{"default"}
	}
	insureds := make(map[ids.InsuredId]*insured.Insured, cfg.NInsureds)
	insuredOrder := make([]ids.InsuredId, 0, cfg.NInsureds)
	minSumInsured := cfg.LargeAssetValue
	if cfg.SmallAssetValue > 0 && (minSumInsured == 0 || cfg.SmallAssetValue < minSumInsured) {
		minSumInsured = cfg.SmallAssetValue
	}
	perilsCovered := make([]events.Peril, 0, len(catClasses)+1)
	perilsCovered = append(perilsCovered, events.Attritional)
	for _, c := range catClasses {
		perilsCovered = append(perilsCovered, c.Peril)
	}
	largeFraction := cfg.LargeFraction
	for i := 0; i < cfg.NInsureds; i++ {
		id := ids.InsuredId(uint64(i) + 1)
		sumInsured := cfg.SmallAssetValue
		if largeFraction > 0 && float64(i)/math.Max(1, float64(cfg.NInsureds)) >= (1-largeFraction) {
			sumInsured = cfg.LargeAssetValue
		}
		territory := territories[i%len(territories)]
		risk := events.Risk{SumInsured: sumInsured, Territory: territory, PerilsCovered: perilsCovered}
		insureds[id] = insured.New(id, risk, cfg.MaxRateOnLine)
		insuredOrder = append(insuredOrder, id)
	}

	totalYears := cfg.WarmupYears + cfg.Years

	return &Kernel{
		cfg:                      cfg,
		logger:                   logger,
		log:                      &events.Log{},
		queue:                    events.NewQueue(),
		rng:                      rng.New(cfg.Seed),
		horizon:                  uint64(simtime.YearEnd(simtime.Year(totalYears))),
		totalYears:               totalYears,
		insurers:                 insurers,
		insurerOrder:             insurerOrder,
		nextInsurerID:            ids.InsurerId(maxInsurerID + 1),
		broker:                   b,
		market:                   market.New(),
		insureds:                 insureds,
		insuredOrder:             insuredOrder,
		catClasses:               catClasses,
		attritional:              perils.AttritionalConfig{AnnualRate: cfg.Attritional.AnnualRate, Mu: cfg.Attritional.Mu, Sigma: cfg.Attritional.Sigma},
		territories:              territories,
		attritionalScheduledYear: make(map[ids.InsuredId]simtime.Year),
		lastEntryYear:            -1,
		runoffSince:              make(map[ids.InsurerId]uint64),
		minSumInsured:            minSumInsured,
		// Derived from the seed, not drawn at random, so identical runs
		// produce identical logs down to SimulationStart.
		runID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(strconv.FormatUint(cfg.Seed, 10))).String(),
	}
}

// Log returns the run's event log. Valid to call at any time; it grows
// as Run executes.
func (k *Kernel) Log() *events.Log { return k.log }

// Start pushes the opening SimulationStart event. Call once before Run.
//
// cfg.Years is the number of analysis years, not the run's total length:
// the run spans cfg.WarmupYears + cfg.Years years in total, matching
// analysis_years/total_years in the original simulator.
func (k *Kernel) Start() {
	k.queue.Schedule(0, events.SimulationStart{
		YearStart:     1,
		WarmupYears:   k.cfg.WarmupYears,
		AnalysisYears: k.cfg.Years,
		RunID:         k.runID,
	})
}

// Run pops events until the queue is empty or the next event's day
// exceeds the horizon, appending each to the log before dispatching it.
func (k *Kernel) Run() {
	for {
		day, ok := k.queue.Peek()
		if !ok || day > k.horizon {
			return
		}
		d, ev, _ := k.queue.Pop()
		k.logger.Debug().Uint64("day", d).Str("kind", string(ev.Kind())).Msg("dispatch")
		k.log.Push(d, ev)
		k.dispatch(d, ev)
	}
}

func (k *Kernel) schedule(batch []events.Scheduled) {
	for _, s := range batch {
		k.queue.Schedule(s.Day, s.Event)
	}
}

func (k *Kernel) catClassFor(peril events.Peril) (perils.CatEventClass, bool) {
	for _, c := range k.catClasses {
		if c.Peril == peril {
			return c, true
		}
	}
	return perils.CatEventClass{}, false
}
